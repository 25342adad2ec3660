// Package game drives the scene from the ebiten loop: it polls input, runs
// the intro timeline and hosts the soundtrack and debug panel.
package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-floor/internal/audio"
	"github.com/iburimskiy/particle-floor/internal/debug"
	"github.com/iburimskiy/particle-floor/internal/scene"
)

type pick struct {
	path string
	err  error
}

// Game implements ebiten.Game around a Scene.
type Game struct {
	scene  *scene.Scene
	player *audio.Player
	panel  *debug.Panel
	log    *zap.Logger

	intro Intro
	ticks int
	title *ebiten.Image

	// layout in logical pixels
	width, height int
	ratio         float64
	scale         func() float64

	// input edge detection
	cursorSeen       bool
	cursorX, cursorY int
	touchX, touchY   int
	keys             []ebiten.Key
	chars            []rune
	touchIDs         []ebiten.TouchID
	touches          []scene.Touch

	picks   chan pick
	picking bool
}

// New wires sc to the loop. The panel is only built in debug mode.
func New(sc *scene.Scene, player *audio.Player, log *zap.Logger) *Game {
	g := &Game{
		scene:  sc,
		player: player,
		log:    log,
		intro:  DefaultIntro,
		picks:  make(chan pick, 1),
		scale:  monitorScale,
	}
	params := sc.Params()
	g.width, g.height = params.Size.Width, params.Size.Height
	g.ratio = params.Ratio()

	if params.Debug {
		g.panel = debug.NewPanel(params.Name)
		g.panel.AddPasses(sc.Passes())
		g.panel.AddFloor(sc.Field())
	}

	sc.Bind(ebiten.KeyO, g.openDialog)
	sc.Bind(ebiten.KeySpace, player.TogglePause)
	return g
}

// Play starts a soundtrack. Failures are logged and leave the scene running.
func (g *Game) Play(path string) {
	if path == "" {
		return
	}
	if err := g.player.Load(path); err != nil {
		g.log.Warn("soundtrack not loaded", zap.String("path", path), zap.Error(err))
	}
}

func (g *Game) openDialog() {
	if g.picking {
		return
	}
	g.picking = true
	go func() {
		path, err := audio.SelectFile()
		g.picks <- pick{path: path, err: err}
	}()
}

func (g *Game) pollDialog() {
	select {
	case p := <-g.picks:
		g.picking = false
		switch {
		case p.err != nil:
			g.log.Warn("file dialog failed", zap.Error(p.err))
		case p.path == "":
			g.log.Debug("file dialog cancelled")
		default:
			g.Play(p.path)
		}
	default:
	}
}

// Update polls input and advances everything that is not drawn.
func (g *Game) Update() error {
	g.ticks++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pollKeys()
	g.pollMouse()
	g.pollTouches()
	g.pollDialog()

	g.scene.Field().SetLevel(g.player.Update())
	if g.panel != nil {
		g.panel.Update()
	}
	return nil
}

func (g *Game) pollKeys() {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.scene.KeyDown(k)
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.scene.KeyUp(k)
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		g.scene.KeyPress(r)
	}
}

func (g *Game) pollMouse() {
	cx, cy := ebiten.CursorPosition()
	g.trackCursor(cx, cy)
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	g.scene.Click(g.toLogical(cx, cy))

	if _, total := g.player.Progress(); total > 0 {
		w, h := g.scene.SurfaceSize()
		b := progressBar(w, h)
		if b.hit(float32(cx), float32(cy)) {
			if err := g.player.Seek(b.fraction(float32(cx))); err != nil {
				g.log.Warn("seek failed", zap.Error(err))
			}
		}
	}
}

// trackCursor forwards cursor motion to the scene. The first position only
// seeds the tracker, so the pointer stays centered until the cursor moves.
func (g *Game) trackCursor(cx, cy int) {
	if !g.cursorSeen {
		g.cursorX, g.cursorY, g.cursorSeen = cx, cy, true
		return
	}
	if cx == g.cursorX && cy == g.cursorY {
		return
	}
	g.cursorX, g.cursorY = cx, cy
	g.scene.MouseMove(g.toLogical(cx, cy))
}

func (g *Game) pollTouches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	g.touches = g.touches[:0]
	for _, id := range g.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		x, y := g.toLogical(tx, ty)
		g.touches = append(g.touches, scene.Touch{ID: int(id), X: x, Y: y})
	}

	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		g.scene.TouchStart(g.touches)
	}
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		g.scene.TouchEnd(g.touches)
	}
	if len(g.touchIDs) == 0 {
		return
	}
	tx, ty := ebiten.TouchPosition(g.touchIDs[0])
	if tx != g.touchX || ty != g.touchY {
		g.touchX, g.touchY = tx, ty
		g.scene.TouchMove(g.touches)
	}
}

// toLogical converts screen pixels to the logical pixels the scene expects.
func (g *Game) toLogical(x, y int) (float64, float64) {
	r := g.scene.Params().Ratio()
	return float64(x) / r, float64(y) / r
}

func (g *Game) elapsed() time.Duration {
	return time.Duration(float64(g.ticks) / float64(ebiten.TPS()) * float64(time.Second))
}

// Draw renders the scene, then the intro overlay and the HUD on top.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.RenderFrame(screen)

	elapsed := g.elapsed()
	if !g.intro.Canvas.Done(elapsed) {
		c := scene.ClearColor
		a := g.intro.Canvas.Alpha(elapsed)
		veil := color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8((1 - a) * 0xff)}
		b := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), veil, false)
	}

	if g.title == nil {
		g.title = newTitle(g.scene.Params().Name)
	}
	drawTitle(screen, g.title, g.intro.Title.Alpha(elapsed))

	if pos, total := g.player.Progress(); total > 0 {
		b := screen.Bounds()
		progressBar(b.Dx(), b.Dy()).draw(screen, pos, total, g.player.Level(), g.player.Playing())
	}

	if g.panel != nil {
		g.panel.Draw(screen, g.scene.ScreenPointer())
	}
}

// Layout forwards viewport and monitor scale changes to the scene and renders
// at device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if r := g.scale(); r > 0 && r != g.ratio {
		g.ratio = r
		g.scene.SetPixelRatio(r)
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.scene.Resize(outsideWidth, outsideHeight)
		g.log.Debug("resized", zap.Int("width", outsideWidth), zap.Int("height", outsideHeight))
	}
	return g.scene.SurfaceSize()
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Close releases the soundtrack.
func (g *Game) Close() {
	g.player.Close()
}
