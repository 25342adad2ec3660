// Package debug is the parameter panel shown in debug mode. Controls are
// declared explicitly; nothing is discovered by reflection.
package debug

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-floor/internal/floor"
	"github.com/iburimskiy/particle-floor/internal/postfx"
)

// Control is one line of the panel: a number slider or a toggle.
type Control struct {
	Folder string
	Label  string

	Min, Max, Step float64
	Get            func() float64
	Set            func(float64)

	// Toggle controls use Enabled/SetEnabled instead of Get/Set.
	Toggle     bool
	Enabled    func() bool
	SetEnabled func(bool)
}

// Nudge moves a slider by steps, clamped to its range, or flips a toggle.
func (c *Control) Nudge(steps int) {
	if c.Toggle {
		c.SetEnabled(!c.Enabled())
		return
	}
	v := c.Get() + float64(steps)*c.Step
	c.Set(min(max(v, c.Min), c.Max))
}

func (c *Control) String() string {
	if c.Toggle {
		return fmt.Sprintf("%-14s %v", c.Label, c.Enabled())
	}
	return fmt.Sprintf("%-14s %.3f", c.Label, c.Get())
}

// Panel lists controls grouped by folder.
type Panel struct {
	Title    string
	Controls []*Control
	Visible  bool

	selected int
}

// NewPanel returns a visible empty panel.
func NewPanel(title string) *Panel {
	return &Panel{Title: title, Visible: true}
}

// AddPasses adds an enabled toggle and every declared parameter of each pass.
func (p *Panel) AddPasses(passes []postfx.Pass) {
	for _, pass := range passes {
		folder := "PostProcessing/" + pass.Name()
		p.Controls = append(p.Controls, &Control{
			Folder:     folder,
			Label:      "enabled",
			Toggle:     true,
			Enabled:    pass.Enabled,
			SetEnabled: pass.SetEnabled,
		})
		for _, param := range pass.Params() {
			p.Controls = append(p.Controls, &Control{
				Folder: folder,
				Label:  param.Name,
				Min:    param.Min,
				Max:    param.Max,
				Step:   param.Step,
				Get:    param.Get,
				Set:    param.Set,
			})
		}
	}
}

// AddFloor adds the particle field tunables.
func (p *Panel) AddFloor(f *floor.Field) {
	axis := func(label string, i int) *Control {
		return &Control{
			Folder: "Floor", Label: label, Min: -50, Max: 50, Step: 1,
			Get: func() float64 { return float64(f.Position()[i]) },
			Set: func(v float64) {
				pos := f.Position()
				pos[i] = float32(v)
				f.Move(pos)
			},
		}
	}
	uniform := func(label string, lo, hi, step float64, get func(floor.Uniforms) float64, set func(float64)) *Control {
		return &Control{
			Folder: "Floor", Label: label, Min: lo, Max: hi, Step: step,
			Get: func() float64 { return get(f.Uniforms()) },
			Set: set,
		}
	}
	p.Controls = append(p.Controls,
		axis("x", 0),
		axis("y", 1),
		axis("z", 2),
		uniform("repeat", 0, 20, 0.5, func(u floor.Uniforms) float64 { return u.Repeat }, f.SetRepeat),
		uniform("noiseScale", -50, 50, 0.5, func(u floor.Uniforms) float64 { return u.NoiseScale }, f.SetNoiseScale),
		uniform("timeScale", 0, 1, 0.05, func(u floor.Uniforms) float64 { return u.TimeScale }, f.SetTimeScale),
		uniform("pointSizeScale", 0, 10, 0.1, func(u floor.Uniforms) float64 { return u.PointSizeScale }, f.SetPointSizeScale),
	)
}

// Selected returns the highlighted control, or nil for an empty panel.
func (p *Panel) Selected() *Control {
	if len(p.Controls) == 0 {
		return nil
	}
	return p.Controls[p.selected]
}

// Move shifts the selection, wrapping around.
func (p *Panel) Move(delta int) {
	n := len(p.Controls)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// Update reads the panel keys: Tab shows/hides, Up/Down select, Left/Right
// adjust (Shift for x10), Enter flips toggles.
func (p *Panel) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		p.Visible = !p.Visible
	}
	if !p.Visible {
		return
	}
	switch {
	case repeating(ebiten.KeyArrowUp):
		p.Move(-1)
	case repeating(ebiten.KeyArrowDown):
		p.Move(1)
	}
	c := p.Selected()
	if c == nil {
		return
	}
	steps := 1
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		steps = 10
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && c.Toggle:
		c.Nudge(0)
	case repeating(ebiten.KeyArrowLeft) && !c.Toggle:
		c.Nudge(-steps)
	case repeating(ebiten.KeyArrowRight) && !c.Toggle:
		c.Nudge(steps)
	}
}

// repeating is true on press and then every few ticks while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 20 && d%4 == 0)
}

const (
	panelX      = 12
	panelY      = 40
	panelWidth  = 260
	lineHeight  = 16
	sliderWidth = 70
)

// Draw renders the panel in the top left corner, with pointer in the footer.
func (p *Panel) Draw(screen *ebiten.Image, pointer mgl32.Vec2) {
	if !p.Visible {
		return
	}
	lines := len(p.Controls) + countFolders(p.Controls) + 2
	vector.DrawFilledRect(screen, panelX-4, panelY-4, panelWidth, float32(lines*lineHeight+8),
		color.RGBA{R: 20, G: 25, B: 35, A: 210}, false)
	ebitenutil.DebugPrintAt(screen, p.Title, panelX, panelY)

	y := panelY + lineHeight
	folder := ""
	for i, c := range p.Controls {
		if c.Folder != folder {
			folder = c.Folder
			ebitenutil.DebugPrintAt(screen, folder, panelX, y)
			y += lineHeight
		}
		if i == p.selected {
			vector.DrawFilledRect(screen, panelX, float32(y), panelWidth-8, lineHeight, highlight, false)
		}
		ebitenutil.DebugPrintAt(screen, "  "+c.String(), panelX, y)
		if !c.Toggle && c.Max > c.Min {
			ratio := (c.Get() - c.Min) / (c.Max - c.Min)
			sx := float32(panelX + panelWidth - sliderWidth - 12)
			vector.StrokeRect(screen, sx, float32(y+3), sliderWidth, lineHeight-6, 1, color.White, false)
			vector.DrawFilledRect(screen, sx, float32(y+3), float32(ratio)*sliderWidth, lineHeight-6, color.White, false)
		}
		y += lineHeight
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("pointer %.2f %.2f  fps %.0f", pointer.X(), pointer.Y(), ebiten.ActualFPS()), panelX, y)
}

var highlight = func() color.Color {
	r, g, b := colorful.Hsv(210, 0.6, 0.55).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}()

func countFolders(controls []*Control) int {
	n := 0
	folder := ""
	for _, c := range controls {
		if c.Folder != folder {
			folder = c.Folder
			n++
		}
	}
	return n
}
