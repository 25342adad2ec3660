package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	barMargin = 20
	barHeight = 6
	barBottom = 28
	titleX    = 20
	titleY    = 20
)

var (
	inkColor   = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	trackColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0x30}
)

// bar is the soundtrack progress strip along the bottom edge.
type bar struct {
	x, y, width, height float32
}

func progressBar(screenWidth, screenHeight int) bar {
	return bar{
		x:      barMargin,
		y:      float32(screenHeight - barBottom),
		width:  float32(max(screenWidth-2*barMargin, 1)),
		height: barHeight,
	}
}

// hit reports whether (x, y) is on the bar, with some slack above and below.
func (b bar) hit(x, y float32) bool {
	return x >= b.x && x <= b.x+b.width && y >= b.y-6 && y <= b.y+b.height+6
}

// fraction maps x to a position along the bar in [0,1].
func (b bar) fraction(x float32) float64 {
	return clamp01(float64((x - b.x) / b.width))
}

func (b bar) draw(screen *ebiten.Image, pos, total time.Duration, level float64, playing bool) {
	vector.DrawFilledRect(screen, b.x, b.y, b.width, b.height, trackColor, false)
	var done float64
	if total > 0 {
		done = clamp01(float64(pos) / float64(total))
	}
	vector.DrawFilledRect(screen, b.x, b.y, float32(done)*b.width, b.height, levelColor(level), false)

	label := formatDuration(pos) + " / " + formatDuration(total)
	if !playing {
		label += "  paused"
	}
	ebitenutil.DebugPrintAt(screen, label, int(b.x), int(b.y)-18)
}

// levelColor shifts from a cool to a warm hue as the soundtrack gets louder.
func levelColor(level float64) color.Color {
	hue := 210 - 190*clamp01(level)
	r, g, b := colorful.Hsv(hue, 0.7, 0.85).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// formatDuration formats d as MM:SS.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// newTitle renders name once so it can be faded with a color scale.
func newTitle(name string) *ebiten.Image {
	img := ebiten.NewImage(len(name)*6+4, 16)
	ebitenutil.DebugPrintAt(img, name, 0, 0)
	return img
}

func drawTitle(screen, title *ebiten.Image, alpha float64) {
	if alpha <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(float64(screen.Bounds().Dx()-2*title.Bounds().Dx()-titleX), titleY)
	op.ColorScale.ScaleWithColor(inkColor)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(title, op)
}
