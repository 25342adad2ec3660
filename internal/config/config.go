package config

import "github.com/iburimskiy/particle-floor/internal/device"

const (
	WindowWidth  = 1280
	WindowHeight = 720

	ProjectName = "EXPERIMENT GREG"

	// Camera
	FieldOfView    = 50.0
	NearPlane      = 1.0
	FarPlane       = 1000.0
	CameraDistance = 100.0
	CameraDamping  = 0.02
	MouseDamping   = 0.03

	// Invisible raycast target
	RayPlaneSize = 2000.0

	// Particle field
	FieldWidth   = 72
	FieldHeight  = 72
	TickStep     = 0.01
	MaxPointSize = 10.0
	MaxJitter    = 10.0

	// Post-processing
	NoiseAmount              = 0.04
	NoiseSpeed               = 0.2
	VignetteBoost            = 1.05
	VignetteReductionCompact = 0.2
	VignetteReductionDefault = 0.5

	ClearColor      = 0xf6f6f6
	ParticleTexture = "particle.png"

	// Soundtrack
	AudioRingSize       = 8192
	AudioSmoothing      = 0.6
	AudioSnapshotLength = 2048
)

// Palette holds the particle colors as hex triplets.
var Palette = []string{
	"E63946",
	"F1FAEE",
	"A8DADC",
	"457B9D",
	"1D3557",
}

// Size is a viewport size in logical pixels.
type Size struct {
	Width  int
	Height int
}

// Noise configures the film grain pass.
type Noise struct {
	Amount float64
	Speed  float64
}

// Vignette configures the vignette pass.
type Vignette struct {
	Boost     float64
	Reduction float64
}

// Floor holds the particle field knobs exposed to the shader stage.
type Floor struct {
	Repeat         float64
	NoiseScale     float64
	TimeScale      float64
	PointSizeScale float64
}

// Params is the construction input of a scene. Feature toggles are fixed once
// the scene is built.
type Params struct {
	Name   string
	Device device.Class

	PostProcessing bool
	Keyboard       bool
	Mouse          bool
	Touch          bool
	// Raycast wires pointer moves to the ground plane hit test.
	Raycast bool
	Debug   bool

	Size       Size
	PixelRatio float64

	Noise    Noise
	Vignette Vignette
	Floor    Floor
}

// Defaults returns the reference configuration for a device class.
func Defaults(dev device.Class, size Size) Params {
	return Params{
		Name:           ProjectName,
		Device:         dev,
		PostProcessing: true,
		Keyboard:       false,
		Mouse:          dev != device.Phone,
		Touch:          dev == device.Phone,
		Size:           size,
		PixelRatio:     1,
		Noise: Noise{
			Amount: NoiseAmount,
			Speed:  NoiseSpeed,
		},
		Vignette: Vignette{
			Boost:     VignetteBoost,
			Reduction: VignetteReductionFor(dev),
		},
		Floor: Floor{
			Repeat:         1,
			NoiseScale:     1,
			TimeScale:      1,
			PointSizeScale: 1,
		},
	}
}

// VignetteReductionFor returns the default vignette reduction of a device class.
func VignetteReductionFor(dev device.Class) float64 {
	if dev.Compact() {
		return VignetteReductionCompact
	}
	return VignetteReductionDefault
}

// Ratio returns the device pixel ratio, defaulting to 1 when unset.
func (p Params) Ratio() float64 {
	if p.PixelRatio <= 0 {
		return 1
	}
	return p.PixelRatio
}
