// Package postfx implements the post-processing chain: a set of full screen
// passes and the composer that runs them over an off-screen buffer.
package postfx

import (
	_ "embed"

	"github.com/iburimskiy/particle-floor/internal/config"
)

var (
	//go:embed shaders/fxaa.kage
	fxaaSource []byte
	//go:embed shaders/noise.kage
	noiseSource []byte
	//go:embed shaders/vignette.kage
	vignetteSource []byte
)

// Param describes one tunable number of a pass. Value points into the pass.
type Param struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	Value *float64
}

// Set stores v clamped to the declared range.
func (p Param) Set(v float64) {
	*p.Value = min(max(v, p.Min), p.Max)
}

// Get returns the current value.
func (p Param) Get() float64 { return *p.Value }

// Pass is one full screen effect.
type Pass interface {
	Name() string
	Enabled() bool
	SetEnabled(bool)
	// Params is the explicit schema of the pass's tunables.
	Params() []Param
	// Source is the Kage program of the pass.
	Source() []byte
	// Uniforms is called once per application.
	Uniforms() map[string]any
}

type base struct {
	name    string
	enabled bool
	source  []byte
}

func (b *base) Name() string      { return b.name }
func (b *base) Enabled() bool     { return b.enabled }
func (b *base) SetEnabled(v bool) { b.enabled = v }
func (b *base) Source() []byte    { return b.source }

// FXAA is a fast approximate anti-aliasing pass.
type FXAA struct {
	base
	ReduceMin float64
	ReduceMul float64
	SpanMax   float64
}

// NewFXAA returns an FXAA pass with the usual constants.
func NewFXAA() *FXAA {
	return &FXAA{
		base:      base{name: "FXAAPass", enabled: true, source: fxaaSource},
		ReduceMin: 1.0 / 128.0,
		ReduceMul: 1.0 / 8.0,
		SpanMax:   8,
	}
}

func (p *FXAA) Params() []Param {
	return []Param{
		{Name: "reduceMin", Min: 0, Max: 0.1, Step: 1.0 / 512.0, Value: &p.ReduceMin},
		{Name: "reduceMul", Min: 0, Max: 1, Step: 1.0 / 64.0, Value: &p.ReduceMul},
		{Name: "spanMax", Min: 1, Max: 16, Step: 1, Value: &p.SpanMax},
	}
}

func (p *FXAA) Uniforms() map[string]any {
	return map[string]any{
		"ReduceMin": float32(p.ReduceMin),
		"ReduceMul": float32(p.ReduceMul),
		"SpanMax":   float32(p.SpanMax),
	}
}

// Noise adds animated film grain.
type Noise struct {
	base
	Amount float64
	Speed  float64

	time float64
}

// NewNoise returns a noise pass.
func NewNoise(cfg config.Noise) *Noise {
	return &Noise{
		base:   base{name: "NoisePass", enabled: true, source: noiseSource},
		Amount: cfg.Amount,
		Speed:  cfg.Speed,
	}
}

func (p *Noise) Params() []Param {
	return []Param{
		{Name: "amount", Min: 0, Max: 1, Step: 0.01, Value: &p.Amount},
		{Name: "speed", Min: 0, Max: 5, Step: 0.05, Value: &p.Speed},
	}
}

// Uniforms advances the grain clock by one step.
func (p *Noise) Uniforms() map[string]any {
	p.time += p.Speed
	return map[string]any{
		"Amount": float32(p.Amount),
		"Time":   float32(p.time),
	}
}

// Vignette darkens the frame towards its edges.
type Vignette struct {
	base
	Boost     float64
	Reduction float64
}

// NewVignette returns a vignette pass.
func NewVignette(cfg config.Vignette) *Vignette {
	return &Vignette{
		base:      base{name: "VignettePass", enabled: true, source: vignetteSource},
		Boost:     cfg.Boost,
		Reduction: cfg.Reduction,
	}
}

func (p *Vignette) Params() []Param {
	return []Param{
		{Name: "boost", Min: 0, Max: 2, Step: 0.01, Value: &p.Boost},
		{Name: "reduction", Min: 0, Max: 2, Step: 0.01, Value: &p.Reduction},
	}
}

func (p *Vignette) Uniforms() map[string]any {
	return map[string]any{
		"Boost":     float32(p.Boost),
		"Reduction": float32(p.Reduction),
	}
}

// Chain returns the pass list in its fixed order: anti-aliasing, noise, vignette.
func Chain(noise config.Noise, vignette config.Vignette) []Pass {
	return []Pass{
		NewFXAA(),
		NewNoise(noise),
		NewVignette(vignette),
	}
}
