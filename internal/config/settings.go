package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Settings is the optional JSON overlay applied on top of Defaults. Nil fields
// leave the default untouched.
type Settings struct {
	PostProcessing *bool `json:"post_processing"`
	Keyboard       *bool `json:"keyboard"`
	Mouse          *bool `json:"mouse"`
	Touch          *bool `json:"touch"`
	Raycast        *bool `json:"raycast"`

	NoiseAmount       *float64 `json:"noise_amount"`
	NoiseSpeed        *float64 `json:"noise_speed"`
	VignetteBoost     *float64 `json:"vignette_boost"`
	VignetteReduction *float64 `json:"vignette_reduction"`

	Repeat         *float64 `json:"repeat"`
	NoiseScale     *float64 `json:"noise_scale"`
	TimeScale      *float64 `json:"time_scale"`
	PointSizeScale *float64 `json:"point_size_scale"`
}

// LoadSettings reads a settings file. A missing file yields empty settings;
// an unreadable one is an error; malformed JSON is logged and ignored.
func LoadSettings(path string, log *zap.Logger) (*Settings, error) {
	if path == "" {
		return &Settings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("settings file not found, using defaults", zap.String("path", path))
			return &Settings{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("invalid settings file, using defaults", zap.String("path", path), zap.Error(err))
		return &Settings{}, nil
	}

	known := knownKeys(Settings{})
	for key := range raw {
		if !known[key] {
			log.Warn("unrecognised setting key", zap.String("key", key))
		}
	}

	settings := &Settings{}
	if err := json.Unmarshal(data, settings); err != nil {
		log.Warn("invalid settings file, using defaults", zap.String("path", path), zap.Error(err))
		return &Settings{}, nil
	}
	return settings, nil
}

// Apply overlays s onto p.
func (s *Settings) Apply(p *Params) {
	if s == nil {
		return
	}
	setBool(&p.PostProcessing, s.PostProcessing)
	setBool(&p.Keyboard, s.Keyboard)
	setBool(&p.Mouse, s.Mouse)
	setBool(&p.Touch, s.Touch)
	setBool(&p.Raycast, s.Raycast)

	setFloat(&p.Noise.Amount, s.NoiseAmount)
	setFloat(&p.Noise.Speed, s.NoiseSpeed)
	setFloat(&p.Vignette.Boost, s.VignetteBoost)
	setFloat(&p.Vignette.Reduction, s.VignetteReduction)

	setFloat(&p.Floor.Repeat, s.Repeat)
	setFloat(&p.Floor.NoiseScale, s.NoiseScale)
	setFloat(&p.Floor.TimeScale, s.TimeScale)
	setFloat(&p.Floor.PointSizeScale, s.PointSizeScale)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func knownKeys(v any) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		keys[name] = true
	}
	return keys
}
