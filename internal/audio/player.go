// Package audio plays an optional soundtrack and reports its level so the
// particle floor can pulse with it.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-floor/internal/config"
)

// Player owns the speaker. Methods are called from the loop goroutine; the
// speaker goroutine only touches the tap and the finished flag.
type Player struct {
	log *zap.Logger

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *tap

	initDone bool
	paused   bool
	finished atomic.Bool
	level    float64
}

// NewPlayer returns an idle player.
func NewPlayer(log *zap.Logger) *Player {
	return &Player{log: log}
}

type decoderFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps a lower case file extension to its decoder. Platform files
// may add more.
var decoders = map[string]decoderFunc{
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
}

// decode opens path and picks a decoder from its extension.
func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	decoder, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil, beep.Format{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}
	streamer, format, err := decoder(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, streamer, format, nil
}

// Load stops the current track and starts playing path.
func (p *Player) Load(path string) error {
	f, streamer, format, err := decode(path)
	if err != nil {
		return err
	}

	t := newTap(streamer, config.AudioRingSize)
	ctrl := &beep.Ctrl{Streamer: t}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("speaker: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.release()

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = t
	p.paused = false
	p.finished.Store(false)

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		p.finished.Store(true)
	})))

	p.log.Info("soundtrack playing",
		zap.String("path", path),
		zap.Int("sampleRate", int(format.SampleRate)),
		zap.Duration("duration", format.SampleRate.D(streamer.Len())),
	)
	return nil
}

// TogglePause pauses or resumes playback.
func (p *Player) TogglePause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Playing reports whether a track is loaded and not paused.
func (p *Player) Playing() bool {
	return p.streamer != nil && !p.paused
}

// Update refreshes the level from recent samples and returns it.
func (p *Player) Update() float64 {
	if p.finished.Load() {
		p.release()
		p.finished.Store(false)
	}
	if p.tap == nil || p.paused {
		p.level = smooth(p.level, 0, config.AudioSmoothing)
		return p.level
	}
	raw := rms(p.tap.snapshot(config.AudioSnapshotLength))
	p.level = smooth(p.level, raw, config.AudioSmoothing)
	return p.level
}

// Level is the last value returned by Update.
func (p *Player) Level() float64 { return p.level }

// Progress returns the playback position and track length.
func (p *Player) Progress() (pos, total time.Duration) {
	if p.streamer == nil {
		return 0, 0
	}
	speaker.Lock()
	n, length := p.streamer.Position(), p.streamer.Len()
	speaker.Unlock()
	return p.format.SampleRate.D(n), p.format.SampleRate.D(length)
}

// Seek jumps to fraction of the track, clamped to [0,1].
func (p *Player) Seek(fraction float64) error {
	if p.streamer == nil {
		return nil
	}
	fraction = min(max(fraction, 0), 1)
	speaker.Lock()
	defer speaker.Unlock()
	n := int(fraction * float64(p.streamer.Len()))
	if n >= p.streamer.Len() {
		n = p.streamer.Len() - 1
	}
	if err := p.streamer.Seek(max(n, 0)); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	if p.initDone {
		speaker.Clear()
	}
	p.release()
}

func (p *Player) release() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.tap = nil
}
