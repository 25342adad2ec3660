package game

import "time"

// Fade eases an element in after Delay over Duration.
type Fade struct {
	Delay    time.Duration
	Duration time.Duration
}

// Alpha returns the opacity at elapsed, in [0,1].
func (f Fade) Alpha(elapsed time.Duration) float64 {
	if elapsed <= f.Delay {
		return 0
	}
	if f.Duration <= 0 {
		return 1
	}
	return easeOutQuad(clamp01(float64(elapsed-f.Delay) / float64(f.Duration)))
}

// Done reports whether the fade has finished at elapsed.
func (f Fade) Done(elapsed time.Duration) bool {
	return elapsed >= f.Delay+f.Duration
}

func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// Intro is the start-up timeline.
type Intro struct {
	Canvas Fade
	Title  Fade
}

// DefaultIntro fades the canvas in after 0.6s and the title after 0.4s, both
// over 2s.
var DefaultIntro = Intro{
	Canvas: Fade{Delay: 600 * time.Millisecond, Duration: 2 * time.Second},
	Title:  Fade{Delay: 400 * time.Millisecond, Duration: 2 * time.Second},
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
