package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// tap passes samples through from src and remembers the most recent ones so
// the loop goroutine can measure the level without locking the speaker.
type tap struct {
	src beep.Streamer

	mu   sync.RWMutex
	ring [][2]float64
	head int
}

func newTap(src beep.Streamer, size int) *tap {
	return &tap{src: src, ring: make([][2]float64, size)}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)
	if n == 0 {
		return n, ok
	}
	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.head] = s
		t.head = (t.head + 1) % len(t.ring)
	}
	t.mu.Unlock()
	return n, ok
}

func (t *tap) Err() error { return t.src.Err() }

// snapshot copies the last n samples, oldest first.
func (t *tap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := len(t.ring)
	n = min(n, size)
	out := make([][2]float64, n)
	start := (t.head - n + size) % size
	for i := range out {
		out[i] = t.ring[(start+i)%size]
	}
	return out
}
