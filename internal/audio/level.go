package audio

import "math"

// rms returns the root mean square of the mono mix of samples.
func rms(samples [][2]float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sum += mono * mono
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// smooth blends a compressed magnitude into prev.
func smooth(prev, raw, factor float64) float64 {
	mag := math.Pow(raw, 0.3)
	return factor*prev + (1-factor)*mag
}
