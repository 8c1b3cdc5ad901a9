package analysis

import (
	"math"

	timestats "github.com/cwbudde/algo-dsp/stats/time"
)

// LoudnessSegmenter reports instants where the smoothed frame RMS changes
// faster than an adaptive threshold, marking candidate section boundaries.
type LoudnessSegmenter struct {
	Window int     // moving-average width in frames
	Sigma  float64 // stddev multiplier over the mean absolute diff
}

// NewLoudnessSegmenter builds a segmenter from the configured smoothing
// window and threshold multiplier.
func NewLoudnessSegmenter(cfg Config) LoudnessSegmenter {
	return LoudnessSegmenter{Window: cfg.SmoothingWindow, Sigma: cfg.LoudnessSigma}
}

// Detect smooths the per-frame RMS series, takes the absolute first
// difference, and emits one event per index whose diff exceeds
// mean + Sigma * stddev. Adjacent triggers are intentionally not merged;
// every qualifying index produces its own event.
func (s LoudnessSegmenter) Detect(frames []FeatureFrame, hopSec float64) []LoudnessChange {
	if len(frames) < 2 {
		return []LoudnessChange{}
	}

	rms := make([]float64, len(frames))
	for i, f := range frames {
		rms[i] = f.RMS
	}

	smooth := movingAverage(rms, s.Window)

	diff := make([]float64, len(smooth)-1)
	for i := range diff {
		diff[i] = math.Abs(smooth[i+1] - smooth[i])
	}

	st := timestats.Calculate(diff)
	threshold := st.DC + s.Sigma*math.Sqrt(st.Variance)

	changes := []LoudnessChange{}
	for i, d := range diff {
		if d > threshold {
			changes = append(changes, LoudnessChange{
				Type:      TypeLoudnessChange,
				Time:      float64(i) * hopSec,
				Magnitude: d,
			})
		}
	}
	return changes
}

// movingAverage is a centered moving average with a fixed 1/width kernel.
// Edges are not renormalized: positions whose window extends past the series
// simply sum fewer terms, matching a same-length convolution against a
// constant kernel.
func movingAverage(x []float64, width int) []float64 {
	if width <= 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	// A width-w kernel centered like a same-mode convolution covers
	// [i-w/2, i+(w-1)/2] around each index.
	back := width / 2
	fwd := width - 1 - back

	out := make([]float64, len(x))
	for i := range x {
		lo := i - back
		if lo < 0 {
			lo = 0
		}
		hi := i + fwd
		if hi > len(x)-1 {
			hi = len(x) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(width)
	}
	return out
}
