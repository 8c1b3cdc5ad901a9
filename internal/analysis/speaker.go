package analysis

import "math"

// SpeakerChangeDetector flags window boundaries where the mean MFCC vector
// jumps by more than a distance threshold, a cheap proxy for a change of
// voice. The first window never emits since it has no predecessor.
type SpeakerChangeDetector struct {
	Windows  int     // fixed partition count
	Distance float64 // Euclidean distance threshold between window means
}

// NewSpeakerChangeDetector builds a detector from the configured window
// count and distance threshold.
func NewSpeakerChangeDetector(cfg Config) SpeakerChangeDetector {
	return SpeakerChangeDetector{Windows: cfg.WindowCount, Distance: cfg.SpeakerDistance}
}

// Detect computes the mean MFCC vector per window and emits an event at each
// window start whose distance from the previous window exceeds the
// threshold.
func (d SpeakerChangeDetector) Detect(frames []FeatureFrame, hopSec float64) []SpeakerChange {
	windows := partitionFrames(len(frames), d.Windows)
	changes := []SpeakerChange{}

	var prev []float64
	for _, w := range windows {
		current := meanMFCC(frames[w.start:w.end])
		if prev != nil {
			if dist := euclidean(current, prev); dist > d.Distance {
				changes = append(changes, SpeakerChange{
					Type:     TypeSpeakerChange,
					Time:     float64(w.start) * hopSec,
					Distance: dist,
				})
			}
		}
		prev = current
	}
	return changes
}

// meanMFCC averages the MFCC vectors of a window coefficient-wise.
func meanMFCC(frames []FeatureFrame) []float64 {
	if len(frames) == 0 {
		return nil
	}
	out := make([]float64, len(frames[0].MFCC))
	for _, f := range frames {
		for i, c := range f.MFCC {
			out[i] += c
		}
	}
	for i := range out {
		out[i] /= float64(len(frames))
	}
	return out
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
