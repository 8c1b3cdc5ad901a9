package analysis

import "sort"

// SpeechMusicClassifier labels a fixed number of equal-length windows as
// speech or music. The heuristic compares each window's mean zero-crossing
// rate and spectral centroid against the recording-wide medians: speech-like
// audio crosses zero more often while keeping its energy in the mid band.
// This is a deliberate coarse heuristic, not a trained classifier.
type SpeechMusicClassifier struct {
	Windows       int     // fixed partition count
	CentroidRatio float64 // speech iff centroid < ratio * median centroid
	Confidence    float64 // fixed confidence attached to every window
}

// NewSpeechMusicClassifier builds a classifier from the configured window
// count and heuristic parameters.
func NewSpeechMusicClassifier(cfg Config) SpeechMusicClassifier {
	return SpeechMusicClassifier{
		Windows:       cfg.WindowCount,
		CentroidRatio: cfg.CentroidRatio,
		Confidence:    cfg.SpeechConfidence,
	}
}

// Classify partitions the frames and labels each window. Windows are
// contiguous and cover the full frame range; the last window absorbs the
// partition remainder.
func (c SpeechMusicClassifier) Classify(frames []FeatureFrame, hopSec float64) []SpeechMusic {
	windows := partitionFrames(len(frames), c.Windows)
	if len(windows) == 0 {
		return []SpeechMusic{}
	}

	zcr := make([]float64, len(frames))
	centroid := make([]float64, len(frames))
	for i, f := range frames {
		zcr[i] = f.ZeroCrossingRate
		centroid[i] = f.SpectralCentroid
	}
	medianZCR := median(zcr)
	medianCentroid := median(centroid)

	segments := make([]SpeechMusic, 0, len(windows))
	for _, w := range windows {
		meanZCR := mean(zcr[w.start:w.end])
		meanCentroid := mean(centroid[w.start:w.end])

		label := LabelMusic
		if meanZCR > medianZCR && meanCentroid < c.CentroidRatio*medianCentroid {
			label = LabelSpeech
		}

		segments = append(segments, SpeechMusic{
			Type:       TypeSpeechMusic,
			Start:      float64(w.start) * hopSec,
			End:        float64(w.end) * hopSec,
			Label:      label,
			Confidence: c.Confidence,
		})
	}
	return segments
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// median returns the middle value of x, averaging the two central values for
// even lengths. The input is not modified.
func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
