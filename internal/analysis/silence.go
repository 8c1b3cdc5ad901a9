package analysis

// SilenceDetector reports contiguous spans of frames whose energy sits below
// the configured loudness floor.
type SilenceDetector struct {
	FloorDB float64 // dB rel. peak power; frames below are silent
}

// NewSilenceDetector builds a detector with the configured silence floor.
func NewSilenceDetector(cfg Config) SilenceDetector {
	return SilenceDetector{FloorDB: cfg.SilenceFloorDB}
}

// Detect merges consecutive silent frames into spans. A span opens at the
// first silent frame's start time and closes at the start time of the next
// non-silent frame, or at the end of the frame sequence when silence runs
// out. An entirely silent recording yields exactly one span [0, duration].
func (d SilenceDetector) Detect(frames []FeatureFrame, hopSec float64) []Silence {
	silences := []Silence{}
	start := -1.0
	open := false

	for i, f := range frames {
		t := float64(i) * hopSec
		silent := f.EnergyDB < d.FloorDB
		switch {
		case silent && !open:
			start = t
			open = true
		case !silent && open:
			silences = append(silences, span(start, t))
			open = false
		}
	}

	if open {
		end := float64(len(frames)) * hopSec
		silences = append(silences, span(start, end))
	}
	return silences
}

func span(start, end float64) Silence {
	return Silence{
		Type:     TypeSilence,
		Start:    start,
		End:      end,
		Duration: end - start,
	}
}
