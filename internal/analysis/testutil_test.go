package analysis

import (
	"math"
	"testing"
)

// testHopSec is a convenient hop duration for synthetic frame tests; real
// geometry (512/22050) only matters for tests that run the full extractor.
const testHopSec = 0.1

// frameSpec describes one synthetic feature frame. Zero values are fine for
// fields a test does not care about.
type frameSpec struct {
	EnergyDB float64
	RMS      float64
	ZCR      float64
	Centroid float64
	MFCC     []float64
}

// makeFrames expands specs into a feature frame slice with hop-aligned
// start times.
func makeFrames(t *testing.T, specs []frameSpec) []FeatureFrame {
	t.Helper()

	frames := make([]FeatureFrame, len(specs))
	for i, s := range specs {
		frames[i] = FeatureFrame{
			StartTime:        float64(i) * testHopSec,
			EnergyDB:         s.EnergyDB,
			RMS:              s.RMS,
			ZeroCrossingRate: s.ZCR,
			SpectralCentroid: s.Centroid,
			MFCC:             s.MFCC,
		}
	}
	return frames
}

// repeatSpec returns n copies of one frame spec.
func repeatSpec(spec frameSpec, n int) []frameSpec {
	specs := make([]frameSpec, n)
	for i := range specs {
		specs[i] = spec
	}
	return specs
}

// TestToneOptions configures the synthetic waveform to generate
type TestToneOptions struct {
	DurationSecs float64 // Total duration in seconds
	SampleRate   int     // Sample rate (default: 22050)
	ToneFreq     float64 // Sine wave frequency in Hz (0 = no tone)
	ToneAmp      float64 // Sine amplitude, linear 0..1
	NoiseAmp     float64 // White noise amplitude, linear (0 = none)
	SilenceGap   struct {
		Start    float64 // Start time of silence gap in seconds
		Duration float64 // Duration of silence gap in seconds
	}
}

// generateTestTone creates a synthetic waveform with a tone, optional
// deterministic noise, and an optional silence gap.
func generateTestTone(t *testing.T, opts TestToneOptions) []float64 {
	t.Helper()

	if opts.SampleRate == 0 {
		opts.SampleRate = 22050
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 5.0
	}

	totalSamples := int(opts.DurationSecs * float64(opts.SampleRate))
	samples := make([]float64, totalSamples)

	silenceStart := int(opts.SilenceGap.Start * float64(opts.SampleRate))
	silenceEnd := int((opts.SilenceGap.Start + opts.SilenceGap.Duration) * float64(opts.SampleRate))

	// Simple LCG random number generator for deterministic noise
	rngState := uint32(12345)
	nextRandom := func() float64 {
		rngState = rngState*1664525 + 1013904223
		return (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	for i := 0; i < totalSamples; i++ {
		if i >= silenceStart && i < silenceEnd && opts.SilenceGap.Duration > 0 {
			continue
		}

		var sample float64
		if opts.ToneFreq > 0 && opts.ToneAmp > 0 {
			sample += opts.ToneAmp * math.Sin(2*math.Pi*opts.ToneFreq*float64(i)/float64(opts.SampleRate))
		}
		if opts.NoiseAmp > 0 {
			sample += opts.NoiseAmp * nextRandom()
		}
		samples[i] = sample
	}

	return samples
}

// approxEqual reports whether two floats are within tolerance.
func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
