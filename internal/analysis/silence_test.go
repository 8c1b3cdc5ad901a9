package analysis

import "testing"

func TestSilenceDetector(t *testing.T) {
	det := SilenceDetector{FloorDB: -40.0}

	loud := frameSpec{EnergyDB: -20.0}
	quiet := frameSpec{EnergyDB: -60.0}

	t.Run("merges consecutive silent frames into spans", func(t *testing.T) {
		// 14 frames: loud 0-4, silent 5-7, loud 8-11, silent 12-13
		var specs []frameSpec
		specs = append(specs, repeatSpec(loud, 5)...)
		specs = append(specs, repeatSpec(quiet, 3)...)
		specs = append(specs, repeatSpec(loud, 4)...)
		specs = append(specs, repeatSpec(quiet, 2)...)
		frames := makeFrames(t, specs)

		silences := det.Detect(frames, testHopSec)
		if len(silences) != 2 {
			t.Fatalf("expected 2 silence spans, got %d", len(silences))
		}

		expected := []struct{ start, end float64 }{
			{0.5, 0.8},
			{1.2, 1.4},
		}
		for i, want := range expected {
			got := silences[i]
			if !approxEqual(got.Start, want.start, 1e-9) || !approxEqual(got.End, want.end, 1e-9) {
				t.Errorf("span %d: got [%.2f, %.2f], want [%.2f, %.2f]",
					i, got.Start, got.End, want.start, want.end)
			}
			if !approxEqual(got.Duration, want.end-want.start, 1e-9) {
				t.Errorf("span %d: duration %.3f, want %.3f", i, got.Duration, want.end-want.start)
			}
			if got.Type != TypeSilence {
				t.Errorf("span %d: type %q, want %q", i, got.Type, TypeSilence)
			}
		}
	})

	t.Run("entirely silent recording yields one full span", func(t *testing.T) {
		frames := makeFrames(t, repeatSpec(quiet, 10))

		silences := det.Detect(frames, testHopSec)
		if len(silences) != 1 {
			t.Fatalf("expected 1 silence span, got %d", len(silences))
		}
		if silences[0].Start != 0 || !approxEqual(silences[0].End, 1.0, 1e-9) {
			t.Errorf("got [%.2f, %.2f], want [0.00, 1.00]", silences[0].Start, silences[0].End)
		}
	})

	t.Run("no silent frames yields no spans", func(t *testing.T) {
		frames := makeFrames(t, repeatSpec(loud, 10))

		if silences := det.Detect(frames, testHopSec); len(silences) != 0 {
			t.Errorf("expected no spans, got %d", len(silences))
		}
	})

	t.Run("frame exactly at the floor is not silent", func(t *testing.T) {
		frames := makeFrames(t, repeatSpec(frameSpec{EnergyDB: -40.0}, 5))

		if silences := det.Detect(frames, testHopSec); len(silences) != 0 {
			t.Errorf("threshold comparison must be strict, got %d spans", len(silences))
		}
	})

	t.Run("empty frame sequence yields no spans", func(t *testing.T) {
		if silences := det.Detect(nil, testHopSec); len(silences) != 0 {
			t.Errorf("expected no spans, got %d", len(silences))
		}
	})
}
