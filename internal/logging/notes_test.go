package logging

import (
	"strings"
	"testing"

	"github.com/linuxmatters/earmark/internal/analysis"
)

// successResult builds a minimal successful result for note rule tests.
func successResult(mutate func(*analysis.Result)) *analysis.Result {
	r := &analysis.Result{
		Success:  true,
		Duration: 600.0,
	}
	if mutate != nil {
		mutate(r)
	}
	return r
}

func hasRule(notes []SegmentationNote, ruleID string) bool {
	for _, n := range notes {
		if n.RuleID == ruleID {
			return true
		}
	}
	return false
}

func TestGenerateSegmentationNotes(t *testing.T) {
	t.Run("nil or failed result yields no notes", func(t *testing.T) {
		if notes := GenerateSegmentationNotes(nil); notes != nil {
			t.Errorf("expected nil for nil result, got %v", notes)
		}
		failed := &analysis.Result{Success: false}
		if notes := GenerateSegmentationNotes(failed); notes != nil {
			t.Errorf("expected nil for failed result, got %v", notes)
		}
	})

	t.Run("leading silence fires", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			r.Silences = []analysis.Silence{
				{Type: analysis.TypeSilence, Start: 0, End: 5, Duration: 5},
			}
			r.Loudness = []analysis.LoudnessChange{{Time: 100}}
		})

		notes := GenerateSegmentationNotes(r)
		if !hasRule(notes, "leading_silence") {
			t.Errorf("expected leading_silence, got %v", notes)
		}
	})

	t.Run("short leading silence does not fire", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			r.Silences = []analysis.Silence{
				{Type: analysis.TypeSilence, Start: 0, End: 1, Duration: 1},
			}
		})

		if notes := GenerateSegmentationNotes(r); hasRule(notes, "leading_silence") {
			t.Error("one second of lead-in should not trigger the note")
		}
	})

	t.Run("trailing silence fires", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			r.Silences = []analysis.Silence{
				{Type: analysis.TypeSilence, Start: 595, End: 600, Duration: 5},
			}
			r.Loudness = []analysis.LoudnessChange{{Time: 100}}
		})

		if notes := GenerateSegmentationNotes(r); !hasRule(notes, "trailing_silence") {
			t.Errorf("expected trailing_silence, got %v", notes)
		}
	})

	t.Run("heavy silence suppresses edge notes", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			r.Silences = []analysis.Silence{
				{Type: analysis.TypeSilence, Start: 0, End: 250, Duration: 250},
			}
		})

		notes := GenerateSegmentationNotes(r)
		if !hasRule(notes, "heavy_silence") {
			t.Fatalf("expected heavy_silence, got %v", notes)
		}
		if hasRule(notes, "leading_silence") {
			t.Error("leading_silence should be suppressed by heavy_silence")
		}
	})

	t.Run("music heavy fires", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			for i := 0; i < 20; i++ {
				label := analysis.LabelMusic
				if i < 4 {
					label = analysis.LabelSpeech
				}
				r.SpeechMusic = append(r.SpeechMusic, analysis.SpeechMusic{Label: label})
			}
			r.Loudness = []analysis.LoudnessChange{{Time: 100}}
		})

		if notes := GenerateSegmentationNotes(r); !hasRule(notes, "music_heavy") {
			t.Errorf("expected music_heavy, got %v", notes)
		}
	})

	t.Run("dense speaker changes fire", func(t *testing.T) {
		r := successResult(func(r *analysis.Result) {
			for i := 0; i < 20; i++ {
				r.SpeechMusic = append(r.SpeechMusic, analysis.SpeechMusic{Label: analysis.LabelSpeech})
			}
			for i := 0; i < 15; i++ {
				r.SpeakerChanges = append(r.SpeakerChanges, analysis.SpeakerChange{Time: float64(i)})
			}
		})

		if notes := GenerateSegmentationNotes(r); !hasRule(notes, "dense_speaker_changes") {
			t.Errorf("expected dense_speaker_changes, got %v", notes)
		}
	})

	t.Run("no boundaries fires on uniform recordings", func(t *testing.T) {
		r := successResult(nil)

		if notes := GenerateSegmentationNotes(r); !hasRule(notes, "no_boundaries") {
			t.Errorf("expected no_boundaries, got %v", notes)
		}
	})

	t.Run("notes are capped and ordered by priority", func(t *testing.T) {
		// Fire as many rules as possible at once.
		r := successResult(func(r *analysis.Result) {
			r.Silences = []analysis.Silence{
				{Type: analysis.TypeSilence, Start: 0, End: 250, Duration: 250},
			}
			for i := 0; i < 20; i++ {
				r.SpeechMusic = append(r.SpeechMusic, analysis.SpeechMusic{Label: analysis.LabelMusic})
			}
			for i := 0; i < 15; i++ {
				r.SpeakerChanges = append(r.SpeakerChanges, analysis.SpeakerChange{Time: float64(i)})
			}
			for i := 0; i < 400; i++ {
				r.Loudness = append(r.Loudness, analysis.LoudnessChange{Time: float64(i)})
			}
		})

		notes := GenerateSegmentationNotes(r)
		if len(notes) > MaxSegmentationNotes {
			t.Errorf("got %d notes, cap is %d", len(notes), MaxSegmentationNotes)
		}
		for i := 1; i < len(notes); i++ {
			if notes[i].Priority > notes[i-1].Priority {
				t.Errorf("notes not sorted by priority at %d", i)
			}
		}
	})
}

func TestWrapText(t *testing.T) {
	t.Run("short text is unchanged", func(t *testing.T) {
		if got := wrapText("short text", 64, "  "); got != "short text" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long text wraps with indent", func(t *testing.T) {
		text := strings.Repeat("word ", 30)
		got := wrapText(strings.TrimSpace(text), 30, "   ")

		lines := strings.Split(got, "\n")
		if len(lines) < 2 {
			t.Fatalf("expected wrapping, got %q", got)
		}
		for i, line := range lines[1:] {
			if !strings.HasPrefix(line, "   ") {
				t.Errorf("continuation line %d missing indent: %q", i+1, line)
			}
		}
	})
}
