package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linuxmatters/earmark/internal/analysis"
)

// SegmentationNote represents a single piece of actionable advice derived
// from the detected event timeline.
type SegmentationNote struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "leading_silence")
}

// MaxSegmentationNotes is the maximum number of notes to include in a report.
const MaxSegmentationNotes = 5

// Rule thresholds for note generation.
const (
	noteEdgeSilenceMinSec   = 2.0  // leading/trailing silence worth flagging
	noteEdgeSilenceSlack    = 0.25 // seconds of tolerance at recording edges
	noteHeavySilenceRatio   = 0.30 // silence share that dominates a recording
	noteMusicHeavyRatio     = 0.70 // music window share considered music-led
	noteLoudnessDensePerMin = 30.0 // loudness triggers per minute considered noisy
)

// GenerateSegmentationNotes analyses a successful result and returns
// prioritised observations about the detected timeline.
func GenerateSegmentationNotes(r *analysis.Result) []SegmentationNote {
	if r == nil || !r.Success {
		return nil
	}

	var notes []SegmentationNote
	firedRules := make(map[string]bool)

	rules := []func(*analysis.Result) *SegmentationNote{
		noteLeadingSilence,
		noteTrailingSilence,
		noteHeavySilence,
		noteMusicHeavy,
		noteDenseSpeakerChanges,
		noteDenseLoudnessChanges,
		noteNoBoundaries,
	}

	for _, rule := range rules {
		if note := rule(r); note != nil {
			notes = append(notes, *note)
			firedRules[note.RuleID] = true
		}
	}

	// Apply mutual exclusion
	notes = applyExclusions(notes, firedRules)

	// Sort by priority (descending)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Priority > notes[j].Priority
	})

	// Cap at maximum
	if len(notes) > MaxSegmentationNotes {
		notes = notes[:MaxSegmentationNotes]
	}

	return notes
}

// applyExclusions removes notes that are redundant when a more general note
// has already fired. When silence dominates the whole recording, flagging the
// edges separately adds nothing.
func applyExclusions(notes []SegmentationNote, fired map[string]bool) []SegmentationNote {
	var result []SegmentationNote
	for _, note := range notes {
		switch note.RuleID {
		case "leading_silence", "trailing_silence":
			if fired["heavy_silence"] {
				continue
			}
		}
		result = append(result, note)
	}
	return result
}

func noteLeadingSilence(r *analysis.Result) *SegmentationNote {
	if len(r.Silences) == 0 {
		return nil
	}
	first := r.Silences[0]
	if first.Start > noteEdgeSilenceSlack || first.Duration < noteEdgeSilenceMinSec {
		return nil
	}
	return &SegmentationNote{
		Priority: 8,
		RuleID:   "leading_silence",
		Message: fmt.Sprintf("The recording opens with %.1fs of silence. "+
			"Consider trimming the lead-in before publishing.", first.Duration),
	}
}

func noteTrailingSilence(r *analysis.Result) *SegmentationNote {
	if len(r.Silences) == 0 {
		return nil
	}
	last := r.Silences[len(r.Silences)-1]
	if r.Duration-last.End > noteEdgeSilenceSlack || last.Duration < noteEdgeSilenceMinSec {
		return nil
	}
	return &SegmentationNote{
		Priority: 7,
		RuleID:   "trailing_silence",
		Message: fmt.Sprintf("The recording ends with %.1fs of silence. "+
			"Consider trimming the tail.", last.Duration),
	}
}

func noteHeavySilence(r *analysis.Result) *SegmentationNote {
	if r.Duration <= 0 {
		return nil
	}
	var total float64
	for _, s := range r.Silences {
		total += s.Duration
	}
	ratio := total / r.Duration
	if ratio < noteHeavySilenceRatio {
		return nil
	}
	return &SegmentationNote{
		Priority: 9,
		RuleID:   "heavy_silence",
		Message: fmt.Sprintf("Silence covers %.0f%% of the recording. "+
			"Gap removal would significantly shorten the programme.", ratio*100),
	}
}

func noteMusicHeavy(r *analysis.Result) *SegmentationNote {
	if len(r.SpeechMusic) == 0 {
		return nil
	}
	music := 0
	for _, w := range r.SpeechMusic {
		if w.Label == analysis.LabelMusic {
			music++
		}
	}
	ratio := float64(music) / float64(len(r.SpeechMusic))
	if ratio < noteMusicHeavyRatio {
		return nil
	}
	return &SegmentationNote{
		Priority: 6,
		RuleID:   "music_heavy",
		Message: fmt.Sprintf("%d of %d classification windows look like music. "+
			"Treat the speech/music split with care if this is a talk programme.",
			music, len(r.SpeechMusic)),
	}
}

func noteDenseSpeakerChanges(r *analysis.Result) *SegmentationNote {
	if len(r.SpeechMusic) == 0 || len(r.SpeakerChanges) == 0 {
		return nil
	}
	// More changes than half the windows means almost every boundary fired.
	if len(r.SpeakerChanges) <= len(r.SpeechMusic)/2 {
		return nil
	}
	return &SegmentationNote{
		Priority: 5,
		RuleID:   "dense_speaker_changes",
		Message: fmt.Sprintf("%d of %d window boundaries register as speaker changes. "+
			"The MFCC distance threshold may be too low for this recording.",
			len(r.SpeakerChanges), len(r.SpeechMusic)),
	}
}

func noteDenseLoudnessChanges(r *analysis.Result) *SegmentationNote {
	if r.Duration <= 0 || len(r.Loudness) == 0 {
		return nil
	}
	perMinute := float64(len(r.Loudness)) / (r.Duration / 60)
	if perMinute < noteLoudnessDensePerMin {
		return nil
	}
	return &SegmentationNote{
		Priority: 4,
		RuleID:   "dense_loudness_changes",
		Message: fmt.Sprintf("Loudness boundaries fire %.0f times per minute. "+
			"Expect many candidate cut points; smoothing may need widening.", perMinute),
	}
}

func noteNoBoundaries(r *analysis.Result) *SegmentationNote {
	if len(r.Loudness) > 0 || len(r.SpeakerChanges) > 0 {
		return nil
	}
	return &SegmentationNote{
		Priority: 3,
		RuleID:   "no_boundaries",
		Message: "No loudness or speaker boundaries were detected. " +
			"The recording is acoustically uniform; segmentation will rely on silences alone.",
	}
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = indent + word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n")
}
