// Package logging handles generation of analysis reports for analysed audio files

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/linuxmatters/earmark/internal/analysis"
)

// ReportData bundles everything the report writer needs for one file.
type ReportData struct {
	InputPath string
	StartTime time.Time
	EndTime   time.Time
	Config    analysis.Config
	Result    *analysis.Result
}

// maxListedSilences caps the per-span silence listing; the longest spans are
// listed first so the cap keeps the interesting ones.
const maxListedSilences = 10

// GenerateReport writes a human-readable analysis report next to the input
// file, named <input>-earmark.log.
func GenerateReport(data ReportData) error {
	if data.Result == nil || !data.Result.Success {
		return fmt.Errorf("no successful analysis result to report on")
	}

	reportPath := data.InputPath + "-earmark.log"
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writeReport(f, data)
	return nil
}

// writeReport renders the full report to w.
func writeReport(w io.Writer, data ReportData) {
	r := data.Result

	// Header
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "EARMARK ANALYSIS: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Generated: %s\n", data.EndTime.Format(time.RFC1123))
	fmt.Fprintf(w, "Analysis time: %.2fs\n", data.EndTime.Sub(data.StartTime).Seconds())
	fmt.Fprintln(w)

	// File facts
	writeSection(w, "FILE")
	fmt.Fprintf(w, "  Duration:    %s (%.2fs)\n", formatDurationHMS(r.Duration), r.Duration)
	fmt.Fprintf(w, "  Sample Rate: %d Hz\n", r.SampleRate)
	fmt.Fprintf(w, "  Frame/Hop:   %d/%d samples\n", data.Config.FrameLength, data.Config.HopLength)
	fmt.Fprintln(w)

	// Event summary
	writeSection(w, "EVENT SUMMARY")
	fmt.Fprint(w, indentTable(eventSummaryTable(r)))
	fmt.Fprintln(w)

	// Speech/music split
	writeSection(w, "SPEECH / MUSIC")
	speech, music := labelSplit(r.SpeechMusic)
	fmt.Fprintf(w, "  Windows:  %d (%d speech, %d music)\n", len(r.SpeechMusic), speech, music)
	if len(r.SpeechMusic) > 0 {
		fmt.Fprintf(w, "  Dominant: %s\n", dominantLabel(speech, music))
	}
	fmt.Fprintln(w)

	// Silence listing
	if len(r.Silences) > 0 {
		writeSection(w, "LONGEST SILENCES")
		for _, s := range longestSilences(r.Silences, maxListedSilences) {
			fmt.Fprintf(w, "  %8.2fs - %8.2fs  (%.2fs)\n", s.Start, s.End, s.Duration)
		}
		fmt.Fprintln(w)
	}

	// Notes
	notes := GenerateSegmentationNotes(r)
	if len(notes) > 0 {
		writeSection(w, "SEGMENTATION NOTES")
		for i, note := range notes {
			fmt.Fprintf(w, "  %d. %s\n", i+1, wrapText(note.Message, 64, "     "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 70))
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// eventSummaryTable builds the per-detector count/coverage table.
func eventSummaryTable(r *analysis.Result) string {
	var silenceTotal float64
	for _, s := range r.Silences {
		silenceTotal += s.Duration
	}

	silenceShare := 0.0
	if r.Duration > 0 {
		silenceShare = silenceTotal / r.Duration
	}

	table := NewMetricTable("Count", "Coverage")
	table.AddRow("Silence spans",
		[]string{formatCount(len(r.Silences)), formatPercent(silenceShare, 1)},
		"", silenceInterpretation(silenceShare))
	table.AddRow("Loudness changes",
		[]string{formatCount(len(r.Loudness)), MissingValue}, "", "")
	table.AddRow("Speech/music windows",
		[]string{formatCount(len(r.SpeechMusic)), MissingValue}, "", "")
	table.AddRow("Speaker changes",
		[]string{formatCount(len(r.SpeakerChanges)), MissingValue}, "", "")
	table.AddRow("Merged timeline",
		[]string{formatCount(len(r.Segments)), MissingValue}, "", "")
	return table.String()
}

// silenceInterpretation gives a one-phrase reading of the silence share.
func silenceInterpretation(share float64) string {
	switch {
	case share == 0:
		return "no detected silence"
	case share < 0.05:
		return "tight, continuous programme"
	case share < 0.30:
		return "normal pause density"
	default:
		return "silence-heavy recording"
	}
}

func labelSplit(windows []analysis.SpeechMusic) (speech, music int) {
	for _, w := range windows {
		if w.Label == analysis.LabelSpeech {
			speech++
		} else {
			music++
		}
	}
	return speech, music
}

func dominantLabel(speech, music int) string {
	if speech > music {
		return analysis.LabelSpeech
	}
	if music > speech {
		return analysis.LabelMusic
	}
	return "balanced"
}

// longestSilences returns up to n spans sorted by descending duration.
func longestSilences(silences []analysis.Silence, n int) []analysis.Silence {
	sorted := make([]analysis.Silence, len(silences))
	copy(sorted, silences)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// indentTable prefixes every table line with two spaces to sit inside a
// report section.
func indentTable(table string) string {
	if table == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
