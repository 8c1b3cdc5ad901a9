package logging

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"zero", 0.0, 2, "0.00"},
		{"positive", 3.14159, 2, "3.14"},
		{"negative", -16.5, 1, "-16.5"},
		{"large", 12345.6789, 2, "12345.68"},
		{"small_normal", 0.001, 3, "0.001"},
		{"very_small_scientific", 0.00001, 2, "1.00e-05"},
		{"very_small_negative", -0.00001, 2, "-1.00e-05"},
		{"nan", math.NaN(), 2, MissingValue},
		{"positive_inf", math.Inf(1), 2, MissingValue},
		{"negative_inf", math.Inf(-1), 2, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetric(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		decimals int
		want     string
	}{
		{"zero", 0.0, 1, "0.0%"},
		{"half", 0.5, 1, "50.0%"},
		{"full", 1.0, 0, "100%"},
		{"small", 0.042, 1, "4.2%"},
		{"nan", math.NaN(), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatPercent(tt.ratio, tt.decimals)
			if got != tt.want {
				t.Errorf("formatPercent(%v, %d) = %q, want %q", tt.ratio, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatDurationHMS(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00"},
		{"under_a_minute", 42.4, "0:42"},
		{"rounds_up", 59.6, "1:00"},
		{"minutes", 754, "12:34"},
		{"hours", 3661, "1:01:01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDurationHMS(tt.seconds)
			if got != tt.want {
				t.Errorf("formatDurationHMS(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestMetricTableString(t *testing.T) {
	t.Run("basic_two_column", func(t *testing.T) {
		table := NewMetricTable("Count", "Coverage")
		table.AddRow("Silence spans", []string{"3", "12.5%"}, "", "")
		table.AddRow("Loudness changes", []string{"17", MissingValue}, "", "")

		output := table.String()

		for _, want := range []string{"Count", "Coverage", "Silence spans", "12.5%", "17"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("with_interpretation", func(t *testing.T) {
		table := NewMetricTable("Count")
		table.AddRow("Silence spans", []string{"8"}, "", "normal pause density")

		output := table.String()

		if !strings.Contains(output, "Interpretation") {
			t.Error("output should contain 'Interpretation' header when rows have interpretations")
		}
		if !strings.Contains(output, "normal pause density") {
			t.Error("output should contain interpretation text")
		}
	})

	t.Run("missing_values", func(t *testing.T) {
		table := NewMetricTable("Count", "Coverage")
		table.AddRow("Speaker changes", []string{"2"}, "", "") // only 1 value for 2 columns

		output := table.String()

		if !strings.Contains(output, " - ") && !strings.Contains(output, " -  ") {
			t.Error("missing values should display as dash")
		}
	})

	t.Run("empty_table", func(t *testing.T) {
		table := NewMetricTable("Count")
		if output := table.String(); output != "" {
			t.Errorf("empty table should return empty string, got %q", output)
		}
	})
}

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("Count")
	table.AddRow("Short", []string{"1"}, "", "")
	table.AddRow("Much Longer Label", []string{"100"}, "", "")

	output := table.String()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 data), got %d", len(lines))
	}

	// Values are right-aligned, so the rightmost digit of each value column
	// lands at the same offset.
	first := strings.Index(lines[1], "1")
	second := strings.LastIndex(lines[2], "0")
	if first == -1 || second == -1 || first != second {
		t.Errorf("value columns misaligned:\n%s", output)
	}
}
