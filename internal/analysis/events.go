package analysis

import "sort"

// Event type tags as they appear in the output document.
const (
	TypeSilence        = "silence"
	TypeLoudnessChange = "loudness_change"
	TypeSpeechMusic    = "speech_music"
	TypeSpeakerChange  = "speaker_change"

	// SpeechMusic labels
	LabelSpeech = "speech"
	LabelMusic  = "music"
)

// Event is one entry on the merged timeline. Span events sort by their start
// time, point events by their instant.
type Event interface {
	// EventTime returns the primary time anchor used for timeline ordering.
	EventTime() float64
}

// Silence is a contiguous span of frames below the silence floor.
type Silence struct {
	Type     string  `json:"type"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

func (s Silence) EventTime() float64 { return s.Start }

// LoudnessChange marks an instant where the smoothed RMS slope exceeded the
// adaptive threshold.
type LoudnessChange struct {
	Type      string  `json:"type"`
	Time      float64 `json:"time"`
	Magnitude float64 `json:"magnitude"`
}

func (l LoudnessChange) EventTime() float64 { return l.Time }

// SpeechMusic is one classification window labelled speech or music.
type SpeechMusic struct {
	Type       string  `json:"type"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func (s SpeechMusic) EventTime() float64 { return s.Start }

// SpeakerChange marks a window boundary whose mean MFCC vector moved beyond
// the distance threshold from the previous window.
type SpeakerChange struct {
	Type     string  `json:"type"`
	Time     float64 `json:"time"`
	Distance float64 `json:"distance"`
}

func (s SpeakerChange) EventTime() float64 { return s.Time }

// MergeEvents concatenates the four detector outputs in their generation
// order and stable-sorts by primary time, so ties keep silences before
// loudness changes before speech/music windows before speaker changes.
func MergeEvents(silences []Silence, loudness []LoudnessChange, speechMusic []SpeechMusic, speakers []SpeakerChange) []Event {
	events := make([]Event, 0, len(silences)+len(loudness)+len(speechMusic)+len(speakers))
	for _, e := range silences {
		events = append(events, e)
	}
	for _, e := range loudness {
		events = append(events, e)
	}
	for _, e := range speechMusic {
		events = append(events, e)
	}
	for _, e := range speakers {
		events = append(events, e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime() < events[j].EventTime()
	})
	return events
}
