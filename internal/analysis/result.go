package analysis

import "encoding/json"

// Result is the outcome of one pipeline invocation. It is all-or-nothing:
// either Success is true and every analysis field is populated, or Success is
// false and only Error carries information.
type Result struct {
	Success        bool
	Duration       float64 // seconds
	SampleRate     int
	Segments       []Event // merged, time-sorted timeline
	Silences       []Silence
	Loudness       []LoudnessChange
	SpeechMusic    []SpeechMusic
	SpeakerChanges []SpeakerChange
	Error          string
}

// Failure wraps an error into a failed Result.
func Failure(err error) *Result {
	return &Result{Success: false, Error: err.Error()}
}

// MarshalJSON emits the output document: analysis fields are present iff the
// run succeeded, the error field iff it failed.
func (r *Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: r.Error})
	}

	return json.Marshal(struct {
		Success        bool             `json:"success"`
		Duration       float64          `json:"duration"`
		SampleRate     int              `json:"sample_rate"`
		Segments       []Event          `json:"segments"`
		Silences       []Silence        `json:"silences"`
		Loudness       []LoudnessChange `json:"loudness_segments"`
		SpeechMusic    []SpeechMusic    `json:"speech_music"`
		SpeakerChanges []SpeakerChange  `json:"speaker_changes"`
	}{
		Success:        true,
		Duration:       r.Duration,
		SampleRate:     r.SampleRate,
		Segments:       r.Segments,
		Silences:       r.Silences,
		Loudness:       r.Loudness,
		SpeechMusic:    r.SpeechMusic,
		SpeakerChanges: r.SpeakerChanges,
	})
}
