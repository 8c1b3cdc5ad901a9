package analysis

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/linuxmatters/earmark/internal/audio"
)

// Pipeline runs the full analysis over one waveform: feature extraction,
// the four detectors (as independent goroutines over the shared read-only
// frame slice), and the timeline merge. Any decode or extraction failure
// yields a failed Result; no partial output is ever returned.
type Pipeline struct {
	cfg       Config
	log       *logrus.Logger
	extractor *FrameExtractor
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes pipeline diagnostics to the given logger. By default
// diagnostics are discarded so stdout stays reserved for the output document.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithFeatureComputer substitutes the frame feature computer, letting tests
// drive the pipeline with synthetic features instead of real spectra.
func WithFeatureComputer(comp FeatureComputer) Option {
	return func(p *Pipeline) { p.extractor = NewFrameExtractorWith(p.cfg, comp) }
}

// NewPipeline builds a pipeline for the given configuration.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	p := &Pipeline{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(p)
	}

	if p.extractor == nil {
		extractor, err := NewFrameExtractor(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build frame extractor: %w", err)
		}
		p.extractor = extractor
	}
	return p, nil
}

// AnalyzeFile decodes path at the target sample rate and analyzes the
// resulting waveform. Decode failures become failed Results, never panics or
// partial output.
func (p *Pipeline) AnalyzeFile(path string) *Result {
	samples, meta, err := audio.Decode(path, p.cfg.TargetSampleRate)
	if err != nil {
		p.log.WithError(err).WithField("file", path).Debug("decode failed")
		return Failure(err)
	}

	p.log.WithFields(logrus.Fields{
		"file":        path,
		"samples":     len(samples),
		"source_rate": meta.SampleRate,
		"channels":    meta.Channels,
	}).Debug("decoded audio")

	return p.Analyze(samples, p.cfg.TargetSampleRate)
}

// Analyze runs the detectors over an already-decoded mono waveform.
func (p *Pipeline) Analyze(samples []float64, sampleRate int) *Result {
	frames, err := p.extractor.Extract(samples, sampleRate)
	if err != nil {
		p.log.WithError(err).Debug("feature extraction failed")
		return Failure(err)
	}

	hopSec := p.cfg.hopSeconds(sampleRate)
	duration := float64(len(samples)) / float64(sampleRate)

	p.log.WithFields(logrus.Fields{
		"frames":   len(frames),
		"duration": duration,
	}).Debug("extracted feature frames")

	// The detectors only read the shared frame slice and each write their
	// own output, so they can run joined but unordered; the merge re-sorts.
	var (
		wg       sync.WaitGroup
		silences []Silence
		loudness []LoudnessChange
		windows  []SpeechMusic
		speakers []SpeakerChange
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		silences = NewSilenceDetector(p.cfg).Detect(frames, hopSec)
	}()
	go func() {
		defer wg.Done()
		loudness = NewLoudnessSegmenter(p.cfg).Detect(frames, hopSec)
	}()
	go func() {
		defer wg.Done()
		windows = NewSpeechMusicClassifier(p.cfg).Classify(frames, hopSec)
	}()
	go func() {
		defer wg.Done()
		speakers = NewSpeakerChangeDetector(p.cfg).Detect(frames, hopSec)
	}()
	wg.Wait()

	p.log.WithFields(logrus.Fields{
		"silences":        len(silences),
		"loudness":        len(loudness),
		"speech_music":    len(windows),
		"speaker_changes": len(speakers),
	}).Debug("detectors finished")

	return &Result{
		Success:        true,
		Duration:       duration,
		SampleRate:     sampleRate,
		Segments:       MergeEvents(silences, loudness, windows, speakers),
		Silences:       silences,
		Loudness:       loudness,
		SpeechMusic:    windows,
		SpeakerChanges: speakers,
	}
}
