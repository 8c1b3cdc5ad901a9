package analysis

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	freqstats "github.com/cwbudde/algo-dsp/stats/frequency"
	timestats "github.com/cwbudde/algo-dsp/stats/time"
)

// Power floor for log conversions. Matches the amin clamp used when the
// thresholds were calibrated; values below it are indistinguishable from
// digital silence.
const powerFloor = 1e-10

// silentEnergyDB is the energy assigned to frames when the whole signal
// carries no measurable power, keeping them below any sane silence floor.
const silentEnergyDB = -80.0

// FeatureFrame is one hop-aligned analysis frame. Frames are derived from the
// waveform once and shared read-only by all detectors.
type FeatureFrame struct {
	StartTime        float64   // seconds
	EnergyDB         float64   // mean mel-band energy, dB rel. signal peak
	RMS              float64   // root-mean-square amplitude
	ZeroCrossingRate float64   // sign changes / frame length
	MFCC             []float64 // cepstral coefficients
	SpectralCentroid float64   // Hz
}

// FeatureComputer computes per-frame features over raw sample windows. The
// production implementation runs an FFT per frame; tests substitute synthetic
// implementations so detectors never need real audio.
type FeatureComputer interface {
	// MelEnergies returns the mel filterbank band powers for one frame.
	MelEnergies(frame []float64) ([]float64, error)
	// MFCC converts mel band powers into cepstral coefficients.
	MFCC(mel []float64) []float64
	// SpectralCentroid returns the spectral centre of mass in Hz.
	SpectralCentroid(frame []float64) (float64, error)
	// ZeroCrossingRate returns sign changes divided by frame length.
	ZeroCrossingRate(frame []float64) float64
	// RMS returns root-mean-square amplitude of the frame.
	RMS(frame []float64) float64
}

// FrameExtractor slices a waveform into hop-aligned frames and computes the
// per-frame feature set all detectors consume.
type FrameExtractor struct {
	cfg  Config
	comp FeatureComputer
}

// NewFrameExtractor builds an extractor with the FFT-backed feature computer.
func NewFrameExtractor(cfg Config) (*FrameExtractor, error) {
	comp, err := newSpectralComputer(cfg)
	if err != nil {
		return nil, err
	}
	return &FrameExtractor{cfg: cfg, comp: comp}, nil
}

// NewFrameExtractorWith builds an extractor around a caller-supplied feature
// computer.
func NewFrameExtractorWith(cfg Config, comp FeatureComputer) *FrameExtractor {
	return &FrameExtractor{cfg: cfg, comp: comp}
}

// Extract computes the ordered feature frame sequence for samples at the
// given rate. It fails on an empty signal; the pipeline surfaces that as a
// decode failure.
func (e *FrameExtractor) Extract(samples []float64, sampleRate int) ([]FeatureFrame, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty audio signal")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	hop := e.cfg.HopLength
	frameLen := e.cfg.FrameLength
	numFrames := len(samples)/hop + 1
	hopSec := e.cfg.hopSeconds(sampleRate)

	frames := make([]FeatureFrame, numFrames)
	melPower := make([]float64, numFrames)
	buf := make([]float64, frameLen)

	for i := 0; i < numFrames; i++ {
		// Frames are centered on i*hop; edges are zero-padded so frame
		// times line up with hop multiples across the whole signal.
		fillFrame(buf, samples, i*hop-frameLen/2)

		mel, err := e.comp.MelEnergies(buf)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		centroid, err := e.comp.SpectralCentroid(buf)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		melPower[i] = mean(mel)
		frames[i] = FeatureFrame{
			StartTime:        float64(i) * hopSec,
			RMS:              e.comp.RMS(buf),
			ZeroCrossingRate: e.comp.ZeroCrossingRate(buf),
			MFCC:             e.comp.MFCC(mel),
			SpectralCentroid: centroid,
		}
	}

	fillEnergyDB(frames, melPower)
	return frames, nil
}

// fillFrame copies frameLen samples starting at the (possibly negative)
// offset into buf, zero-padding everything outside the signal.
func fillFrame(buf, samples []float64, offset int) {
	for j := range buf {
		idx := offset + j
		if idx >= 0 && idx < len(samples) {
			buf[j] = samples[idx]
		} else {
			buf[j] = 0
		}
	}
}

// fillEnergyDB converts per-frame mean mel power to dB relative to the peak
// frame power of the recording, clamped to the silent floor. A recording
// with no measurable power has no usable reference, so every frame is pinned
// to the floor instead of the degenerate 0 dB the ratio would produce.
func fillEnergyDB(frames []FeatureFrame, melPower []float64) {
	ref := 0.0
	for _, p := range melPower {
		if p > ref {
			ref = p
		}
	}

	if ref <= powerFloor {
		for i := range frames {
			frames[i].EnergyDB = silentEnergyDB
		}
		return
	}

	for i, p := range melPower {
		db := 10 * math.Log10(math.Max(p, powerFloor)/ref)
		if db < silentEnergyDB {
			db = silentEnergyDB
		}
		frames[i].EnergyDB = db
	}
}

// spectralComputer is the production FeatureComputer: Hann-windowed FFT
// frames, mel filterbank energies, DCT-II cepstra, and algo-dsp statistics
// for the time-domain quantities.
type spectralComputer struct {
	cfg     Config
	rate    int
	plan    *algofft.Plan[complex128]
	win     []float64
	filters [][]float64
	fftIn   []complex128
	fftOut  []complex128
}

func newSpectralComputer(cfg Config) (*spectralComputer, error) {
	plan, err := algofft.NewPlan64(cfg.FrameLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create FFT plan: %w", err)
	}

	win, err := window.Hann(cfg.FrameLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis window: %w", err)
	}

	return &spectralComputer{
		cfg:     cfg,
		rate:    cfg.TargetSampleRate,
		plan:    plan,
		win:     win,
		filters: melFilterbank(cfg.MelBands, cfg.FrameLength, cfg.TargetSampleRate),
		fftIn:   make([]complex128, cfg.FrameLength),
		fftOut:  make([]complex128, cfg.FrameLength),
	}, nil
}

// powerSpectrum returns the one-sided power spectrum of a windowed frame.
func (s *spectralComputer) powerSpectrum(frame []float64) ([]float64, error) {
	for i := range s.fftIn {
		s.fftIn[i] = complex(frame[i]*s.win[i], 0)
	}
	if err := s.plan.Forward(s.fftOut, s.fftIn); err != nil {
		return nil, fmt.Errorf("fft failed: %w", err)
	}
	return spectrum.Power(s.fftOut[:s.cfg.FrameLength/2+1]), nil
}

func (s *spectralComputer) MelEnergies(frame []float64) ([]float64, error) {
	power, err := s.powerSpectrum(frame)
	if err != nil {
		return nil, err
	}

	mel := make([]float64, len(s.filters))
	for b, filter := range s.filters {
		var sum float64
		for k, w := range filter {
			if w != 0 {
				sum += power[k] * w
			}
		}
		mel[b] = sum
	}
	return mel, nil
}

func (s *spectralComputer) MFCC(mel []float64) []float64 {
	logMel := make([]float64, len(mel))
	for i, p := range mel {
		logMel[i] = 10 * math.Log10(math.Max(p, powerFloor))
	}
	return dctII(logMel, s.cfg.MFCCSize)
}

func (s *spectralComputer) SpectralCentroid(frame []float64) (float64, error) {
	power, err := s.powerSpectrum(frame)
	if err != nil {
		return 0, err
	}

	mag := make([]float64, len(power))
	for i, p := range power {
		mag[i] = math.Sqrt(p)
	}
	return freqstats.Calculate(mag, float64(s.rate)).Centroid, nil
}

func (s *spectralComputer) ZeroCrossingRate(frame []float64) float64 {
	st := timestats.Calculate(frame)
	return float64(st.ZeroCrossings) / float64(len(frame))
}

func (s *spectralComputer) RMS(frame []float64) float64 {
	return timestats.Calculate(frame).RMS
}

// melFilterbank builds triangular mel-spaced filters over the one-sided
// spectrum bins, spanning 20 Hz to Nyquist.
func melFilterbank(numFilters, fftSize, sampleRate int) [][]float64 {
	hzToMel := func(hz float64) float64 {
		return 2595 * math.Log10(1+hz/700)
	}
	melToHz := func(mel float64) float64 {
		return 700 * (math.Pow(10, mel/2595) - 1)
	}

	nyquist := float64(sampleRate) / 2
	lowMel := hzToMel(20)
	highMel := hzToMel(nyquist)

	bins := make([]int, numFilters+2)
	for i := range bins {
		mel := lowMel + float64(i)*(highMel-lowMel)/float64(numFilters+1)
		bins[i] = int(math.Floor(melToHz(mel) * float64(fftSize) / float64(sampleRate)))
	}

	binCount := fftSize/2 + 1
	filters := make([][]float64, numFilters)
	for i := 0; i < numFilters; i++ {
		filters[i] = make([]float64, binCount)

		for j := bins[i]; j < bins[i+1] && j < binCount; j++ {
			if bins[i+1] != bins[i] {
				filters[i][j] = float64(j-bins[i]) / float64(bins[i+1]-bins[i])
			}
		}
		for j := bins[i+1]; j < bins[i+2] && j < binCount; j++ {
			if bins[i+2] != bins[i+1] {
				filters[i][j] = float64(bins[i+2]-j) / float64(bins[i+2]-bins[i+1])
			}
		}
	}
	return filters
}

// dctII computes the first size coefficients of the orthonormal DCT-II.
func dctII(in []float64, size int) []float64 {
	n := len(in)
	out := make([]float64, size)
	if n == 0 {
		return out
	}

	scale0 := math.Sqrt(1 / float64(4*n))
	scale := math.Sqrt(1 / float64(2*n))
	for k := 0; k < size; k++ {
		var sum float64
		for i, x := range in {
			sum += x * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/float64(2*n))
		}
		if k == 0 {
			out[k] = 2 * sum * scale0
		} else {
			out[k] = 2 * sum * scale
		}
	}
	return out
}
