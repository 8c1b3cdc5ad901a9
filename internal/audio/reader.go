// Package audio provides audio file decoding and resampling for analysis.
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"
)

// Metadata contains audio file metadata read from the source file, before
// any downmix or resampling.
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	BitDepth   int
}

// Decode reads a WAV file, downmixes it to mono float64 samples in [-1, 1],
// and resamples to targetRate when the source rate differs. The returned
// metadata describes the source file, not the converted signal.
func Decode(filename string, targetRate int) ([]float64, *Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, fmt.Errorf("not a valid WAV file: %s", filename)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, nil, fmt.Errorf("empty audio stream in %s", filename)
	}

	srcRate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	if srcRate <= 0 || channels <= 0 {
		return nil, nil, fmt.Errorf("malformed WAV format in %s: rate=%d channels=%d",
			filename, srcRate, channels)
	}

	mono := downmix(buf, int(dec.BitDepth))

	metadata := &Metadata{
		Duration:   float64(len(mono)) / float64(srcRate),
		SampleRate: srcRate,
		Channels:   channels,
		BitDepth:   int(dec.BitDepth),
	}

	if srcRate != targetRate {
		mono, err = resample(mono, srcRate, targetRate)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resample %s: %w", filename, err)
		}
	}

	return mono, metadata, nil
}

// downmix averages interleaved integer channels into normalized mono floats.
func downmix(buf *goaudio.IntBuffer, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))
	channels := buf.Format.NumChannels

	numFrames := len(buf.Data) / channels
	mono := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		mono[i] = sum / float64(channels) / scale
	}
	return mono
}

// resample converts a mono signal from srcRate to dstRate.
func resample(samples []float64, srcRate, dstRate int) ([]float64, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := rs.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	return out, nil
}
