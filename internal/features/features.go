// Package features computes time-aligned feature representations of audio
// signals: magnitude and mel spectrograms, pitch and spectral statistics,
// and linear-prediction derived coefficients.
package features

import (
	"errors"

	"github.com/r9y9/gossp/stft"
)

// Extractor holds the analysis parameters shared by all feature computations.
type Extractor struct {
	SampleRate int
	Window     int // STFT frame shift
	Resolut    int // STFT frame length

	NumMels int
	MelFmin float64
	MelFmax float64

	LPCOrder int
	PreEmph  float64 // pre-emphasis coefficient

	NumMFCC int

	CQBins int // constant-Q bands
	CQHop  int // constant-Q hop length
}

// NewExtractor creates an Extractor with default parameters for the given
// sample rate.
func NewExtractor(sampleRate int) *Extractor {
	return &Extractor{
		SampleRate: sampleRate,
		Window:     256,
		Resolut:    2048,
		NumMels:    128,
		MelFmin:    0,
		MelFmax:    float64(sampleRate) / 2,
		LPCOrder:   12,
		PreEmph:    0.5,
		NumMFCC:    13,
		CQBins:     6,
		CQHop:      2048,
	}
}

var (
	ErrEmptySignal = errors.New("empty signal")
	ErrShortSignal = errors.New("signal shorter than one analysis frame")
)

// Spectrogram computes the magnitude spectrogram of buf. The result has one
// row per frame and Resolut/2 frequency bins per row.
func (e *Extractor) Spectrogram(buf []float64) ([][]float64, error) {
	if len(buf) == 0 {
		return nil, ErrEmptySignal
	}
	if len(buf) < e.Resolut {
		return nil, ErrShortSignal
	}

	buf = pad(buf, e.Window)

	s := stft.New(e.Window, e.Resolut)
	spectrum := s.STFT(buf)

	mags := make([][]float64, len(spectrum))
	for i := range spectrum {
		row := make([]float64, e.Resolut/2)
		for j := 0; j < e.Resolut/2; j++ {
			v := spectrum[i][j]
			row[j] = magnitude(real(v), imag(v))
		}
		mags[i] = row
	}

	return mags, nil
}

// BinFreq returns the center frequency in Hz of an STFT bin.
func (e *Extractor) BinFreq(bin int) float64 {
	return float64(bin) * float64(e.SampleRate) / float64(e.Resolut)
}

// PreEmphasis applies the pre-emphasis filter y[n] = x[n] - coeff*x[n-1].
func (e *Extractor) PreEmphasis(buf []float64) []float64 {
	if len(buf) == 0 {
		return nil
	}
	out := make([]float64, len(buf))
	out[0] = buf[0]
	for i := 1; i < len(buf); i++ {
		out[i] = buf[i] - e.PreEmph*buf[i-1]
	}
	return out
}

// pad centers the signal on a frame boundary so no tail samples are lost.
func pad(buf []float64, window int) []float64 {
	if len(buf)%window == 0 {
		return buf
	}
	rem := window - len(buf)%window
	lead := rem / 2
	out := make([]float64, 0, len(buf)+rem)
	out = append(out, make([]float64, lead)...)
	out = append(out, buf...)
	out = append(out, make([]float64, rem-lead)...)
	return out
}
