package features

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// MFCC computes mel-frequency cepstral coefficients: a DCT-II over the log
// mel spectrogram. The result has one row per coefficient and one column
// per frame.
func (e *Extractor) MFCC(buf []float64) ([][]float64, error) {
	melspec, err := e.MelSpectrogram(buf)
	if err != nil {
		return nil, err
	}
	if len(melspec) == 0 {
		return nil, ErrEmptySignal
	}

	frames := len(melspec[0])
	out := make([][]float64, e.NumMFCC)
	for i := range out {
		out[i] = make([]float64, frames)
	}

	column := make([]float64, len(melspec))
	for t := 0; t < frames; t++ {
		for m := range melspec {
			column[m] = melspec[m][t]
		}
		coeffs := dct2(column, e.NumMFCC)
		for i, c := range coeffs {
			out[i][t] = c
		}
	}

	return out, nil
}

// CQCC computes constant-Q cepstral coefficients: log magnitudes of a
// constant-Q band analysis followed by a DCT-II, min-max normalized to
// [0, 1] over the whole matrix.
func (e *Extractor) CQCC(buf []float64) ([][]float64, error) {
	if len(buf) == 0 {
		return nil, ErrEmptySignal
	}

	logmag := e.constantQ(buf)
	if len(logmag) == 0 {
		return nil, ErrEmptySignal
	}

	frames := len(logmag)
	out := make([][]float64, e.CQBins)
	for i := range out {
		out[i] = make([]float64, frames)
	}

	for t, bands := range logmag {
		coeffs := dct2(bands, e.CQBins)
		for i, c := range coeffs {
			out[i][t] = c
		}
	}

	// Normalize to [0, 1] so the rendered panel is visible
	min, max := out[0][0], out[0][0]
	for i := range out {
		for _, v := range out[i] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if max > min {
		for i := range out {
			for j := range out[i] {
				out[i][j] = (out[i][j] - min) / (max - min)
			}
		}
	}

	return out, nil
}

// constantQ computes per-frame log magnitudes of CQBins geometrically
// spaced bands, one octave apart, starting at C1 (32.70 Hz). Each frame of
// CQHop samples is transformed with an FFT and the bins inside each band
// are averaged.
func (e *Extractor) constantQ(buf []float64) [][]float64 {
	const fmin = 32.70
	hop := e.CQHop

	var frames [][]float64
	for start := 0; start+hop <= len(buf); start += hop {
		frame := buf[start : start+hop]
		spectrum := fft.FFTReal(frame)

		bands := make([]float64, e.CQBins)
		for k := 0; k < e.CQBins; k++ {
			center := fmin * math.Pow(2, float64(k))
			lo := int(center / math.Sqrt2 * float64(hop) / float64(e.SampleRate))
			hi := int(center * math.Sqrt2 * float64(hop) / float64(e.SampleRate))
			if lo < 1 {
				lo = 1
			}
			if hi >= hop/2 {
				hi = hop/2 - 1
			}
			if hi < lo {
				hi = lo
			}

			var total float64
			for bin := lo; bin <= hi; bin++ {
				v := spectrum[bin]
				total += magnitude(real(v), imag(v))
			}
			total /= float64(hi - lo + 1)

			bands[k] = math.Log(total + 1e-6)
		}
		frames = append(frames, bands)
	}

	return frames
}

// dct2 computes the first n coefficients of the DCT-II of v.
func dct2(v []float64, n int) []float64 {
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i, x := range v {
			sum += x * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(len(v)))
		}
		out[k] = sum
	}
	return out
}
