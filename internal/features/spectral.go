package features

import (
	"math"
	"sort"
)

// numContrastBands is the number of octave sub-bands used for spectral contrast.
const numContrastBands = 6

// Centroids computes the spectral centroid of each frame in Hz.
func (e *Extractor) Centroids(spec [][]float64) []float64 {
	out := make([]float64, len(spec))
	for t, frame := range spec {
		var weighted, total float64
		for bin, mag := range frame {
			weighted += e.BinFreq(bin) * mag
			total += mag
		}
		if total > 0 {
			out[t] = weighted / total
		}
	}
	return out
}

// Contrast computes one spectral contrast value per frame and octave
// sub-band: the log ratio between the strongest and the weakest quantile
// of the band magnitudes.
func (e *Extractor) Contrast(spec [][]float64) []float64 {
	var out []float64
	bins := e.Resolut / 2

	for _, frame := range spec {
		lo := 1
		for band := 0; band < numContrastBands; band++ {
			hi := lo * 2
			if band == numContrastBands-1 || hi > bins {
				hi = bins
			}
			if hi <= lo {
				out = append(out, 0)
				continue
			}

			sub := append([]float64(nil), frame[lo:hi]...)
			sort.Float64s(sub)

			// peak and valley are means of the top and bottom halves
			mid := len(sub) / 2
			if mid == 0 {
				mid = 1
			}
			valley := mean(sub[:mid]) + 1e-10
			peak := mean(sub[len(sub)-mid:]) + 1e-10

			out = append(out, math.Log(peak/valley))
			lo = hi
		}
	}

	return out
}

// FundamentalPeriods tracks the peak-magnitude bin per frame and returns
// the corresponding fundamental periods in seconds. Frames whose period is
// not finite and positive are dropped.
func (e *Extractor) FundamentalPeriods(spec [][]float64) []float64 {
	var out []float64
	for _, frame := range spec {
		peak := 0
		for bin := 1; bin < len(frame); bin++ {
			if frame[bin] > frame[peak] {
				peak = bin
			}
		}
		freq := e.BinFreq(peak)
		if freq <= 0 {
			continue
		}
		period := 1 / freq
		if math.IsInf(period, 0) || math.IsNaN(period) || period <= 0 {
			continue
		}
		out = append(out, period)
	}
	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
