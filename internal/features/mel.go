package features

import "math"

const (
	melBreakFrequencyHertz = 700.0
	melHighFrequencyQ      = 1127.0
)

func melToHz(value float64) float64 {
	return melBreakFrequencyHertz * (math.Exp(value/melHighFrequencyQ) - 1.0)
}

func hzToMel(value float64) float64 {
	return melHighFrequencyQ * math.Log(1.0+(value/melBreakFrequencyHertz))
}

func magnitude(re, im float64) float64 {
	return math.Sqrt(re*re + im*im)
}

// MelSpectrogram computes a log mel spectrogram of buf. The result has one
// row per mel band and one column per frame.
func (e *Extractor) MelSpectrogram(buf []float64) ([][]float64, error) {
	spec, err := e.Spectrogram(buf)
	if err != nil {
		return nil, err
	}

	melspec := e.foldMel(spec)
	spectralNormalize(melspec)

	return melspec, nil
}

// foldMel folds linear frequency bins of each frame into NumMels mel bands.
func (e *Extractor) foldMel(spec [][]float64) [][]float64 {
	filtersize := e.Resolut / 2
	melbin := hzToMel(e.MelFmax) / float64(e.NumMels)

	out := make([][]float64, e.NumMels)
	for i := 0; i < e.NumMels; i++ {
		row := make([]float64, len(spec))

		vallo := float64(filtersize) * (e.MelFmin + melToHz(melbin*float64(i))) / (e.MelFmax + e.MelFmin)
		valhi := float64(filtersize) * (e.MelFmin + melToHz(melbin*float64(i+1))) / (e.MelFmax + e.MelFmin)

		inlo, modlo := math.Modf(vallo)
		inhi := math.Floor(valhi)
		if inlo < 0 {
			inlo, modlo, inhi = 0, 0, 0
		}
		if int(inhi) >= filtersize {
			inhi = float64(filtersize - 1)
		}

		for t := range spec {
			var total float64
			if int(inlo)+1 == int(inhi) {
				total += spec[t][int(inlo)] * (1 - modlo)
				total += spec[t][int(inhi)] * modlo
			} else {
				for k := int(inlo); k < int(inhi); k++ {
					total += spec[t][k]
				}
			}
			total /= float64(int(inhi) - int(inlo) + 1)
			row[t] = total
		}
		out[i] = row
	}

	return out
}

// spectralNormalize converts magnitudes to a clamped log scale in place.
func spectralNormalize(buf [][]float64) {
	for i := range buf {
		for j := range buf[i] {
			if buf[i][j] < 1e-5 {
				buf[i][j] = 1e-5
			}
			buf[i][j] = math.Log(buf[i][j])
		}
	}
}
