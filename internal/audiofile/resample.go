package audiofile

import "errors"

// Resample converts a sample vector from originalRate to targetRate using
// cubic interpolation.
func Resample(samples []float64, originalRate, targetRate int) ([]float64, error) {
	if originalRate == targetRate {
		return samples, nil
	}
	if originalRate <= 0 || targetRate <= 0 {
		return nil, errors.New("sample rates must be positive")
	}
	if len(samples) < 4 {
		return nil, errors.New("not enough samples to resample")
	}

	ratio := float64(targetRate) / float64(originalRate)
	newLength := int(float64(len(samples)) * ratio)
	resampled := make([]float64, newLength)

	lastIndex := len(samples) - 3

	for i := 0; i < newLength; i++ {
		origPos := float64(i) / ratio
		index := int(origPos)

		// Clamp index to avoid out-of-bounds access
		if index < 1 {
			index = 1
		} else if index > lastIndex {
			index = lastIndex
		}

		frac := origPos - float64(index)

		// Cubic interpolation between the four surrounding samples
		y0, y1, y2, y3 := samples[index-1], samples[index], samples[index+1], samples[index+2]
		mu2 := frac * frac
		a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
		a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
		a2 := -0.5*y0 + 0.5*y2
		a3 := y1

		resampled[i] = a0*frac*mu2 + a1*mu2 + a2*frac + a3
	}

	return resampled, nil
}
