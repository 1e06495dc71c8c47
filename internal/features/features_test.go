package features

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return buf
}

func TestPreEmphasis(t *testing.T) {
	e := NewExtractor(8000)

	out := e.PreEmphasis([]float64{1, 2, 3})

	require.Len(t, out, 3)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.InDelta(t, 1.5, out[1], 1e-12)
	assert.InDelta(t, 2.0, out[2], 1e-12)
}

func TestPreEmphasisEmpty(t *testing.T) {
	e := NewExtractor(8000)
	assert.Nil(t, e.PreEmphasis(nil))
}

func TestMelHzRoundtrip(t *testing.T) {
	for _, hz := range []float64{0, 100, 440, 1000, 4000, 16000} {
		assert.InDelta(t, hz, melToHz(hzToMel(hz)), 1e-6, "hz %f", hz)
	}
}

func TestSpectrogramPeakBin(t *testing.T) {
	const sampleRate = 8000
	const freq = 1000.0
	e := NewExtractor(sampleRate)

	spec, err := e.Spectrogram(sine(freq, sampleRate, 4*e.Resolut))
	require.NoError(t, err)
	require.NotEmpty(t, spec)
	assert.Len(t, spec[0], e.Resolut/2)

	// the peak of a middle frame must sit at the sine's frequency bin
	frame := spec[len(spec)/2]
	peak := 0
	for bin := range frame {
		if frame[bin] > frame[peak] {
			peak = bin
		}
	}
	wantBin := freq * float64(e.Resolut) / float64(sampleRate)
	assert.InDelta(t, wantBin, float64(peak), 3)
}

func TestSpectrogramEmptySignal(t *testing.T) {
	e := NewExtractor(8000)
	_, err := e.Spectrogram(nil)
	assert.ErrorIs(t, err, ErrEmptySignal)
}

func TestSpectrogramShortSignal(t *testing.T) {
	e := NewExtractor(8000)
	_, err := e.Spectrogram(make([]float64, e.Resolut-1))
	assert.ErrorIs(t, err, ErrShortSignal)
}

func TestMelSpectrogramShape(t *testing.T) {
	e := NewExtractor(8000)

	mel, err := e.MelSpectrogram(sine(440, 8000, 4*e.Resolut))
	require.NoError(t, err)

	require.Len(t, mel, e.NumMels)
	cols := len(mel[0])
	for _, row := range mel {
		assert.Len(t, row, cols)
	}
}

func TestMelSpectrogramIsLogScaled(t *testing.T) {
	e := NewExtractor(8000)

	mel, err := e.MelSpectrogram(make([]float64, 4*e.Resolut))
	require.NoError(t, err)

	// silence folds to the clamp floor
	floor := math.Log(1e-5)
	for _, row := range mel {
		for _, v := range row {
			assert.InDelta(t, floor, v, 1e-9)
		}
	}
}

func TestCentroidsSingleBin(t *testing.T) {
	e := NewExtractor(8000)

	frame := make([]float64, e.Resolut/2)
	frame[100] = 1.0
	out := e.Centroids([][]float64{frame})

	require.Len(t, out, 1)
	assert.InDelta(t, e.BinFreq(100), out[0], 1e-9)
}

func TestCentroidsSilentFrame(t *testing.T) {
	e := NewExtractor(8000)

	out := e.Centroids([][]float64{make([]float64, e.Resolut/2)})

	require.Len(t, out, 1)
	assert.Zero(t, out[0])
}

func TestContrastLengthAndFlatFrame(t *testing.T) {
	e := NewExtractor(8000)

	flat := make([]float64, e.Resolut/2)
	for i := range flat {
		flat[i] = 1.0
	}
	out := e.Contrast([][]float64{flat, flat})

	require.Len(t, out, 2*numContrastBands)
	for _, v := range out {
		assert.InDelta(t, 0, v, 1e-6)
	}
}

func TestFundamentalPeriods(t *testing.T) {
	e := NewExtractor(8000)

	frame := make([]float64, e.Resolut/2)
	frame[256] = 1.0 // 1000 Hz at 8 kHz with a 2048 sample frame
	out := e.FundamentalPeriods([][]float64{frame})

	require.Len(t, out, 1)
	assert.InDelta(t, 1.0/1000.0, out[0], 1e-9)
}

func TestFundamentalPeriodsDropsSilentFrames(t *testing.T) {
	e := NewExtractor(8000)

	// peak at bin 0 has no positive frequency, the frame is dropped
	out := e.FundamentalPeriods([][]float64{make([]float64, e.Resolut/2)})
	assert.Empty(t, out)
}

func TestLPCRecoversFirstOrderModel(t *testing.T) {
	e := NewExtractor(8000)

	// AR(1) process x[n] = 0.5 x[n-1] + e[n]
	rng := rand.New(rand.NewSource(17))
	buf := make([]float64, 8000)
	for i := 1; i < len(buf); i++ {
		buf[i] = 0.5*buf[i-1] + rng.NormFloat64()
	}

	coeffs, err := e.LPC(buf)
	require.NoError(t, err)
	require.Len(t, coeffs, e.LPCOrder)

	assert.InDelta(t, 0.5, coeffs[0], 0.1)
	for i := 1; i < len(coeffs); i++ {
		assert.InDelta(t, 0, coeffs[i], 0.15, "coefficient %d", i)
	}
}

func TestLPCShortSignal(t *testing.T) {
	e := NewExtractor(8000)
	_, err := e.LPC(make([]float64, e.LPCOrder))
	assert.Error(t, err)
}

func TestLPCSilence(t *testing.T) {
	e := NewExtractor(8000)
	_, err := e.LPC(make([]float64, 1000))
	assert.ErrorIs(t, err, ErrUnstableLPC)
}

func TestLSFKnownRoots(t *testing.T) {
	e := NewExtractor(8000)

	// prediction polynomial with roots 0.9 e^{+-i pi/4}
	a1 := 2 * 0.9 * math.Cos(math.Pi/4)
	a2 := -0.81
	lsf := e.LSF([]float64{a1, a2})

	require.Len(t, lsf, 2)
	assert.InDelta(t, -math.Pi/4, lsf[0], 1e-6)
	assert.InDelta(t, math.Pi/4, lsf[1], 1e-6)
}

func TestLSFUnstableRootExcluded(t *testing.T) {
	e := NewExtractor(8000)

	// single root at z = 2, outside the unit circle
	lsf := e.LSF([]float64{2})
	assert.Empty(t, lsf)
}

func TestLSFFramesStayRectangular(t *testing.T) {
	e := NewExtractor(8000)

	frames := e.LSFFrames([][]float64{
		{0.5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	})

	require.Len(t, frames, 2)
	for _, row := range frames {
		assert.Len(t, row, e.LPCOrder)
	}
}

func TestLPCFramesSkipsUnstableFrames(t *testing.T) {
	e := NewExtractor(8000)
	e.Window = 256
	e.Resolut = 512

	rng := rand.New(rand.NewSource(5))
	buf := make([]float64, 2048)
	// the tail frames are silence and must be skipped, not zero-filled
	for i := 1; i < 1024; i++ {
		buf[i] = 0.5*buf[i-1] + rng.NormFloat64()
	}

	frames := e.LPCFrames(buf)
	assert.NotEmpty(t, frames)
	for _, row := range frames {
		assert.Len(t, row, e.LPCOrder)
	}
}

func TestDCT2(t *testing.T) {
	out := dct2([]float64{3, 3, 3, 3}, 4)

	require.Len(t, out, 4)
	assert.InDelta(t, 12, out[0], 1e-9)
	for k := 1; k < 4; k++ {
		assert.InDelta(t, 0, out[k], 1e-9, "coefficient %d", k)
	}
}

func TestMFCCShape(t *testing.T) {
	e := NewExtractor(8000)

	mfcc, err := e.MFCC(sine(440, 8000, 4*e.Resolut))
	require.NoError(t, err)

	require.Len(t, mfcc, e.NumMFCC)
	cols := len(mfcc[0])
	assert.Positive(t, cols)
	for _, row := range mfcc {
		assert.Len(t, row, cols)
	}
}

func TestCQCCNormalizedRange(t *testing.T) {
	e := NewExtractor(8000)

	cqcc, err := e.CQCC(sine(220, 8000, 4*e.CQHop))
	require.NoError(t, err)

	require.Len(t, cqcc, e.CQBins)
	var min, max float64 = 1, 0
	for _, row := range cqcc {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	assert.InDelta(t, 0, min, 1e-9)
	assert.InDelta(t, 1, max, 1e-9)
}

func TestCQCCTooShort(t *testing.T) {
	e := NewExtractor(8000)
	_, err := e.CQCC(make([]float64, e.CQHop-1))
	assert.ErrorIs(t, err, ErrEmptySignal)
}

func TestPad(t *testing.T) {
	assert.Len(t, pad(make([]float64, 512), 256), 512)
	assert.Len(t, pad(make([]float64, 300), 256), 512)
	assert.Len(t, pad(make([]float64, 257), 256), 512)
}
