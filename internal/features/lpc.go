package features

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

var ErrUnstableLPC = errors.New("lpc analysis produced non-finite coefficients")

// LPC computes linear prediction coefficients of order e.LPCOrder with the
// autocorrelation method and Levinson-Durbin recursion. The returned slice
// holds a[1..order] of the prediction polynomial.
func (e *Extractor) LPC(buf []float64) ([]float64, error) {
	order := e.LPCOrder
	if len(buf) <= order {
		return nil, errors.New("signal shorter than lpc order")
	}

	// Autocorrelation up to lag order
	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for i := lag; i < len(buf); i++ {
			sum += buf[i] * buf[i-lag]
		}
		r[lag] = sum
	}
	if r[0] == 0 {
		return nil, ErrUnstableLPC
	}

	// Levinson-Durbin recursion
	a := make([]float64, order+1)
	tmp := make([]float64, order+1)
	energy := r[0]

	for m := 1; m <= order; m++ {
		acc := r[m]
		for i := 1; i < m; i++ {
			acc -= a[i] * r[m-i]
		}
		k := acc / energy

		copy(tmp, a)
		a[m] = k
		for i := 1; i < m; i++ {
			a[i] = tmp[i] - k*tmp[m-i]
		}

		energy *= 1 - k*k
		if energy <= 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
			return nil, ErrUnstableLPC
		}
	}

	out := a[1:]
	for _, c := range out {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, ErrUnstableLPC
		}
	}

	return out, nil
}

// LPCFrames computes LPC coefficients for consecutive frames of Resolut
// samples, advancing by Window samples. Frames with unstable analysis are
// skipped.
func (e *Extractor) LPCFrames(buf []float64) [][]float64 {
	var out [][]float64
	frameLen := e.Resolut
	if frameLen > len(buf) {
		frameLen = len(buf)
	}
	for start := 0; start+frameLen <= len(buf); start += e.Window {
		coeffs, err := e.LPC(buf[start : start+frameLen])
		if err != nil {
			continue
		}
		out = append(out, coeffs)
	}
	return out
}

// LSFFrames derives line spectrum frequencies for each LPC frame. Frames
// with no stable roots yield a zero-filled row so the matrix stays
// rectangular.
func (e *Extractor) LSFFrames(lpcFrames [][]float64) [][]float64 {
	out := make([][]float64, len(lpcFrames))
	for i, coeffs := range lpcFrames {
		lsf := e.LSF(coeffs)
		row := make([]float64, e.LPCOrder)
		copy(row, lsf)
		out[i] = row
	}
	return out
}

// LSF derives line spectrum frequencies from LPC coefficients: the sorted
// angles of the stable roots of the prediction polynomial. An empty result
// means no stable roots were found.
func (e *Extractor) LSF(lpc []float64) []float64 {
	// Prediction polynomial 1 - sum a_i z^-i
	poly := make([]complex128, len(lpc)+1)
	poly[0] = 1
	for i, c := range lpc {
		poly[i+1] = complex(-c, 0)
	}

	roots := durandKerner(poly)

	var lsf []float64
	for _, root := range roots {
		if cmplx.Abs(root) < 1 {
			lsf = append(lsf, cmplx.Phase(root))
		}
	}
	sort.Float64s(lsf)
	return lsf
}

// durandKerner finds the complex roots of a polynomial given by its
// coefficients in descending power order.
func durandKerner(poly []complex128) []complex128 {
	n := len(poly) - 1
	if n < 1 {
		return nil
	}

	// Normalize to a monic polynomial
	monic := make([]complex128, len(poly))
	for i := range poly {
		monic[i] = poly[i] / poly[0]
	}

	eval := func(x complex128) complex128 {
		acc := complex(0, 0)
		for _, c := range monic {
			acc = acc*x + c
		}
		return acc
	}

	// Initial guesses spread on a spiral inside the unit annulus
	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	roots[0] = seed
	for i := 1; i < n; i++ {
		roots[i] = roots[i-1] * seed
	}

	const maxIter = 500
	const tolerance = 1e-10

	for iter := 0; iter < maxIter; iter++ {
		var maxDelta float64
		for i := range roots {
			denom := complex(1, 0)
			for j := range roots {
				if i != j {
					denom *= roots[i] - roots[j]
				}
			}
			if denom == 0 {
				continue
			}
			delta := eval(roots[i]) / denom
			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta < tolerance {
			break
		}
	}

	return roots
}
