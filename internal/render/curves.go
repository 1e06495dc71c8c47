package render

import (
	"image"
	"image/color"
)

// curveImageWidth and curveImageHeight size the metrics plot.
const (
	curveImageWidth  = 640
	curveImageHeight = 320
)

// Curves plots the accuracy and loss history of a training run. Accuracies
// are expected in [0, 100], loss is normalized to its own maximum.
func Curves(trainAcc, testAcc, loss []float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, curveImageWidth, curveImageHeight))
	fill(img, img.Bounds(), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	polyline(img, scale(trainAcc, 100), color.RGBA{G: 160, A: 255})
	polyline(img, scale(testAcc, 100), color.RGBA{B: 255, A: 255})

	var lossMax float64
	for _, v := range loss {
		if v > lossMax {
			lossMax = v
		}
	}
	if lossMax == 0 {
		lossMax = 1
	}
	polyline(img, scale(loss, lossMax), color.RGBA{R: 255, A: 255})

	return img
}

// scale maps values to [0, 1] against a fixed maximum.
func scale(values []float64, max float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / max
	}
	return out
}

// polyline draws normalized values as a connected line across the image.
func polyline(img *image.RGBA, values []float64, col color.RGBA) {
	if len(values) == 0 {
		return
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	toXY := func(i int) (int, int) {
		x := 0
		if len(values) > 1 {
			x = i * (w - 1) / (len(values) - 1)
		}
		v := values[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		y := h - 1 - int(v*float64(h-1))
		return x, y
	}

	px, py := toXY(0)
	for i := 1; i < len(values); i++ {
		x, y := toXY(i)
		line(img, px, py, x, y, col)
		px, py = x, y
	}
}

// line draws a straight segment between two points.
func line(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		img.SetRGBA(x0, y0, col)
		return
	}
	for s := 0; s <= steps; s++ {
		x := x0 + (x1-x0)*s/steps
		y := y0 + (y1-y0)*s/steps
		img.SetRGBA(x, y, col)
	}
}
