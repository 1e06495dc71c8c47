// Package render turns feature matrices and histograms into PNG images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// histogramBins is the bin count for histogram panels.
const histogramBins = 100

// SavePNG writes img to path, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Spectral composes the spectral variant image: the mel heatmap on the top
// half and three stacked histogram panels (fundamental period, centroid,
// contrast) on the bottom half.
func Spectral(melspec [][]float64, periods, centroids, contrast []float64, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, img.Bounds(), color.RGBA{A: 255})

	half := size / 2
	heatmap(img, image.Rect(0, 0, size, half), melspec, false)

	panel := (size - half) / 3
	histogram(img, image.Rect(0, half, size, half+panel), periods, color.RGBA{B: 255, A: 255})
	histogram(img, image.Rect(0, half+panel, size, half+2*panel), centroids, color.RGBA{G: 255, A: 255})
	histogram(img, image.Rect(0, half+2*panel, size, size), contrast, color.RGBA{R: 255, A: 255})

	return img
}

// Cepstral composes the cepstral variant image: two grayscale columns, the
// LSF matrix on the left and the LPC matrix on the right.
func Cepstral(lsf, lpc [][]float64, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, img.Bounds(), color.RGBA{A: 255})

	half := size / 2
	heatmap(img, image.Rect(0, 0, half, size), lsf, true)
	heatmap(img, image.Rect(half, 0, size, size), lpc, true)

	return img
}

// heatmap scales matrix values to the rectangle, normalizing to the matrix
// min and max. Rows map to the vertical axis, columns to the horizontal.
func heatmap(img *image.RGBA, rect image.Rectangle, matrix [][]float64, grayscale bool) {
	rows := len(matrix)
	if rows == 0 {
		return
	}
	cols := len(matrix[0])
	if cols == 0 {
		return
	}

	min, max := matrix[0][0], matrix[0][0]
	for _, row := range matrix {
		for _, w := range row {
			if w > max {
				max = w
			}
			if w < min {
				min = w
			}
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	width := rect.Dx()
	height := rect.Dy()
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			// nearest neighbor lookup into the matrix
			r := y * rows / height
			c := x * cols / width
			val := (matrix[r][c] - min) / span

			var col color.RGBA
			v := uint8(255 * val)
			if grayscale {
				col = color.RGBA{R: v, G: v, B: v, A: 255}
			} else {
				col = color.RGBA{R: v, G: uint8(255 * (1 - val)), B: v / 2, A: 255}
			}
			img.SetRGBA(rect.Min.X+x, rect.Min.Y+y, col)
		}
	}
}

// histogram draws a bar histogram of values into the rectangle.
func histogram(img *image.RGBA, rect image.Rectangle, values []float64, col color.RGBA) {
	if len(values) == 0 {
		return
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	counts := make([]int, histogramBins)
	peak := 0
	for _, v := range values {
		bin := int(float64(histogramBins) * (v - min) / span)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
		if counts[bin] > peak {
			peak = counts[bin]
		}
	}

	width := rect.Dx()
	height := rect.Dy()
	for x := 0; x < width; x++ {
		bin := x * histogramBins / width
		barHeight := counts[bin] * height / peak
		for y := height - barHeight; y < height; y++ {
			img.SetRGBA(rect.Min.X+x, rect.Min.Y+y, col)
		}
	}
}

func fill(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			img.SetRGBA(x, y, col)
		}
	}
}
