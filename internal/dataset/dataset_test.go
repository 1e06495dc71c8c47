package dataset

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0tiemWBmine0/specset-go/internal/index"
)

// writeImages creates one uniform gray PNG per record under dir.
func writeImages(t *testing.T, dir string, records []index.Record, level uint8) {
	t.Helper()

	for _, rec := range records {
		full := filepath.Join(dir, rec.Path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))

		img := image.NewGray(image.Rect(0, 0, 16, 16))
		for i := range img.Pix {
			img.Pix[i] = level
		}
		f, err := os.Create(full)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
}

func testRecords(n int, label string) []index.Record {
	records := make([]index.Record, n)
	for i := range records {
		records[i] = index.Record{
			Path:  filepath.Join("train_picture", string(rune('a'+i))+"_spectral.png"),
			Label: label,
		}
	}
	return records
}

func TestLabelsSortedAcrossRecordSets(t *testing.T) {
	train := []index.Record{{Path: "x", Label: "dog"}, {Path: "y", Label: "ambulance"}}
	test := []index.Record{{Path: "z", Label: "cat"}, {Path: "w", Label: "dog"}}

	labels := Labels(train, test)

	assert.Equal(t, []string{"ambulance", "cat", "dog"}, labels)
}

func TestLoaderBatchCount(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		batchSize int
		want      int
	}{
		{"exact division", 8, 4, 2},
		{"remainder batch", 10, 4, 3},
		{"single large batch", 3, 100, 1},
		{"batch size one", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			records := testRecords(tt.rows, "dog")
			writeImages(t, dir, records, 128)

			loader, err := NewLoader(dir, records, []string{"dog"}, 8, tt.batchSize, rand.New(rand.NewSource(1)))
			require.NoError(t, err)

			assert.Equal(t, tt.want, loader.NumBatches())

			var batches, samples int
			for {
				batch, err := loader.Next()
				require.NoError(t, err)
				if batch == nil {
					break
				}
				batches++
				samples += len(batch)
			}
			assert.Equal(t, tt.want, batches)
			assert.Equal(t, tt.rows, samples)
		})
	}
}

func TestLoaderIsRestartable(t *testing.T) {
	dir := t.TempDir()
	records := testRecords(6, "dog")
	writeImages(t, dir, records, 128)

	loader, err := NewLoader(dir, records, []string{"dog"}, 8, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for epoch := 0; epoch < 3; epoch++ {
		loader.Reset(true)
		var samples int
		for {
			batch, err := loader.Next()
			require.NoError(t, err)
			if batch == nil {
				break
			}
			samples += len(batch)
		}
		assert.Equal(t, 6, samples, "epoch %d", epoch)
	}
}

func TestLoaderShufflesBetweenEpochs(t *testing.T) {
	dir := t.TempDir()
	records := testRecords(20, "dog")
	writeImages(t, dir, records, 128)

	loader, err := NewLoader(dir, records, []string{"dog"}, 8, 20, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	paths := func() []string {
		loader.Reset(true)
		batch, err := loader.Next()
		require.NoError(t, err)
		var out []string
		for _, s := range batch {
			out = append(out, s.Path)
		}
		return out
	}

	first := paths()
	second := paths()

	assert.ElementsMatch(t, first, second)
	assert.NotEqual(t, first, second)
}

func TestLoaderMapsLabelsToDenseIds(t *testing.T) {
	dir := t.TempDir()
	records := []index.Record{
		{Path: "train_picture/a_spectral.png", Label: "dog"},
		{Path: "train_picture/b_spectral.png", Label: "cat"},
	}
	writeImages(t, dir, records, 64)

	loader, err := NewLoader(dir, records, []string{"cat", "dog"}, 8, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	loader.Reset(false)
	batch, err := loader.Next()
	require.NoError(t, err)
	require.Len(t, batch, 2)

	assert.Equal(t, uint32(1), batch[0].Label) // dog
	assert.Equal(t, uint32(0), batch[1].Label) // cat
}

func TestLoaderRejectsUnknownLabel(t *testing.T) {
	records := []index.Record{{Path: "train_picture/a_spectral.png", Label: "horse"}}

	_, err := NewLoader(t.TempDir(), records, []string{"cat", "dog"}, 8, 2, rand.New(rand.NewSource(1)))
	assert.ErrorContains(t, err, "unknown label")
}

func TestLoaderFailsOnMissingImage(t *testing.T) {
	records := testRecords(1, "dog")

	loader, err := NewLoader(t.TempDir(), records, []string{"dog"}, 8, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = loader.Next()
	assert.Error(t, err)
}

func TestLoaderResizesToTensorSide(t *testing.T) {
	dir := t.TempDir()
	records := testRecords(1, "dog")
	writeImages(t, dir, records, 200)

	loader, err := NewLoader(dir, records, []string{"dog"}, 8, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	batch, err := loader.Next()
	require.NoError(t, err)
	require.Len(t, batch, 1)

	tensor := batch[0].Tensor
	assert.Equal(t, 8, tensor.Side)
	assert.Len(t, tensor.Pixels, 64)
	for _, p := range tensor.Pixels {
		assert.Equal(t, byte(200), p)
	}
}

func TestTensorFeaturePacksPixelWindow(t *testing.T) {
	tensor := Tensor{Side: 4, Pixels: []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}}

	// feature 0 packs the top left 2x2 window
	want := uint32(1) | uint32(2)<<8 | uint32(5)<<16 | uint32(6)<<24
	assert.Equal(t, want, tensor.Feature(0))

	// feature indices wrap around the window count
	assert.Equal(t, tensor.Feature(0), tensor.Feature(9))
}

func TestGrayDecodeMatchesColorModel(t *testing.T) {
	// a gray pixel stays the same through the RGBA average
	c := color.Gray{Y: 77}
	r, g, b, _ := c.RGBA()
	assert.Equal(t, byte(77), byte((r+g+b)/3>>8))
}
