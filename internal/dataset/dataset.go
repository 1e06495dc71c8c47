// Package dataset loads indexed feature images as shuffled, batched
// tensors for the training loop.
package dataset

import (
	"fmt"
	"image"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/0tiemWBmine0/specset-go/internal/index"
)

// Tensor is a square grayscale image, row major. It feeds the network one
// 2x2 pixel window per feature.
type Tensor struct {
	Pixels []byte
	Side   int
}

// Feature extracts the n-th 2x2 pixel window packed into a uint32.
func (t *Tensor) Feature(n int) uint32 {
	n %= (t.Side - 1) * (t.Side - 1)
	return uint32(t.Pixels[n]) | uint32(t.Pixels[n+1])<<8 |
		uint32(t.Pixels[n+t.Side])<<16 | uint32(t.Pixels[n+1+t.Side])<<24
}

// Sample is one loaded dataset element.
type Sample struct {
	Tensor Tensor
	Label  uint32
	Path   string
}

// Labels returns the sorted distinct labels across any number of record
// sets. The position of a label is its dense class id.
func Labels(recordSets ...[]index.Record) []string {
	set := map[string]struct{}{}
	for _, records := range recordSets {
		for _, r := range records {
			set[r.Label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Loader yields the records of one index file as batches of samples.
// Images are decoded lazily, one batch at a time. Reset restarts the
// epoch, reshuffling the iteration order.
type Loader struct {
	root      string
	records   []index.Record
	labelIDs  map[string]uint32
	side      int
	batchSize int
	rng       *rand.Rand

	order []int
	pos   int
}

// NewLoader creates a Loader over records relative to datasetDir. The
// labels slice fixes the dense class ids and must cover every record label.
func NewLoader(datasetDir string, records []index.Record, labels []string, side, batchSize int, rng *rand.Rand) (*Loader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if side < 2 {
		return nil, fmt.Errorf("tensor side must be at least 2, got %d", side)
	}

	labelIDs := make(map[string]uint32, len(labels))
	for i, l := range labels {
		labelIDs[l] = uint32(i)
	}
	for _, r := range records {
		if _, ok := labelIDs[r.Label]; !ok {
			return nil, fmt.Errorf("record %s has unknown label %q", r.Path, r.Label)
		}
	}

	l := &Loader{
		root:      datasetDir,
		records:   records,
		labelIDs:  labelIDs,
		side:      side,
		batchSize: batchSize,
		rng:       rng,
		order:     make([]int, len(records)),
	}
	for i := range l.order {
		l.order[i] = i
	}

	return l, nil
}

// Len returns the number of records.
func (l *Loader) Len() int {
	return len(l.records)
}

// NumBatches returns the number of batches per epoch.
func (l *Loader) NumBatches() int {
	return (len(l.records) + l.batchSize - 1) / l.batchSize
}

// Reset restarts the epoch. With shuffle set the iteration order is
// re-randomized.
func (l *Loader) Reset(shuffle bool) {
	l.pos = 0
	if shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
}

// Next returns the next batch, or a nil batch at the end of the epoch.
func (l *Loader) Next() ([]Sample, error) {
	if l.pos >= len(l.order) {
		return nil, nil
	}

	end := l.pos + l.batchSize
	if end > len(l.order) {
		end = len(l.order)
	}

	batch := make([]Sample, 0, end-l.pos)
	for _, idx := range l.order[l.pos:end] {
		sample, err := l.load(l.records[idx])
		if err != nil {
			return nil, err
		}
		batch = append(batch, sample)
	}
	l.pos = end

	return batch, nil
}

// load decodes one record's image into a grayscale tensor.
func (l *Loader) load(rec index.Record) (Sample, error) {
	full := filepath.Join(l.root, rec.Path)
	file, err := os.Open(full)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to open image %s: %w", rec.Path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to decode image %s: %w", rec.Path, err)
	}

	bounds := img.Bounds()
	pixels := make([]byte, l.side*l.side)
	for y := 0; y < l.side; y++ {
		for x := 0; x < l.side; x++ {
			// nearest neighbor downsample to the tensor side
			sx := bounds.Min.X + x*bounds.Dx()/l.side
			sy := bounds.Min.Y + y*bounds.Dy()/l.side
			r, g, b, _ := img.At(sx, sy).RGBA()
			pixels[y*l.side+x] = byte((r + g + b) / 3 >> 8)
		}
	}

	return Sample{
		Tensor: Tensor{Pixels: pixels, Side: l.side},
		Label:  l.labelIDs[rec.Label],
		Path:   rec.Path,
	}, nil
}
