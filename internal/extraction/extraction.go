// Package extraction turns directories of labeled audio recordings into
// feature image datasets with train and test indices.
package extraction

import (
	"fmt"
	"image"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0tiemWBmine0/specset-go/internal/audiofile"
	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/features"
	"github.com/0tiemWBmine0/specset-go/internal/index"
	"github.com/0tiemWBmine0/specset-go/internal/render"
)

// Supported extraction variants.
const (
	VariantSpectral = "spectral"
	VariantCepstral = "cepstral"
)

type item struct {
	source string
	label  string
}

// DirectoryExtraction processes all recordings under the input directory.
// Each immediate subdirectory is one class, named by the label. Recordings
// are split into the train and test sets before processing, the feature
// images land under the dataset directory and both index files are written.
func DirectoryExtraction(ctx *config.Context) error {
	settings := ctx.Settings

	if settings.Extract.Variant != VariantSpectral && settings.Extract.Variant != VariantCepstral {
		return fmt.Errorf("unknown extraction variant: %s", settings.Extract.Variant)
	}

	items, labels, err := collectItems(settings.Input.Path, settings.Input.Recursive)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no audio files found in %s", settings.Input.Path)
	}
	ctx.Labels = labels

	rng := rand.New(rand.NewSource(settings.Node.Seed))
	trainItems, testItems := index.Split(items, settings.Extract.TrainRatio, rng)

	datasetDir := settings.Extract.Dataset
	trainRecords := extractSet(ctx, trainItems, datasetDir, index.TrainDir)
	testRecords := extractSet(ctx, testItems, datasetDir, index.TestDir)

	if err := index.Write(filepath.Join(datasetDir, index.TrainIndex), trainRecords); err != nil {
		return fmt.Errorf("failed to write train index: %w", err)
	}
	if err := index.Write(filepath.Join(datasetDir, index.TestIndex), testRecords); err != nil {
		return fmt.Errorf("failed to write test index: %w", err)
	}

	log.Printf("extracted %d train and %d test images to %s", len(trainRecords), len(testRecords), datasetDir)

	return nil
}

// extractSet processes one split's items into subdir of the dataset
// directory. Items that fail to process are skipped with a warning.
func extractSet(ctx *config.Context, items []item, datasetDir, subdir string) []index.Record {
	records := make([]index.Record, 0, len(items))
	for _, it := range items {
		relPath := filepath.Join(subdir, imageName(it.source, it.label, ctx.Settings.Extract.Variant))
		if err := FileExtraction(ctx, it.source, filepath.Join(datasetDir, relPath)); err != nil {
			log.Printf("Skipping %s due to errors in processing: %v", it.source, err)
			continue
		}
		records = append(records, index.Record{Path: filepath.ToSlash(relPath), Label: it.label})
	}
	return records
}

// FileExtraction processes one recording into a feature image at destPath.
func FileExtraction(ctx *config.Context, sourcePath, destPath string) error {
	settings := ctx.Settings

	if err := audiofile.Validate(sourcePath); err != nil {
		return err
	}

	buf, rate, err := audiofile.ReadMono(sourcePath, settings.Extract.SampleRate)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	e := features.NewExtractor(rate)
	size := settings.Extract.ImageSize

	var img *image.RGBA
	switch settings.Extract.Variant {
	case VariantSpectral:
		spec, err := e.Spectrogram(buf)
		if err != nil {
			return err
		}
		mel, err := e.MelSpectrogram(buf)
		if err != nil {
			return err
		}
		periods := e.FundamentalPeriods(spec)
		centroids := e.Centroids(spec)
		contrast := e.Contrast(spec)
		img = render.Spectral(mel, periods, centroids, contrast, size)

	case VariantCepstral:
		emphasized := e.PreEmphasis(buf)
		lpcFrames := e.LPCFrames(emphasized)
		if len(lpcFrames) == 0 {
			return features.ErrUnstableLPC
		}
		lsfFrames := e.LSFFrames(lpcFrames)
		// all cepstral features must be computable for the recording to
		// be usable, even though only the LSF and LPC panels are drawn
		if _, err := e.MFCC(emphasized); err != nil {
			return err
		}
		if _, err := e.CQCC(buf); err != nil {
			return err
		}
		img = render.Cepstral(lsfFrames, lpcFrames, size)

	default:
		return fmt.Errorf("unknown extraction variant: %s", settings.Extract.Variant)
	}

	return render.SavePNG(destPath, img)
}

// collectItems lists the class subdirectories of root and their audio
// files. The returned labels are the sorted class names with at least one
// recording.
func collectItems(root string, recursive bool) ([]item, []string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input directory %s: %w", root, err)
	}

	var items []item
	var labels []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()
		files, err := collectAudio(filepath.Join(root, label), recursive)
		if err != nil {
			return nil, nil, err
		}
		if len(files) == 0 {
			continue
		}
		labels = append(labels, label)
		for _, f := range files {
			items = append(items, item{source: f, label: label})
		}
	}
	sort.Strings(labels)

	return items, labels, nil
}

// collectAudio returns the sorted audio files of one class directory.
func collectAudio(dir string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasAudioExt(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk class directory %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read class directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && hasAudioExt(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)

	return files, nil
}

func hasAudioExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".flac":
		return true
	}
	return false
}

// imageName derives the feature image file name from the recording path.
// The class label is part of the name so same-named recordings in two
// classes cannot collide on one image file.
func imageName(source, label, variant string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return label + "_" + stem + "_" + variant + ".png"
}
