package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report summarizes an index verification run.
type Report struct {
	TrainRows  int
	TestRows   int
	TrainRatio float64
	Problems   []string
}

// OK reports whether no invariant was violated.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) addProblem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify checks the dataset invariants: every index row resolves to an
// existing image, the two splits reference disjoint recordings, every
// generated image is referenced by exactly one split, and the split ratio
// is close to the requested one.
func Verify(datasetDir string, wantRatio float64) (*Report, error) {
	trainRecords, err := Read(filepath.Join(datasetDir, TrainIndex))
	if err != nil {
		return nil, err
	}
	testRecords, err := Read(filepath.Join(datasetDir, TestIndex))
	if err != nil {
		return nil, err
	}

	report := &Report{
		TrainRows: len(trainRecords),
		TestRows:  len(testRecords),
	}
	if total := len(trainRecords) + len(testRecords); total > 0 {
		report.TrainRatio = float64(len(trainRecords)) / float64(total)
	}

	// Every row must resolve to an existing image, and splits must be
	// disjoint by recording stem.
	seen := map[string]string{}
	referenced := map[string]struct{}{}
	for _, part := range []struct {
		name    string
		records []Record
	}{
		{"train", trainRecords},
		{"test", testRecords},
	} {
		for _, rec := range part.records {
			full := filepath.Join(datasetDir, rec.Path)
			if _, err := os.Stat(full); err != nil {
				report.addProblem("%s index references missing image %s", part.name, rec.Path)
			}
			referenced[filepath.Clean(rec.Path)] = struct{}{}

			stem := recordingStem(rec.Path)
			if prev, ok := seen[stem]; ok && prev != part.name {
				report.addProblem("recording %s appears in both splits", stem)
			}
			seen[stem] = part.name
		}
	}

	// Every generated image must be referenced by its split's index.
	for _, dir := range []string{TrainDir, TestDir} {
		root := filepath.Join(datasetDir, dir)
		entries, err := os.ReadDir(root)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			rel := filepath.Join(dir, entry.Name())
			if _, ok := referenced[rel]; !ok {
				report.addProblem("image %s is not referenced by any index", rel)
			}
		}
	}

	// The ratio only needs to hold approximately, one recording either way.
	if total := len(trainRecords) + len(testRecords); total > 0 {
		diff := report.TrainRatio - wantRatio
		if diff < 0 {
			diff = -diff
		}
		if diff > 1.0/float64(total)+1e-9 {
			report.addProblem("train ratio %.3f deviates from requested %.2f", report.TrainRatio, wantRatio)
		}
	}

	return report, nil
}

// recordingStem strips the split directory and extraction variant suffix
// from an image path, leaving the recording identity.
func recordingStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(base, "_"); i > 0 {
		base = base[:i]
	}
	return base
}
