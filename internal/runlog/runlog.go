// Package runlog records per-epoch training results to CSV and SQLite.
package runlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/0tiemWBmine0/specset-go/internal/config"
)

// Epoch represents the result of one training epoch.
type Epoch struct {
	Id            uint `gorm:"column:id;primaryKey;autoIncrement"`
	SourceNode    string
	Date          string `gorm:"index"`
	Time          string
	Variant       string `gorm:"index"`
	Epoch         int
	TrainAccuracy float64
	TestAccuracy  float64
	Loss          float64
	ElapsedTime   time.Duration
}

// New creates an Epoch record populated with the provided results and the
// current date and time.
func New(ctx *config.Context, epoch int, trainAcc, testAcc, loss float64, elapsed time.Duration) Epoch {
	now := time.Now()

	return Epoch{
		SourceNode:    ctx.Settings.Node.Name,
		Date:          now.Format("2006-01-02"),
		Time:          now.Format("15:04:05"),
		Variant:       ctx.Settings.Extract.Variant,
		Epoch:         epoch,
		TrainAccuracy: trainAcc,
		TestAccuracy:  testAcc,
		Loss:          loss,
		ElapsedTime:   elapsed,
	}
}

// LogEpoch writes an epoch record to the database when SQLite output is
// enabled. CSV output is written once per run with WriteEpochsCsv.
func LogEpoch(ctx *config.Context, record Epoch) error {
	if ctx.Settings.Output.SQLite.Enabled {
		if ctx.Settings.Debug {
			fmt.Println("Saving epoch record to database...")
		}
		if err := SaveToDatabase(ctx, record); err != nil {
			fmt.Printf("failed to save epoch record to database: %s", err)
		}
	}

	return nil
}

// WriteEpochsCsv writes the epoch records to the specified destination in CSV
// format. If file output is disabled the records are written to stdout.
func WriteEpochsCsv(ctx *config.Context, epochs []Epoch, filename string) error {
	var w io.Writer

	if ctx.Settings.Output.File.Enabled {
		// Ensure the filename has a .csv extension.
		if !strings.HasSuffix(filename, ".csv") {
			filename += ".csv"
		}
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", filename, err)
		}
		defer file.Close()
		w = file
	} else {
		w = os.Stdout
	}

	header := "Epoch,Train accuracy (%),Test accuracy (%),Loss\n"
	if _, err := w.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write header to CSV: %w", err)
	}

	var err error

	for _, e := range epochs {
		line := fmt.Sprintf("%d,%.2f,%.2f,%.4f\n",
			e.Epoch, e.TrainAccuracy, e.TestAccuracy, e.Loss)

		if _, err = w.Write([]byte(line)); err != nil {
			break
		}
	}

	if err != nil {
		return fmt.Errorf("failed to write epoch record to CSV: %w", err)
	} else if ctx.Settings.Output.File.Enabled {
		fmt.Println("Output written to", filename)
	}

	return nil
}
