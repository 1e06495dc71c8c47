package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0tiemWBmine0/specset-go/internal/config"
)

func testContext(t *testing.T) *config.Context {
	t.Helper()

	settings := &config.Settings{}
	settings.Node.Name = "testnode"
	settings.Extract.Variant = "spectral"
	settings.Output.File.Enabled = true

	return config.NewContext(settings)
}

func TestNewPopulatesRecord(t *testing.T) {
	ctx := testContext(t)

	record := New(ctx, 3, 82.5, 71.0, 0.42, 1500*time.Millisecond)

	assert.Equal(t, "testnode", record.SourceNode)
	assert.Equal(t, "spectral", record.Variant)
	assert.Equal(t, 3, record.Epoch)
	assert.InDelta(t, 82.5, record.TrainAccuracy, 1e-9)
	assert.InDelta(t, 71.0, record.TestAccuracy, 1e-9)
	assert.InDelta(t, 0.42, record.Loss, 1e-9)
	assert.Equal(t, 1500*time.Millisecond, record.ElapsedTime)
	assert.NotEmpty(t, record.Date)
	assert.NotEmpty(t, record.Time)
}

func TestWriteEpochsCsv(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "metrics.csv")

	epochs := []Epoch{
		New(ctx, 0, 50.0, 45.0, 1.2, time.Second),
		New(ctx, 1, 75.0, 68.0, 0.6, time.Second),
	}
	require.NoError(t, WriteEpochsCsv(ctx, epochs, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Epoch,Train accuracy (%),Test accuracy (%),Loss", lines[0])
	assert.Equal(t, "0,50.00,45.00,1.2000", lines[1])
	assert.Equal(t, "1,75.00,68.00,0.6000", lines[2])
}

func TestWriteEpochsCsvAppendsExtension(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "metrics")

	require.NoError(t, WriteEpochsCsv(ctx, nil, path))

	_, err := os.Stat(path + ".csv")
	assert.NoError(t, err)
}

func TestSaveToDatabase(t *testing.T) {
	ctx := testContext(t)
	ctx.Settings.Output.SQLite.Enabled = true
	ctx.Settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, InitializeDatabase(ctx))
	require.NotNil(t, ctx.Db)

	record := New(ctx, 0, 50.0, 45.0, 1.2, time.Second)
	require.NoError(t, SaveToDatabase(ctx, record))

	var count int64
	require.NoError(t, ctx.Db.Model(&Epoch{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
