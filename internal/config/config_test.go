package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadDefaults unmarshals the default configuration into a Settings struct
// through an isolated viper instance.
func loadDefaults(t *testing.T) *Settings {
	t.Helper()

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(getDefaultConfig())))

	var settings Settings
	require.NoError(t, v.Unmarshal(&settings))
	return &settings
}

func TestDefaultConfigValues(t *testing.T) {
	settings := loadDefaults(t)

	assert.False(t, settings.Debug)
	assert.Equal(t, "SpecSet-Go", settings.Node.Name)
	assert.Equal(t, int64(1337), settings.Node.Seed)
	assert.Equal(t, 0, settings.Node.Threads)

	assert.Equal(t, "wav/", settings.Input.Path)
	assert.False(t, settings.Input.Recursive)

	assert.Equal(t, "spectral", settings.Extract.Variant)
	assert.Equal(t, 0, settings.Extract.SampleRate)
	assert.Equal(t, 256, settings.Extract.ImageSize)
	assert.InDelta(t, 0.7, settings.Extract.TrainRatio, 1e-9)
	assert.Equal(t, "dataset/", settings.Extract.Dataset)

	assert.Equal(t, 40, settings.Train.Epochs)
	assert.Equal(t, 32, settings.Train.BatchSize)
	assert.Equal(t, 28, settings.Train.TensorSize)
	assert.Equal(t, 4, settings.Train.ClassBits)
	assert.Equal(t, "model.json.lzw", settings.Train.ModelPath)

	assert.True(t, settings.Output.File.Enabled)
	assert.False(t, settings.Output.SQLite.Enabled)
	assert.Equal(t, "specset.db", settings.Output.SQLite.Path)
}

func TestDefaultTensorGeometryIsConsistent(t *testing.T) {
	settings := loadDefaults(t)

	// the conv output of the default tensor must divide into pooling cells
	conv := settings.Train.TensorSize - 16
	assert.Positive(t, conv)
	assert.Zero(t, conv%4)
}

func TestNewContext(t *testing.T) {
	settings := &Settings{}
	ctx := NewContext(settings)

	assert.Same(t, settings, ctx.Settings)
	assert.Nil(t, ctx.Db)
	assert.Empty(t, ctx.Labels)
}

func TestGetDefaultConfigPaths(t *testing.T) {
	paths, err := getDefaultConfigPaths()
	require.NoError(t, err)

	require.NotEmpty(t, paths)
	assert.Equal(t, ".", paths[0])
}
