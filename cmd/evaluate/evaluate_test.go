package evaluate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/index"
)

func TestRunEvaluationRejectsTooManyClasses(t *testing.T) {
	datasetDir := t.TempDir()

	train := []index.Record{
		{Path: "train_picture/cat_a_spectral.png", Label: "cat"},
		{Path: "train_picture/dog_a_spectral.png", Label: "dog"},
	}
	test := []index.Record{
		{Path: "test_picture/owl_a_spectral.png", Label: "owl"},
	}
	require.NoError(t, index.Write(filepath.Join(datasetDir, index.TrainIndex), train))
	require.NoError(t, index.Write(filepath.Join(datasetDir, index.TestIndex), test))

	settings := &config.Settings{}
	settings.Extract.Dataset = datasetDir
	settings.Train.TensorSize = 28
	settings.Train.BatchSize = 8
	// one output bit cannot encode three classes
	settings.Train.ClassBits = 1

	err := runEvaluation(config.NewContext(settings))
	assert.ErrorContains(t, err, "cannot encode")
}
