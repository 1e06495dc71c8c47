package evaluate

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/dataset"
	"github.com/0tiemWBmine0/specset-go/internal/index"
	"github.com/0tiemWBmine0/specset-go/internal/training"
)

// Command creates a new cobra.Command for model evaluation.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate saved model weights on the test split",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(ctx)
		},
	}

	setupFlags(cmd, ctx.Settings)

	return cmd
}

// setupFlags defines flags specific to the evaluate command.
func setupFlags(cmd *cobra.Command, settings *config.Settings) {
	cmd.Flags().IntVar(&settings.Train.TensorSize, "tensorsize", viper.GetInt("train.tensorsize"), "Side of the grayscale tensor fed to the network")
	cmd.Flags().IntVar(&settings.Train.ClassBits, "classbits", viper.GetInt("train.classbits"), "Output bits of the final layer")
	cmd.Flags().IntVarP(&settings.Train.BatchSize, "batchsize", "b", viper.GetInt("train.batchsize"), "Loader batch size")
	cmd.Flags().StringVarP(&settings.Train.ModelPath, "model", "m", viper.GetString("train.modelpath"), "Path to the model weights")

	viper.BindPFlags(cmd.Flags())
}

func runEvaluation(ctx *config.Context) error {
	settings := ctx.Settings
	datasetDir := settings.Extract.Dataset

	trainRecords, err := index.Read(filepath.Join(datasetDir, index.TrainIndex))
	if err != nil {
		return fmt.Errorf("failed to read train index: %w", err)
	}
	testRecords, err := index.Read(filepath.Join(datasetDir, index.TestIndex))
	if err != nil {
		return fmt.Errorf("failed to read test index: %w", err)
	}

	// the train index contributes its labels so the dense class ids match
	// the ones used during training
	labels := dataset.Labels(trainRecords, testRecords)
	if len(labels) == 0 {
		return fmt.Errorf("dataset %s contains no records", datasetDir)
	}
	if len(labels) > 1<<settings.Train.ClassBits {
		return fmt.Errorf("%d class bits cannot encode %d classes", settings.Train.ClassBits, len(labels))
	}
	ctx.Labels = labels

	rng := rand.New(rand.NewSource(settings.Node.Seed))
	testLoader, err := dataset.NewLoader(datasetDir, testRecords, labels, settings.Train.TensorSize, settings.Train.BatchSize, rng)
	if err != nil {
		return err
	}

	net, err := training.NewNetwork(settings.Train.TensorSize, byte(settings.Train.ClassBits))
	if err != nil {
		return err
	}

	trainer := training.NewTrainer(ctx, net, nil, testLoader)
	if err := trainer.LoadModel(settings.Train.ModelPath); err != nil {
		return fmt.Errorf("failed to load model weights from %s: %w", settings.Train.ModelPath, err)
	}

	accuracy, loss, err := trainer.Evaluate(testLoader)
	if err != nil {
		return err
	}

	fmt.Printf("test accuracy: %.2f%%, loss: %.4f (%d records, %d classes)\n",
		accuracy, loss, testLoader.Len(), len(labels))

	return nil
}
