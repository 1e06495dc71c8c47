package train

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/dataset"
	"github.com/0tiemWBmine0/specset-go/internal/index"
	"github.com/0tiemWBmine0/specset-go/internal/render"
	"github.com/0tiemWBmine0/specset-go/internal/runlog"
	"github.com/0tiemWBmine0/specset-go/internal/training"
)

// Command creates a new cobra.Command for training.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the classifier on an extracted dataset",
		Long: "Train the hashtron network on the feature images of the dataset directory. " +
			"Per-epoch accuracy and loss are written to metrics.csv and metrics.png, the final weights to the model file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraining(ctx)
		},
	}

	setupFlags(cmd, ctx.Settings)

	return cmd
}

// setupFlags defines flags specific to the train command.
func setupFlags(cmd *cobra.Command, settings *config.Settings) {
	cmd.Flags().IntVarP(&settings.Train.Epochs, "epochs", "e", viper.GetInt("train.epochs"), "Number of training epochs")
	cmd.Flags().IntVarP(&settings.Train.BatchSize, "batchsize", "b", viper.GetInt("train.batchsize"), "Loader batch size")
	cmd.Flags().IntVar(&settings.Train.TensorSize, "tensorsize", viper.GetInt("train.tensorsize"), "Side of the grayscale tensor fed to the network")
	cmd.Flags().IntVar(&settings.Train.ClassBits, "classbits", viper.GetInt("train.classbits"), "Output bits of the final layer")
	cmd.Flags().StringVarP(&settings.Train.ModelPath, "model", "m", viper.GetString("train.modelpath"), "Path to save the model weights")

	viper.BindPFlags(cmd.Flags())
}

func runTraining(ctx *config.Context) error {
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

	labels := dataset.Labels(trainRecords, testRecords)
	if len(labels) == 0 {
		return fmt.Errorf("dataset %s contains no records", datasetDir)
	}
	if len(labels) > 1<<settings.Train.ClassBits {
		return fmt.Errorf("%d class bits cannot encode %d classes", settings.Train.ClassBits, len(labels))
	}
	ctx.Labels = labels

	rng := rand.New(rand.NewSource(settings.Node.Seed))
	trainLoader, err := dataset.NewLoader(datasetDir, trainRecords, labels, settings.Train.TensorSize, settings.Train.BatchSize, rng)
	if err != nil {
		return err
	}
	testLoader, err := dataset.NewLoader(datasetDir, testRecords, labels, settings.Train.TensorSize, settings.Train.BatchSize, rng)
	if err != nil {
		return err
	}

	net, err := training.NewNetwork(settings.Train.TensorSize, byte(settings.Train.ClassBits))
	if err != nil {
		return err
	}

	trainer := training.NewTrainer(ctx, net, trainLoader, testLoader)
	records, err := trainer.Run(settings.Train.Epochs)
	if err != nil {
		return err
	}

	if err := runlog.WriteEpochsCsv(ctx, records, filepath.Join(datasetDir, "metrics.csv")); err != nil {
		return err
	}

	trainAcc := make([]float64, len(records))
	testAcc := make([]float64, len(records))
	loss := make([]float64, len(records))
	for i, r := range records {
		trainAcc[i] = r.TrainAccuracy
		testAcc[i] = r.TestAccuracy
		loss[i] = r.Loss
	}
	curvesPath := filepath.Join(datasetDir, "metrics.png")
	if err := render.SavePNG(curvesPath, render.Curves(trainAcc, testAcc, loss)); err != nil {
		return fmt.Errorf("failed to write accuracy curves: %w", err)
	}

	if err := trainer.SaveModel(settings.Train.ModelPath); err != nil {
		return fmt.Errorf("failed to save model weights: %w", err)
	}
	log.Printf("model weights saved to %s", settings.Train.ModelPath)

	return nil
}
