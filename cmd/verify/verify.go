package verify

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/index"
)

// Command creates a new cobra.Command for dataset verification.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify dataset index integrity",
		Long: "Check that every index row resolves to an image, that the train and test " +
			"recordings are disjoint, that no image is orphaned and that the split ratio holds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerification(ctx)
		},
	}

	setupFlags(cmd, ctx.Settings)

	return cmd
}

// setupFlags defines flags specific to the verify command.
func setupFlags(cmd *cobra.Command, settings *config.Settings) {
	cmd.Flags().Float64Var(&settings.Extract.TrainRatio, "trainratio", viper.GetFloat64("extract.trainratio"), "Expected fraction of recordings in the train split")

	viper.BindPFlags(cmd.Flags())
}

func runVerification(ctx *config.Context) error {
	datasetDir := ctx.Settings.Extract.Dataset

	report, err := index.Verify(datasetDir, ctx.Settings.Extract.TrainRatio)
	if err != nil {
		return err
	}

	fmt.Printf("%d train and %d test records, train ratio %.3f\n",
		report.TrainRows, report.TestRows, report.TrainRatio)

	if !report.OK() {
		for _, p := range report.Problems {
			fmt.Println("problem:", p)
		}
		return fmt.Errorf("dataset %s failed verification with %d problems", datasetDir, len(report.Problems))
	}

	fmt.Println("dataset OK")

	return nil
}
