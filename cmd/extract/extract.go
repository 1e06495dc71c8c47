package extract

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/extraction"
)

// Command creates a new cobra.Command for dataset extraction.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [path]",
		Short: "Extract feature images from a directory of labeled recordings",
		Long: "Provide a directory whose subdirectories hold the recordings of one class each. " +
			"Feature images are written to the dataset directory along with the train and test indices.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The directory to process is passed as the first argument
			ctx.Settings.Input.Path = args[0]
			return extraction.DirectoryExtraction(ctx)
		},
	}

	setupFlags(cmd, ctx.Settings)

	return cmd
}

// setupFlags defines flags specific to the extract command.
func setupFlags(cmd *cobra.Command, settings *config.Settings) {
	cmd.Flags().BoolVarP(&settings.Input.Recursive, "recursive", "r", viper.GetBool("input.recursive"), "Recursively collect recordings inside class directories")
	cmd.Flags().IntVar(&settings.Extract.SampleRate, "samplerate", viper.GetInt("extract.samplerate"), "Target sample rate, 0 to keep the source rate")
	cmd.Flags().IntVar(&settings.Extract.ImageSize, "imagesize", viper.GetInt("extract.imagesize"), "Width and height of the rendered feature images")
	cmd.Flags().Float64Var(&settings.Extract.TrainRatio, "trainratio", viper.GetFloat64("extract.trainratio"), "Fraction of recordings assigned to the train split")

	viper.BindPFlags(cmd.Flags())
}
