package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0tiemWBmine0/specset-go/cmd/evaluate"
	"github.com/0tiemWBmine0/specset-go/cmd/extract"
	"github.com/0tiemWBmine0/specset-go/cmd/train"
	"github.com/0tiemWBmine0/specset-go/cmd/verify"
	"github.com/0tiemWBmine0/specset-go/internal/config"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *config.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "specset",
		Short: "Audio feature dataset builder and classifier CLI",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, ctx.Settings)

	subcommands := []*cobra.Command{
		extract.Command(ctx),
		train.Command(ctx),
		evaluate.Command(ctx),
		verify.Command(ctx),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Parse the command line flags
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}

		// Now sync the settings struct with viper's values to ensure
		// command-line arguments take precedence
		config.SyncViper(ctx.Settings)

		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *config.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Int64Var(&settings.Node.Seed, "seed", viper.GetInt64("node.seed"), "Seed for the dataset split and epoch shuffling")
	rootCmd.PersistentFlags().IntVarP(&settings.Node.Threads, "threads", "j", viper.GetInt("node.threads"), "Number of CPU threads to use, 0 to use all")
	rootCmd.PersistentFlags().StringVar(&settings.Extract.Dataset, "dataset", viper.GetString("extract.dataset"), "Path to the dataset directory")
	rootCmd.PersistentFlags().StringVar(&settings.Extract.Variant, "variant", viper.GetString("extract.variant"), "Feature variant: spectral or cepstral")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
