// config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Settings struct {
	Debug bool // true to enable debug mode

	Node struct {
		Name    string // name of specset node, used to identify training runs
		Seed    int64  // seed for split assignment and epoch shuffling
		Threads int    // number of CPU threads to use for training, 0 for all
	}

	Input struct {
		Path      string // path to directory of class subdirectories with recordings
		Recursive bool   // true for recursive directory walk inside class directories
	}

	Extract struct {
		Variant    string  // feature variant, spectral or cepstral
		SampleRate int     // target sample rate, 0 to keep source rate
		ImageSize  int     // width and height of rendered feature images
		TrainRatio float64 // fraction of recordings assigned to the train split
		Dataset    string  // path to dataset output directory
	}

	Train struct {
		Epochs     int    // number of training epochs
		BatchSize  int    // loader batch size
		TensorSize int    // side of the grayscale tensor fed to the network
		ClassBits  int    // output bits of the final layer, 2^bits >= class count
		ModelPath  string // path to save or load model weights
	}

	Output struct {
		File struct {
			Enabled bool   // true to enable metrics csv output
			Path    string // directory to output metrics
		}

		SQLite struct {
			Enabled bool   // true to enable sqlite output of epoch records
			Path    string // path to sqlite database
		}
	}
}

// Load reads the configuration file and environment variables into a new Context.
func Load() (*Context, error) {
	var settings Settings

	ctx := &Context{
		Settings: &settings,
	}

	// Initialize viper to read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal config into struct
	if err := viper.Unmarshal(ctx.Settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	return ctx, nil
}

// SyncViper re-unmarshals viper's values into the settings struct so that
// command line arguments bound through viper take precedence over the file.
func SyncViper(settings *Settings) {
	if err := viper.Unmarshal(settings); err != nil {
		fmt.Printf("error syncing configuration: %v\n", err)
	}
}

func initViper() error {
	// Set config file name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := getDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := getDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig returns the default configuration as a string.
func getDefaultConfig() string {
	return `# SpecSet-Go configuration

debug: false            # print debug messages, can help with problem solving

# Node specific settings
node:
  name: SpecSet-Go      # name of node, used to identify training runs
  seed: 1337            # seed for split assignment and epoch shuffling
  threads: 0            # 0 to use all available CPU threads

# Input settings
input:
  path: wav/            # directory of class subdirectories with recordings
  recursive: false      # true for recursive walk inside class directories

# Feature extraction settings
extract:
  variant: spectral     # feature variant, spectral or cepstral
  samplerate: 0         # target sample rate, 0 to keep source rate
  imagesize: 256        # width and height of rendered feature images
  trainratio: 0.7       # fraction of recordings assigned to the train split
  dataset: dataset/     # path to dataset output directory

# Training settings
train:
  epochs: 40            # number of training epochs
  batchsize: 32         # loader batch size
  tensorsize: 28        # side of the grayscale tensor fed to the network
  classbits: 4          # output bits of the final layer, 2^bits >= class count
  modelpath: model.json.lzw   # path to save or load model weights

# Output settings
output:
  file:
    enabled: true       # true to enable metrics csv output
    path: output/       # path to metrics output directory
  sqlite:
    enabled: false      # true to enable sqlite output of epoch records
    path: specset.db    # path to sqlite database
`
}
