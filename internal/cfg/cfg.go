// Package cfg loads pipeline settings from a YAML file selected by
// CONFIG_FILE, falling back to environment variables, and validates
// every value before the run starts.
package cfg

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"titanic-ml/internal/common"
)

// Settings is the resolved pipeline configuration.
type Settings struct {
	TrainPath      string
	TestPath       string
	SubmissionPath string
	DataPath       string // run archive directory, empty disables archiving
	LogLevel       string

	Folds int
	Seed  int64

	ImputerTrees int
	TreeDepth    int

	ForestTrees  int
	Epochs       int
	LearningRate float64
}

// ConfigFile mirrors the YAML layout.
type ConfigFile struct {
	Data struct {
		Train      string `yaml:"train"`
		Test       string `yaml:"test"`
		Submission string `yaml:"submission"`
		Archive    string `yaml:"archive"`
	} `yaml:"data"`

	Pipeline struct {
		Folds int   `yaml:"folds"`
		Seed  int64 `yaml:"seed"`
	} `yaml:"pipeline"`

	Imputer struct {
		Trees    int `yaml:"trees"`
		MaxDepth int `yaml:"maxDepth"`
	} `yaml:"imputer"`

	Ensemble struct {
		ForestTrees  int     `yaml:"forestTrees"`
		Epochs       int     `yaml:"epochs"`
		LearningRate float64 `yaml:"learningRate"`
	} `yaml:"ensemble"`

	System struct {
		LogLevel string `yaml:"logLevel"`
	} `yaml:"system"`
}

// Load resolves settings from a YAML file when CONFIG_FILE is set,
// otherwise from environment variables.
func Load() (Settings, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings := Settings{
		TrainPath:      getEnvOrDefault(common.EnvTrainPath, stringOrDefault(config.Data.Train, common.DefaultTrainPath)),
		TestPath:       getEnvOrDefault(common.EnvTestPath, config.Data.Test),
		SubmissionPath: getEnvOrDefault(common.EnvSubmissionPath, stringOrDefault(config.Data.Submission, common.DefaultSubmissionPath)),
		DataPath:       getEnvOrDefault(common.EnvDataPath, config.Data.Archive),
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, stringOrDefault(config.System.LogLevel, "info")),
		Folds:          getIntFromEnvOrConfig(common.EnvFolds, config.Pipeline.Folds, common.DefaultFolds),
		Seed:           getInt64FromEnvOrConfig(common.EnvSeed, config.Pipeline.Seed, common.DefaultSeed),
		ImputerTrees:   getIntFromEnvOrConfig(common.EnvImputerTrees, config.Imputer.Trees, common.DefaultImputerTrees),
		TreeDepth:      getIntFromEnvOrConfig(common.EnvTreeDepth, config.Imputer.MaxDepth, common.DefaultTreeDepth),
		ForestTrees:    getIntFromEnvOrConfig(common.EnvForestTrees, config.Ensemble.ForestTrees, common.DefaultForestTrees),
		Epochs:         getIntFromEnvOrConfig(common.EnvEpochs, config.Ensemble.Epochs, common.DefaultEpochs),
		LearningRate:   getFloatFromEnvOrConfig(common.EnvLearningRate, config.Ensemble.LearningRate, common.DefaultLearningRate),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		TrainPath:      getEnvOrDefault(common.EnvTrainPath, common.DefaultTrainPath),
		TestPath:       os.Getenv(common.EnvTestPath), // optional
		SubmissionPath: getEnvOrDefault(common.EnvSubmissionPath, common.DefaultSubmissionPath),
		DataPath:       os.Getenv(common.EnvDataPath), // optional
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, "info"),
		Folds:          getIntOrDefault(common.EnvFolds, common.DefaultFolds),
		Seed:           getInt64OrDefault(common.EnvSeed, common.DefaultSeed),
		ImputerTrees:   getIntOrDefault(common.EnvImputerTrees, common.DefaultImputerTrees),
		TreeDepth:      getIntOrDefault(common.EnvTreeDepth, common.DefaultTreeDepth),
		ForestTrees:    getIntOrDefault(common.EnvForestTrees, common.DefaultForestTrees),
		Epochs:         getIntOrDefault(common.EnvEpochs, common.DefaultEpochs),
		LearningRate:   getFloatOrDefault(common.EnvLearningRate, common.DefaultLearningRate),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func stringOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getInt64FromEnvOrConfig(key string, configValue, defaultValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.TrainPath == "" {
		return fmt.Errorf("training data path cannot be empty")
	}
	if settings.SubmissionPath == "" && settings.TestPath != "" {
		return fmt.Errorf("submission path is required when a test set is configured")
	}

	if settings.Folds < 2 || settings.Folds > 20 {
		return fmt.Errorf("fold count must be between 2 and 20, got %d", settings.Folds)
	}
	if settings.ImputerTrees < 1 || settings.ImputerTrees > 5000 {
		return fmt.Errorf("imputer tree count must be between 1 and 5000, got %d", settings.ImputerTrees)
	}
	if settings.ForestTrees < 1 || settings.ForestTrees > 5000 {
		return fmt.Errorf("forest tree count must be between 1 and 5000, got %d", settings.ForestTrees)
	}
	if settings.TreeDepth < 1 || settings.TreeDepth > 100 {
		return fmt.Errorf("tree depth must be between 1 and 100, got %d", settings.TreeDepth)
	}
	if settings.Epochs < 1 || settings.Epochs > 100000 {
		return fmt.Errorf("epoch count must be between 1 and 100000, got %d", settings.Epochs)
	}
	if settings.LearningRate <= 0 || settings.LearningRate > 1 {
		return fmt.Errorf("learning rate must be between 0 and 1, got %f", settings.LearningRate)
	}

	return nil
}
