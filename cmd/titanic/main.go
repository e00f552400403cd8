package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"titanic-ml/internal/cfg"
	"titanic-ml/internal/crossval"
	"titanic-ml/internal/dataset"
	"titanic-ml/internal/features"
	"titanic-ml/internal/metrics"
	"titanic-ml/internal/model"
	"titanic-ml/internal/storage"
	"titanic-ml/internal/submission"
)

func main() {
	var (
		trainPath  = flag.String("train", "", "Path to labeled training CSV (overrides config)")
		testPath   = flag.String("test", "", "Path to unlabeled CSV for submission (overrides config)")
		outputPath = flag.String("output", "", "Submission CSV path (overrides config)")
		dataPath   = flag.String("data", "", "Run archive directory (overrides config)")
		folds      = flag.Int("folds", 0, "Cross-validation fold count (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	config, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Override config with command line arguments
	if *trainPath != "" {
		config.TrainPath = *trainPath
	}
	if *testPath != "" {
		config.TestPath = *testPath
	}
	if *outputPath != "" {
		config.SubmissionPath = *outputPath
	}
	if *dataPath != "" {
		config.DataPath = *dataPath
	}
	if *folds != 0 {
		config.Folds = *folds
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	m := metrics.New()

	passengers, err := dataset.Load(config.TrainPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load training data")
	}

	labels := make([]float64, len(passengers))
	for i, p := range passengers {
		if !p.Labeled {
			log.Fatal().Int("passenger", p.ID).Msg("Training data is missing survival labels")
		}
		labels[i] = float64(p.Survived)
	}

	imputer := features.NewAgeImputerWithMetrics(config.ImputerTrees, config.TreeDepth, config.Seed, m)
	extractor := features.NewExtractor(imputer)

	X, err := extractor.Extract(passengers)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract features")
	}

	foldsSet, err := crossval.Partition(len(passengers), config.Folds, config.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to partition rows")
	}

	members := buildMembers(config)
	ensemble := crossval.NewEnsembleWithMetrics(members, m)

	result, err := ensemble.CrossValidate(X, labels, foldsSet)
	if err != nil {
		log.Fatal().Err(err).Msg("Cross-validation failed")
	}

	log.Info().
		Float64("accuracy", result.Accuracy).
		Floats64("fold_accuracies", result.FoldAccuracies).
		Int("rows", len(passengers)).
		Int("folds", config.Folds).
		Msg("Cross-validation complete")

	if config.DataPath != "" {
		archiveRun(config, result, len(passengers), len(members))
	}

	// Final training on the full set; required before any submission.
	if err := ensemble.Fit(X, labels); err != nil {
		log.Fatal().Err(err).Msg("Final training failed")
	}

	if config.TestPath != "" {
		heldOut, err := dataset.Load(config.TestPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load test data")
		}

		builder := submission.NewBuilder(extractor, ensemble)
		if err := builder.Build(heldOut, config.SubmissionPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to build submission")
		}
	}

	m.LogSummary()
}

// buildMembers assembles the default ensemble: two seeded logistic
// regressions and one bagged-tree classifier.
func buildMembers(config cfg.Settings) []model.Model {
	return []model.Model{
		model.NewLogistic(config.LearningRate, config.Epochs, config.Seed),
		model.NewLogistic(config.LearningRate, config.Epochs, config.Seed+1),
		model.NewForest(model.Classification, config.ForestTrees, config.TreeDepth, config.Seed),
	}
}

func archiveRun(config cfg.Settings, result crossval.Result, rows, members int) {
	store, err := storage.New(config.DataPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open run archive")
		return
	}
	defer store.Close()

	if prev, found, err := store.LatestRun(); err != nil {
		log.Warn().Err(err).Msg("Failed to read previous run")
	} else if found {
		log.Info().
			Time("previous_run", prev.Timestamp).
			Float64("previous_accuracy", prev.Accuracy).
			Float64("delta", result.Accuracy-prev.Accuracy).
			Msg("Accuracy versus previous run")
	}

	preds := make([]int, len(result.Predictions))
	for i, p := range result.Predictions {
		preds[i] = int(p)
	}

	record := storage.RunRecord{
		Timestamp:      time.Now(),
		Rows:           rows,
		Folds:          config.Folds,
		Members:        members,
		Seed:           config.Seed,
		Accuracy:       result.Accuracy,
		FoldAccuracies: result.FoldAccuracies,
		Predictions:    preds,
	}
	if err := store.StoreRun(record); err != nil {
		log.Error().Err(err).Msg("Failed to archive run")
		return
	}
	log.Info().Str("path", config.DataPath).Msg("Run archived")
}
