package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/foodlog/fdcstore/config"
	"github.com/foodlog/fdcstore/internal/infrastructure/fetch"
	"github.com/foodlog/fdcstore/internal/logger"
	"github.com/foodlog/fdcstore/internal/usecase"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [branded] [survey] [legacy]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Converts USDA FoodData Central exports into SQLite artifacts.")
		fmt.Fprintln(flag.CommandLine.Output(), "With no arguments all three datasets are converted.")
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	datasets := flag.Args()
	if len(datasets) == 0 {
		datasets = []string{"branded", "survey", "legacy"}
	}

	if cfg.Download.Enabled {
		if err := downloadSources(cfg, log); err != nil {
			log.Error("dataset download failed", zap.Error(err))
			os.Exit(1)
		}
	}

	failed := false
	for _, name := range datasets {
		if err := runDataset(name, cfg, log); err != nil {
			log.Error("conversion failed", zap.String("dataset", name), zap.Error(err))
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func runDataset(name string, cfg *config.Config, log *zap.Logger) error {
	switch name {
	case "branded":
		pipeline := usecase.NewBrandedPipeline(usecase.BrandedConfig{
			DataDir: cfg.Branded.DataDir,
			Output:  cfg.Branded.Output,
		}, log)
		_, err := pipeline.Run()
		return err
	case "survey":
		pipeline := usecase.NewSurveyPipeline(usecase.SurveyConfig{
			Input:  cfg.Survey.Input,
			Output: cfg.Survey.Output,
		}, log)
		_, err := pipeline.Run()
		return err
	case "legacy":
		pipeline := usecase.NewLegacyPipeline(usecase.LegacyConfig{
			DataDir: cfg.Legacy.DataDir,
			Output:  cfg.Legacy.Output,
		}, log)
		_, err := pipeline.Run()
		return err
	default:
		return fmt.Errorf("unknown dataset %q (expected branded, survey, or legacy)", name)
	}
}

// downloadSources fetches and unpacks the configured archive, then
// points the CSV pipelines at the directory that actually holds the
// tables. Archives nest their CSVs one level down.
func downloadSources(cfg *config.Config, log *zap.Logger) error {
	fetcher := fetch.NewFetcher(cfg.Download.Timeout, log)
	archive, err := fetcher.Download(cfg.Download.URL, cfg.Download.TargetDir)
	if err != nil {
		return err
	}
	dir, err := fetch.Extract(archive)
	if err != nil {
		return err
	}
	log.Info("dataset archive extracted", zap.String("dir", dir))

	if path, err := fetch.FindFile(dir, "food.csv"); err == nil {
		tableDir := filepath.Dir(path)
		cfg.Branded.DataDir = tableDir
		cfg.Legacy.DataDir = tableDir
	}
	if path, err := fetch.FindFile(dir, "surveyDownload.json"); err == nil {
		cfg.Survey.Input = path
	}
	return nil
}
