package usecase

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/foodlog/fdcstore/internal/domain"
	"github.com/foodlog/fdcstore/internal/infrastructure/sqlite"
)

// checkInputs confirms every required source exists before the output
// location is touched. A missing source aborts the whole run and names
// the file.
func checkInputs(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", domain.ErrSourceMissing, path)
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return nil
}

func artifactSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// finishArtifact commits the store, records artifact metadata and runs
// the read-only verification pass. Verification failures are reported,
// not fatal.
func finishArtifact(store *sqlite.Store, schema sqlite.Schema, summary *domain.RunSummary, logger *zap.Logger) error {
	summary.IgnoredOnConflict = store.Ignored()
	if err := store.Commit(); err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}
	summary.ArtifactPath = store.Path()
	summary.ArtifactBytes = artifactSize(store.Path())

	report, err := sqlite.Verify(store.Path(), schema, summary)
	if err != nil {
		logger.Warn("verification could not run", zap.Error(err))
		return nil
	}
	logVerification(logger, report)
	logSummary(logger, summary)
	return nil
}

func logVerification(logger *zap.Logger, report *sqlite.VerifyReport) {
	for _, s := range report.Samples {
		logger.Debug("sample row",
			zap.String("key", s.Key),
			zap.String("description", s.Description),
			zap.Float64("energy", s.Amount))
	}
	if report.ProbeTerm != "" {
		logger.Info("full-text probe",
			zap.String("term", report.ProbeTerm),
			zap.Int("hits", len(report.ProbeHits)))
	}
	if len(report.Mismatches) > 0 {
		for _, m := range report.Mismatches {
			logger.Warn("verification mismatch", zap.String("detail", m))
		}
		return
	}
	logger.Info("verification passed",
		zap.Int64("rows", report.RowCount),
		zap.Int64("portions", report.PortionCount),
		zap.Int64("fts_entries", report.FTSCount))
}

func logSummary(logger *zap.Logger, summary *domain.RunSummary) {
	logger.Info("conversion finished",
		zap.String("dataset", summary.Dataset),
		zap.Int64("rows_scanned", summary.RowsScanned),
		zap.Int("inserted", summary.Inserted),
		zap.Int("portions", summary.PortionCount),
		zap.Int("skipped_no_key", summary.SkippedNoKey),
		zap.Int("skipped_no_description", summary.SkippedNoDescription),
		zap.Int("skipped_no_nutrients", summary.SkippedNoNutrients),
		zap.Int("skipped_duplicate_key", summary.SkippedDuplicateKey),
		zap.Int64("ignored_on_conflict", summary.IgnoredOnConflict),
		zap.Int64("parse_failures", summary.ParseFailures),
		zap.String("artifact", summary.ArtifactPath),
		zap.Int64("artifact_bytes", summary.ArtifactBytes))
}
