package usecase

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/foodlog/fdcstore/internal/domain"
)

// KeyJoiner performs the streaming, membership-filtered join of the
// per-row nutrient source against an already-known target key set. The
// nutrient source dominates total row count by orders of magnitude, so
// rows outside the target set are rejected before any field parsing.
// Memory stays O(target keys); the source is never materialized.
type KeyJoiner struct {
	projector *NutrientProjector
	targets   map[string]struct{}
	profiles  map[string]domain.NutrientProfile
	logger    *zap.Logger
	progress  *rate.Limiter

	rowsScanned   int64
	parseFailures int64
}

// NewKeyJoiner creates a joiner over the given target key set.
func NewKeyJoiner(projector *NutrientProjector, targets map[string]struct{}, logger *zap.Logger) *KeyJoiner {
	return &KeyJoiner{
		projector: projector,
		targets:   targets,
		profiles:  make(map[string]domain.NutrientProfile),
		logger:    logger,
		// Progress events at most once per second no matter the row rate
		progress: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Scan consumes the nutrient source in one sequential pass. keyField,
// idField and amountField name the source columns holding the food key,
// nutrient identifier and amount. Later rows for the same (key, field)
// overwrite earlier ones.
func (j *KeyJoiner) Scan(src domain.RecordSource, keyField, idField, amountField string) error {
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("nutrient scan: %w", err)
		}
		j.rowsScanned++

		if j.progress.Allow() {
			j.logger.Info("scanning nutrient rows",
				zap.Int64("rows_scanned", j.rowsScanned),
				zap.Int("keys_matched", len(j.profiles)))
		}

		// Cheap reject before any parsing
		key := rec[keyField]
		if _, ok := j.targets[key]; !ok {
			continue
		}

		column, value, ok, parseFailed := j.projector.ProjectRaw(rec[idField], rec[amountField])
		if parseFailed {
			j.parseFailures++
		}
		if !ok {
			continue
		}

		profile, ok := j.profiles[key]
		if !ok {
			profile = make(domain.NutrientProfile)
			j.profiles[key] = profile
		}
		profile[column] = value
	}
	return nil
}

// Profile returns the accumulated profile for a key. A target key that
// never appeared in the source returns an empty profile; the
// deduplicator later excludes those entities.
func (j *KeyJoiner) Profile(key string) domain.NutrientProfile {
	return j.profiles[key]
}

// MatchedKeys returns how many target keys accumulated at least one field.
func (j *KeyJoiner) MatchedKeys() int {
	return len(j.profiles)
}

// RowsScanned returns the total nutrient rows seen, members or not.
func (j *KeyJoiner) RowsScanned() int64 {
	return j.rowsScanned
}

// ParseFailures returns how many canonical amounts failed to parse.
func (j *KeyJoiner) ParseFailures() int64 {
	return j.parseFailures
}
