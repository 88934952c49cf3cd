package usecase

import (
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/foodlog/fdcstore/internal/domain"
	"github.com/foodlog/fdcstore/internal/infrastructure/source"
	"github.com/foodlog/fdcstore/internal/infrastructure/sqlite"
)

// SurveyConfig locates the FNDDS survey download and its artifact.
type SurveyConfig struct {
	Input  string
	Output string
}

// SurveyPipeline converts the hierarchical FNDDS survey extract into a
// food-code-keyed sqlite artifact with portions and a full-text index.
// Survey foods arrive fully nested, so no join pass is needed: each
// object already carries its nutrient and portion arrays.
type SurveyPipeline struct {
	config SurveyConfig
	logger *zap.Logger
}

// NewSurveyPipeline creates the survey dataset pipeline.
func NewSurveyPipeline(config SurveyConfig, logger *zap.Logger) *SurveyPipeline {
	return &SurveyPipeline{config: config, logger: logger}
}

// Run executes the conversion and returns the run summary.
func (p *SurveyPipeline) Run() (*domain.RunSummary, error) {
	src, err := source.OpenSurvey(p.config.Input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	summary := &domain.RunSummary{Dataset: "survey"}
	schema := surveySchema()
	store, err := sqlite.Create(p.config.Output, schema)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	projector := NewNutrientProjector(SurveyNutrients)
	dedupe := NewDeduplicator(summary)

	for {
		food, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		summary.RowsScanned++

		entity := &domain.FoodEntity{
			Description: food.Description,
			Nutrients:   make(domain.NutrientProfile),
		}
		if food.FoodCode > 0 {
			entity.Key = strconv.FormatInt(food.FoodCode, 10)
		}
		for _, n := range food.FoodNutrients {
			if column, value, ok := projector.Project(n.Nutrient.ID, n.Amount); ok {
				entity.Nutrients[column] = value
			}
		}
		for _, fp := range food.FoodPortions {
			if portion, ok := NewPortion(fp.PortionDescription, 1, fp.GramWeight); ok {
				entity.Portions = append(entity.Portions, portion)
			}
		}

		if !dedupe.Accept(entity) {
			continue
		}
		inserted, err := store.Insert(entity)
		if err != nil {
			return nil, err
		}
		if inserted {
			summary.Inserted++
			summary.PortionCount += len(entity.Portions)
		}
	}

	if err := finishArtifact(store, schema, summary, p.logger); err != nil {
		return nil, err
	}
	return summary, nil
}

func surveySchema() sqlite.Schema {
	return sqlite.Schema{
		Table:           "foods",
		KeyColumn:       "food_code",
		IntegerKey:      true,
		NutrientColumns: SurveyNutrients.Columns(),
		PortionsTable:   true,
		FTSTable:        "foods_fts",
	}
}
