package usecase

import (
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/foodlog/fdcstore/internal/domain"
	"github.com/foodlog/fdcstore/internal/infrastructure/source"
	"github.com/foodlog/fdcstore/internal/infrastructure/sqlite"
)

// LegacyConfig locates the SR Legacy CSV extract and its artifact.
type LegacyConfig struct {
	DataDir string
	Output  string
}

// LegacyPipeline converts the SR Legacy laboratory reference extract
// into an fdc_id-keyed sqlite artifact with category metadata, portions
// and a full-text index. Four source tables join on fdc_id: food.csv,
// food_category.csv, food_nutrient.csv and food_portion.csv.
type LegacyPipeline struct {
	config LegacyConfig
	logger *zap.Logger
}

// NewLegacyPipeline creates the SR Legacy dataset pipeline.
func NewLegacyPipeline(config LegacyConfig, logger *zap.Logger) *LegacyPipeline {
	return &LegacyPipeline{config: config, logger: logger}
}

// Run executes the conversion and returns the run summary.
func (p *LegacyPipeline) Run() (*domain.RunSummary, error) {
	foodCSV := filepath.Join(p.config.DataDir, "food.csv")
	categoryCSV := filepath.Join(p.config.DataDir, "food_category.csv")
	nutrientCSV := filepath.Join(p.config.DataDir, "food_nutrient.csv")
	portionCSV := filepath.Join(p.config.DataDir, "food_portion.csv")

	if err := checkInputs(foodCSV, categoryCSV, nutrientCSV, portionCSV); err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{Dataset: "legacy"}

	descriptions, categoryRefs, order, err := p.loadFoods(foodCSV)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded reference foods", zap.Int("count", len(descriptions)))

	categories, err := p.loadCategories(categoryCSV)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(descriptions))
	for fdcID := range descriptions {
		targets[fdcID] = struct{}{}
	}
	joiner := NewKeyJoiner(NewNutrientProjector(LegacyNutrients), targets, p.logger)
	nutrients, err := source.OpenCSV(nutrientCSV)
	if err != nil {
		return nil, err
	}
	err = joiner.Scan(nutrients, "fdc_id", "nutrient_id", "amount")
	nutrients.Close()
	if err != nil {
		return nil, err
	}
	summary.RowsScanned = joiner.RowsScanned()
	summary.ParseFailures = joiner.ParseFailures()

	portions, err := p.loadPortions(portionCSV, targets)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded portions", zap.Int("foods_with_portions", len(portions)))

	schema := legacySchema()
	store, err := sqlite.Create(p.config.Output, schema)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	dedupe := NewDeduplicator(summary)
	for _, fdcID := range order {
		entity := &domain.FoodEntity{
			Key:         fdcID,
			Description: descriptions[fdcID],
			Category:    categories[categoryRefs[fdcID]],
			Nutrients:   joiner.Profile(fdcID),
			Portions:    portions[fdcID],
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

// loadFoods reads food.csv once for descriptions and category
// references, preserving source order for deterministic output.
func (p *LegacyPipeline) loadFoods(path string) (map[string]string, map[string]string, []string, error) {
	src, err := source.OpenCSV(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer src.Close()

	descriptions := make(map[string]string)
	categoryRefs := make(map[string]string)
	var order []string
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
		fdcID := rec["fdc_id"]
		if _, exists := descriptions[fdcID]; !exists {
			order = append(order, fdcID)
		}
		descriptions[fdcID] = rec["description"]
		if catID := rec["food_category_id"]; catID != "" {
			categoryRefs[fdcID] = catID
		}
	}
	return descriptions, categoryRefs, order, nil
}

// loadCategories reads food_category.csv into an id → description map.
// A food whose category reference is missing here simply gets none.
func (p *LegacyPipeline) loadCategories(path string) (map[string]string, error) {
	src, err := source.OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	categories := make(map[string]string)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		categories[rec["id"]] = rec["description"]
	}
	return categories, nil
}

// loadPortions streams food_portion.csv, keeping only rows for known
// foods. The description falls back from modifier to
// portion_description; the amount column is the multiplier.
func (p *LegacyPipeline) loadPortions(path string, targets map[string]struct{}) (map[string][]domain.Portion, error) {
	src, err := source.OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	portions := make(map[string][]domain.Portion)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		fdcID := rec["fdc_id"]
		if _, ok := targets[fdcID]; !ok {
			continue
		}
		desc := rec["modifier"]
		if desc == "" {
			desc = rec["portion_description"]
		}
		portion, ok := ResolvePortion(desc, rec["amount"], rec["gram_weight"])
		if !ok {
			continue
		}
		portions[fdcID] = append(portions[fdcID], portion)
	}
	return portions, nil
}

func legacySchema() sqlite.Schema {
	return sqlite.Schema{
		Table:           "foods",
		KeyColumn:       "fdc_id",
		IntegerKey:      true,
		CategoryColumn:  true,
		NutrientColumns: LegacyNutrients.Columns(),
		PortionsTable:   true,
		FTSTable:        "foods_fts",
	}
}
