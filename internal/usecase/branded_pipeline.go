package usecase

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/foodlog/fdcstore/internal/domain"
	"github.com/foodlog/fdcstore/internal/infrastructure/source"
	"github.com/foodlog/fdcstore/internal/infrastructure/sqlite"
)

// BrandedConfig locates the Branded Foods CSV extract and its artifact.
type BrandedConfig struct {
	DataDir string
	Output  string
}

// BrandedPipeline converts the USDA Branded Foods CSV extract into a
// barcode-keyed sqlite artifact. Three source tables join on fdc_id:
// food.csv (descriptions), branded_food.csv (barcode, brand, serving)
// and food_nutrient.csv (the oversized per-row nutrient table).
type BrandedPipeline struct {
	config BrandedConfig
	logger *zap.Logger
}

// NewBrandedPipeline creates the branded dataset pipeline.
func NewBrandedPipeline(config BrandedConfig, logger *zap.Logger) *BrandedPipeline {
	return &BrandedPipeline{config: config, logger: logger}
}

type brandedProduct struct {
	barcode          string
	brand            string
	servingSize      *float64
	servingUnit      string
	householdServing string
}

// Run executes the conversion and returns the run summary.
func (p *BrandedPipeline) Run() (*domain.RunSummary, error) {
	foodCSV := filepath.Join(p.config.DataDir, "food.csv")
	brandedCSV := filepath.Join(p.config.DataDir, "branded_food.csv")
	nutrientCSV := filepath.Join(p.config.DataDir, "food_nutrient.csv")

	if err := checkInputs(foodCSV, brandedCSV, nutrientCSV); err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{Dataset: "branded"}

	descriptions, err := p.loadDescriptions(foodCSV)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded branded food descriptions", zap.Int("count", len(descriptions)))

	products, order, err := p.loadProducts(brandedCSV, summary)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded products with barcodes",
		zap.Int("count", len(products)),
		zap.Int("skipped_no_barcode", summary.SkippedNoKey))

	// The large pass: scan food_nutrient.csv once against the keys we
	// already resolved, rejecting non-members before any field parsing.
	targets := make(map[string]struct{}, len(products))
	for fdcID := range products {
		targets[fdcID] = struct{}{}
	}
	joiner := NewKeyJoiner(NewNutrientProjector(BrandedNutrients), targets, p.logger)
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
	p.logger.Info("nutrient scan complete",
		zap.Int64("rows_scanned", summary.RowsScanned),
		zap.Int("keys_matched", joiner.MatchedKeys()))

	schema := brandedSchema()
	store, err := sqlite.Create(p.config.Output, schema)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	dedupe := NewDeduplicator(summary)
	for _, fdcID := range order {
		product := products[fdcID]
		entity := &domain.FoodEntity{
			Key:              product.barcode,
			Description:      descriptions[fdcID],
			Brand:            product.brand,
			ServingSize:      product.servingSize,
			ServingUnit:      product.servingUnit,
			HouseholdServing: product.householdServing,
			Nutrients:        joiner.Profile(fdcID),
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
		}
	}

	if err := finishArtifact(store, schema, summary, p.logger); err != nil {
		return nil, err
	}
	return summary, nil
}

// loadDescriptions builds the fdc_id → description map from food.csv,
// keeping only branded_food rows.
func (p *BrandedPipeline) loadDescriptions(path string) (map[string]string, error) {
	src, err := source.OpenCSV(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	descriptions := make(map[string]string)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec["data_type"] != "branded_food" {
			continue
		}
		descriptions[rec["fdc_id"]] = rec["description"]
	}
	return descriptions, nil
}

// loadProducts builds the fdc_id → product map from branded_food.csv.
// Rows without a barcode never enter the target-key set. The returned
// order preserves source iteration order so first-wins deduplication
// and the output artifact are deterministic.
func (p *BrandedPipeline) loadProducts(path string, summary *domain.RunSummary) (map[string]brandedProduct, []string, error) {
	src, err := source.OpenCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	products := make(map[string]brandedProduct)
	var order []string
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		barcode := strings.TrimSpace(rec["gtin_upc"])
		if barcode == "" {
			summary.SkippedNoKey++
			continue
		}

		brand := strings.TrimSpace(rec["brand_owner"])
		if brand == "" {
			brand = strings.TrimSpace(rec["brand_name"])
		}

		var servingSize *float64
		if raw := strings.TrimSpace(rec["serving_size"]); raw != "" {
			if size, err := strconv.ParseFloat(raw, 64); err == nil {
				servingSize = &size
			} else {
				summary.ParseFailures++
			}
		}

		fdcID := rec["fdc_id"]
		if _, exists := products[fdcID]; !exists {
			order = append(order, fdcID)
		}
		products[fdcID] = brandedProduct{
			barcode:          barcode,
			brand:            brand,
			servingSize:      servingSize,
			servingUnit:      strings.TrimSpace(rec["serving_size_unit"]),
			householdServing: strings.TrimSpace(rec["household_serving_fulltext"]),
		}
	}
	return products, order, nil
}

func brandedSchema() sqlite.Schema {
	return sqlite.Schema{
		Table:           "branded_foods",
		KeyColumn:       "barcode",
		BrandColumns:    true,
		NutrientColumns: BrandedNutrients.Columns(),
		FTSTable:        "branded_fts",
	}
}
