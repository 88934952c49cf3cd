package domain

// NutrientProfile maps canonical nutrient column names to amounts.
// A field absent from the source has no entry; zero-fill for missing
// fields happens at store-write time, never during parsing.
type NutrientProfile map[string]float64

// Empty reports whether no nutrient field was matched for this profile.
func (p NutrientProfile) Empty() bool {
	return len(p) == 0
}

// Portion is a human-meaningful serving description paired with its
// gram-weight equivalent (always > 0).
type Portion struct {
	Description string
	GramWeight  float64
}

// FoodEntity is the canonical joined unit written to the output store.
// Key is the dataset's natural primary key (barcode for branded,
// numeric identifier rendered as a string for survey and SR legacy).
// Once accepted by the deduplicator an entity is never mutated.
type FoodEntity struct {
	Key              string
	Description      string
	Brand            string
	Category         string
	ServingSize      *float64
	ServingUnit      string
	HouseholdServing string
	Nutrients        NutrientProfile
	Portions         []Portion
}

// RunSummary accumulates the per-run counters surfaced to operators so
// data-loss magnitude can be judged without failing the run.
type RunSummary struct {
	Dataset              string
	RowsScanned          int64 // nutrient rows seen during the join pass
	ParseFailures        int64 // numeric fields that failed to parse
	Inserted             int
	SkippedNoKey         int // source rows without a usable primary key
	SkippedNoDescription int
	SkippedNoNutrients   int
	SkippedDuplicateKey  int
	IgnoredOnConflict    int64 // duplicates caught by the store itself
	PortionCount         int
	ArtifactPath         string
	ArtifactBytes        int64
}
