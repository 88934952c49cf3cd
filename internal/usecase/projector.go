package usecase

import (
	"math"
	"strconv"
)

// NutrientProjector maps source-specific nutrient identifiers onto the
// canonical column set of one dataset, applying deterministic rounding.
type NutrientProjector struct {
	mapping NutrientMapping
	byID    map[int]string
}

// NewNutrientProjector creates a projector for the given mapping table.
func NewNutrientProjector(mapping NutrientMapping) *NutrientProjector {
	byID := make(map[int]string, len(mapping))
	for _, f := range mapping {
		byID[f.NutrientID] = f.Column
	}
	return &NutrientProjector{mapping: mapping, byID: byID}
}

// Columns returns the canonical column names in mapping order.
func (p *NutrientProjector) Columns() []string {
	return p.mapping.Columns()
}

// Project resolves a nutrient identifier and amount into a canonical
// column and rounded value. Identifiers outside the canonical subset
// return ok=false; source datasets carry many of those, so the caller
// should not count them.
func (p *NutrientProjector) Project(nutrientID int, amount float64) (column string, value float64, ok bool) {
	column, ok = p.byID[nutrientID]
	if !ok {
		return "", 0, false
	}
	return column, round4(amount), true
}

// ProjectRaw is Project for string-typed tabular fields. parseFailed is
// set only when a canonical nutrient's amount fails to parse; that
// field is then treated as absent, never as zero.
func (p *NutrientProjector) ProjectRaw(rawID, rawAmount string) (column string, value float64, ok bool, parseFailed bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return "", 0, false, false
	}
	column, found := p.byID[id]
	if !found {
		return "", 0, false, false
	}
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return "", 0, false, true
	}
	return column, round4(amount), true, false
}

// round4 rounds to 4 decimal places; output size is bounded and
// repeated runs on identical input round identically.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
