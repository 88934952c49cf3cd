package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/foodlog/fdcstore/internal/domain"
)

// NewPortion builds a Portion from already-parsed fields. A portion
// needs both a description and a positive gram weight; anything else is
// dropped silently since portions are supplementary data. A multiplier
// other than 1 is prefixed onto the description ("2" + "slice" →
// "2 slice"); multiplier 1 leaves it unchanged.
func NewPortion(description string, multiplier, gramWeight float64) (domain.Portion, bool) {
	desc := strings.TrimSpace(description)
	if desc == "" || gramWeight <= 0 {
		return domain.Portion{}, false
	}
	if multiplier != 1.0 {
		desc = strconv.FormatFloat(multiplier, 'f', -1, 64) + " " + desc
	}
	return domain.Portion{
		Description: desc,
		GramWeight:  math.Round(gramWeight*10) / 10,
	}, true
}

// ResolvePortion is NewPortion for raw tabular fields. An empty or
// unparseable multiplier counts as 1; an unparseable gram weight drops
// the portion.
func ResolvePortion(description, multiplier, gramWeight string) (domain.Portion, bool) {
	grams, err := strconv.ParseFloat(strings.TrimSpace(gramWeight), 64)
	if err != nil {
		return domain.Portion{}, false
	}
	mult := 1.0
	if m := strings.TrimSpace(multiplier); m != "" {
		if parsed, err := strconv.ParseFloat(m, 64); err == nil {
			mult = parsed
		}
	}
	return NewPortion(description, mult, grams)
}
