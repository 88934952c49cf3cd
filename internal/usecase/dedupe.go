package usecase

import "github.com/foodlog/fdcstore/internal/domain"

// Deduplicator gates entities into the output store: exactly one entity
// per key (first encountered wins), and entities without a description
// or without any nutrient data are excluded. Rejections are counted by
// reason on the run summary so operators can audit data loss sources.
type Deduplicator struct {
	seen    map[string]struct{}
	summary *domain.RunSummary
}

// NewDeduplicator creates a deduplicator updating the given summary.
func NewDeduplicator(summary *domain.RunSummary) *Deduplicator {
	return &Deduplicator{
		seen:    make(map[string]struct{}),
		summary: summary,
	}
}

// Accept reports whether the entity should be written. Exclusion checks
// run before the duplicate check, so a keyless or dataless record never
// shadows a later complete one under the same key.
func (d *Deduplicator) Accept(entity *domain.FoodEntity) bool {
	if entity.Key == "" {
		d.summary.SkippedNoKey++
		return false
	}
	if entity.Description == "" {
		d.summary.SkippedNoDescription++
		return false
	}
	if entity.Nutrients.Empty() {
		d.summary.SkippedNoNutrients++
		return false
	}
	if _, dup := d.seen[entity.Key]; dup {
		d.summary.SkippedDuplicateKey++
		return false
	}
	d.seen[entity.Key] = struct{}{}
	return true
}
