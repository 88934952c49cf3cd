package domain

// Record is one raw row from a tabular source: a mapping from header
// field name to the raw string value. Records are owned by the reader
// during iteration and must not be retained across Next calls.
type Record map[string]string

// RecordSource defines the interface for streaming raw keyed records
// from a tabular source. The sequence is lazy, finite and
// non-restartable; Next returns io.EOF when the source is exhausted.
type RecordSource interface {
	Next() (Record, error)
	Close() error
}

// FoodStore defines the interface for bulk-inserting accepted entities
// into the output artifact. Insert reports false when the store's own
// conflict policy rejected the entity (duplicate primary key).
type FoodStore interface {
	Insert(entity *FoodEntity) (inserted bool, err error)
	Commit() error
	Close() error
}
