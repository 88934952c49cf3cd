package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/foodlog/fdcstore/internal/domain"
)

// Schema describes the output artifact for one dataset: the primary
// table, which descriptive columns it carries, the canonical nutrient
// columns, and the optional portions table and full-text index.
type Schema struct {
	Table           string
	KeyColumn       string
	IntegerKey      bool
	BrandColumns    bool // brand, serving_size, serving_unit, household_serving
	CategoryColumn  bool
	NutrientColumns []string
	PortionsTable   bool
	FTSTable        string // empty disables the full-text index
}

// Store builds one output artifact: schema first, then bulk insertion
// inside a single transaction. It implements domain.FoodStore.
type Store struct {
	db     *sql.DB
	tx     *sql.Tx
	schema Schema
	path   string

	insertFood    *sql.Stmt
	insertFTS     *sql.Stmt
	insertPortion *sql.Stmt

	ignored   int64
	committed bool
	closed    bool
}

var _ domain.FoodStore = (*Store)(nil)

// Create replaces any pre-existing artifact at path and prepares the
// schema for bulk insertion. Callers must confirm all inputs exist
// before calling Create, so a failed run never leaves a half-written
// artifact in place of a good one.
func Create(path string, schema Schema) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove previous artifact: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open output store: %w", err)
	}

	s := &Store{db: db, schema: schema, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.begin(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema() error {
	keyType := "TEXT"
	if s.schema.IntegerKey {
		keyType = "INTEGER"
	}

	cols := []string{
		fmt.Sprintf("%s %s PRIMARY KEY", s.schema.KeyColumn, keyType),
		"description TEXT NOT NULL",
	}
	if s.schema.BrandColumns {
		cols = append(cols,
			"brand TEXT",
			"serving_size REAL",
			"serving_unit TEXT",
			"household_serving TEXT")
	}
	if s.schema.CategoryColumn {
		cols = append(cols, "category TEXT")
	}
	for _, c := range s.schema.NutrientColumns {
		cols = append(cols, c+" REAL DEFAULT 0")
	}

	ddl := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", s.schema.Table, strings.Join(cols, ", ")),
	}
	if s.schema.PortionsTable {
		ddl = append(ddl, fmt.Sprintf(`CREATE TABLE portions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			%s %s NOT NULL,
			description TEXT NOT NULL,
			gram_weight REAL NOT NULL,
			FOREIGN KEY (%s) REFERENCES %s(%s)
		)`, s.schema.KeyColumn, keyType, s.schema.KeyColumn, s.schema.Table, s.schema.KeyColumn))
	}
	if s.schema.FTSTable != "" {
		ddl = append(ddl, fmt.Sprintf(
			"CREATE VIRTUAL TABLE %s USING fts5(description, %s UNINDEXED, tokenize='porter unicode61')",
			s.schema.FTSTable, s.schema.KeyColumn))
	}

	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}
	s.tx = tx

	names := []string{s.schema.KeyColumn, "description"}
	if s.schema.BrandColumns {
		names = append(names, "brand", "serving_size", "serving_unit", "household_serving")
	}
	if s.schema.CategoryColumn {
		names = append(names, "category")
	}
	names = append(names, s.schema.NutrientColumns...)

	placeholders := strings.TrimRight(strings.Repeat("?,", len(names)), ",")
	s.insertFood, err = tx.Prepare(fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		s.schema.Table, strings.Join(names, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare food insert: %w", err)
	}

	if s.schema.FTSTable != "" {
		s.insertFTS, err = tx.Prepare(fmt.Sprintf(
			"INSERT INTO %s (description, %s) VALUES (?, ?)",
			s.schema.FTSTable, s.schema.KeyColumn))
		if err != nil {
			return fmt.Errorf("prepare fts insert: %w", err)
		}
	}
	if s.schema.PortionsTable {
		s.insertPortion, err = tx.Prepare(fmt.Sprintf(
			"INSERT INTO portions (%s, description, gram_weight) VALUES (?, ?, ?)",
			s.schema.KeyColumn))
		if err != nil {
			return fmt.Errorf("prepare portion insert: %w", err)
		}
	}
	return nil
}

// Insert writes one accepted entity, its portions and its full-text
// entry. It reports false when the key conflicted with an already
// inserted row; the deduplicator normally catches those first.
func (s *Store) Insert(entity *domain.FoodEntity) (bool, error) {
	if s.closed || s.committed {
		return false, domain.ErrStoreClosed
	}
	if entity.Description == "" {
		return false, fmt.Errorf("%w: key %s", domain.ErrEmptyDescription, entity.Key)
	}

	key, err := s.keyArg(entity.Key)
	if err != nil {
		return false, err
	}

	args := []any{key, entity.Description}
	if s.schema.BrandColumns {
		var serving any
		if entity.ServingSize != nil {
			serving = *entity.ServingSize
		}
		args = append(args, nullString(entity.Brand), serving,
			nullString(entity.ServingUnit), nullString(entity.HouseholdServing))
	}
	if s.schema.CategoryColumn {
		args = append(args, nullString(entity.Category))
	}
	for _, column := range s.schema.NutrientColumns {
		// Absent canonical fields materialize as 0 in the artifact
		args = append(args, entity.Nutrients[column])
	}

	res, err := s.insertFood.Exec(args...)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", entity.Key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		s.ignored++
		return false, nil
	}

	if s.insertFTS != nil {
		if _, err := s.insertFTS.Exec(entity.Description, key); err != nil {
			return false, fmt.Errorf("insert fts entry for %s: %w", entity.Key, err)
		}
	}
	if s.insertPortion != nil {
		for _, p := range entity.Portions {
			if _, err := s.insertPortion.Exec(key, p.Description, p.GramWeight); err != nil {
				return false, fmt.Errorf("insert portion for %s: %w", entity.Key, err)
			}
		}
	}
	return true, nil
}

func (s *Store) keyArg(key string) (any, error) {
	if !s.schema.IntegerKey {
		return key, nil
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("non-numeric key %q for integer-keyed table %s", key, s.schema.Table)
	}
	return n, nil
}

// Ignored returns how many inserts the conflict policy rejected.
func (s *Store) Ignored() int64 {
	return s.ignored
}

// Commit makes the bulk insertion durable.
func (s *Store) Commit() error {
	if s.committed {
		return nil
	}
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.committed = true
	return nil
}

// Close rolls back an uncommitted transaction and releases the database.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.committed && s.tx != nil {
		s.tx.Rollback()
	}
	return s.db.Close()
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return s.path
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
