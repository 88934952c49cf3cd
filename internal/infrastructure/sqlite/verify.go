package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/foodlog/fdcstore/internal/domain"
)

// SampleRow is one primary-table row pulled for the post-build report.
type SampleRow struct {
	Key         string
	Description string
	Amount      float64 // first canonical nutrient column (energy)
}

// VerifyReport collects the read-only post-build checks. Discrepancies
// are diagnostic, not fatal: they land in Mismatches and the caller
// decides how loudly to report them.
type VerifyReport struct {
	RowCount     int64
	PortionCount int64
	FTSCount     int64
	Samples      []SampleRow
	ProbeTerm    string
	ProbeHits    []string
	Mismatches   []string
}

// Verify reopens the finished artifact and confirms that row counts
// match the accepted-entity counts and that a term from a real
// description round-trips through the full-text index.
func Verify(path string, schema Schema, summary *domain.RunSummary) (*VerifyReport, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open artifact for verification: %w", err)
	}
	defer db.Close()

	report := &VerifyReport{}

	if err := db.QueryRow("SELECT COUNT(*) FROM " + schema.Table).Scan(&report.RowCount); err != nil {
		return nil, fmt.Errorf("count %s: %w", schema.Table, err)
	}
	if report.RowCount != int64(summary.Inserted) {
		report.Mismatches = append(report.Mismatches, fmt.Sprintf(
			"%s has %d rows, expected %d accepted entities",
			schema.Table, report.RowCount, summary.Inserted))
	}

	if schema.PortionsTable {
		if err := db.QueryRow("SELECT COUNT(*) FROM portions").Scan(&report.PortionCount); err != nil {
			return nil, fmt.Errorf("count portions: %w", err)
		}
		if report.PortionCount != int64(summary.PortionCount) {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf(
				"portions has %d rows, expected %d", report.PortionCount, summary.PortionCount))
		}
	}

	if schema.FTSTable != "" {
		if err := db.QueryRow("SELECT COUNT(*) FROM " + schema.FTSTable).Scan(&report.FTSCount); err != nil {
			return nil, fmt.Errorf("count %s: %w", schema.FTSTable, err)
		}
		if report.FTSCount != report.RowCount {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf(
				"%s has %d entries, expected %d", schema.FTSTable, report.FTSCount, report.RowCount))
		}
	}

	if err := collectSamples(db, schema, report); err != nil {
		return nil, err
	}

	if schema.FTSTable != "" && len(report.Samples) > 0 {
		if err := probeFullText(db, schema, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func collectSamples(db *sql.DB, schema Schema, report *VerifyReport) error {
	amountCol := "0"
	if len(schema.NutrientColumns) > 0 {
		amountCol = schema.NutrientColumns[0]
	}
	rows, err := db.Query(fmt.Sprintf(
		"SELECT %s, description, %s FROM %s LIMIT 5",
		schema.KeyColumn, amountCol, schema.Table))
	if err != nil {
		return fmt.Errorf("sample %s: %w", schema.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SampleRow
		if err := rows.Scan(&s.Key, &s.Description, &s.Amount); err != nil {
			return fmt.Errorf("scan sample row: %w", err)
		}
		report.Samples = append(report.Samples, s)
	}
	return rows.Err()
}

// probeFullText stems a term taken from a sampled description the same
// way the porter tokenizer stems indexed text, then checks the sample's
// key comes back from a MATCH query.
func probeFullText(db *sql.DB, schema Schema, report *VerifyReport) error {
	sample := report.Samples[0]
	term := probeTerm(sample.Description)
	if term == "" {
		return nil
	}
	report.ProbeTerm = term

	rows, err := db.Query(fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s MATCH ? LIMIT 25",
		schema.KeyColumn, schema.FTSTable, schema.FTSTable),
		`"`+term+`"`)
	if err != nil {
		return fmt.Errorf("full-text probe: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return fmt.Errorf("scan probe hit: %w", err)
		}
		report.ProbeHits = append(report.ProbeHits, key)
		if key == sample.Key {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !found && len(report.ProbeHits) == 0 {
		report.Mismatches = append(report.Mismatches, fmt.Sprintf(
			"full-text probe %q returned no hits", term))
	}
	return nil
}

// probeTerm picks the first substantial word of a description and stems
// it with the same Porter family the index tokenizer uses.
func probeTerm(description string) string {
	for _, token := range strings.Fields(strings.ToLower(description)) {
		token = strings.Trim(token, ",.()-'\"")
		if len(token) < 4 {
			continue
		}
		if stemmed, err := snowball.Stem(token, "english", false); err == nil && stemmed != "" {
			return stemmed
		}
		return token
	}
	return ""
}
