package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/foodlog/fdcstore/internal/domain"
)

// CSVSource streams header-mapped records from a tabular source file.
// It implements domain.RecordSource: records are lazy, finite and
// non-restartable, and the returned map is reused between Next calls.
type CSVSource struct {
	path   string
	file   *os.File
	reader *csv.Reader
	header []string
	record domain.Record
}

var _ domain.RecordSource = (*CSVSource)(nil)

// OpenCSV opens a CSV source and consumes its header row.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrMalformedSource, path)
	}
	// The csv reader reuses its backing slice, so the header must be copied
	headerCopy := make([]string, len(header))
	copy(headerCopy, header)

	return &CSVSource{
		path:   path,
		file:   f,
		reader: r,
		header: headerCopy,
		record: make(domain.Record, len(headerCopy)),
	}, nil
}

// Next returns the next record, or io.EOF when the source is exhausted.
// A row whose field count disagrees with the header is a source-format
// fatal error.
func (s *CSVSource) Next() (domain.Record, error) {
	row, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedSource, s.path, err)
	}
	for i, name := range s.header {
		s.record[name] = row[i]
	}
	return s.record, nil
}

// Close releases the underlying file handle.
func (s *CSVSource) Close() error {
	return s.file.Close()
}
