// Package spreadsheet reads the first sheet of an XLSX workbook into rows keyed by header.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmpty          = errors.New("spreadsheet has no header row")
	ErrMissingColumns = errors.New("spreadsheet is missing required columns")
)

// Row is one data row. Line is the 1-based row number in the sheet.
type Row struct {
	Line   int
	values map[string]string
}

// Get returns the trimmed cell under header col (case-insensitive), or "".
func (r Row) Get(col string) string {
	return r.values[headerKey(col)]
}

// Bool interprets the cell under col as a yes/no flag.
func (r Row) Bool(col string) bool {
	return ParseBool(r.Get(col))
}

// Blank reports whether every cell of the row is empty.
func (r Row) Blank() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is the parsed content of a workbook's first sheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Read parses the first sheet of the workbook in r. Blank rows are dropped.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	raw, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}

	s := &Sheet{Name: name}
	for _, h := range raw[0] {
		s.Headers = append(s.Headers, strings.TrimSpace(h))
	}
	for i, cells := range raw[1:] {
		row := Row{Line: i + 2, values: make(map[string]string, len(s.Headers))}
		for j, h := range s.Headers {
			if h == "" || j >= len(cells) {
				continue
			}
			row.values[headerKey(h)] = strings.TrimSpace(cells[j])
		}
		if !row.Blank() {
			s.Rows = append(s.Rows, row)
		}
	}
	return s, nil
}

// RequireColumns fails with ErrMissingColumns naming every absent header.
func (s *Sheet) RequireColumns(cols ...string) error {
	have := make(map[string]bool, len(s.Headers))
	for _, h := range s.Headers {
		have[headerKey(h)] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[headerKey(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// ParseBool accepts the spellings found in exported rosters: true, sim, s, x, 1, yes.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "verdadeiro", "sim", "s", "x", "1", "yes", "y":
		return true
	}
	return false
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
