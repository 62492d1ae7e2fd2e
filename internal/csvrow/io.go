package csvrow

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"jobboard/internal/domain"
	"jobboard/internal/record"
)

// Writer streams records as CSV with RFC-4180 quoting.
type Writer struct {
	schema Schema
	w      *csv.Writer
}

func NewWriter(w io.Writer, s Schema) *Writer {
	return &Writer{schema: s, w: csv.NewWriter(w)}
}

func (w *Writer) WriteHeader() error {
	return w.w.Write(w.schema.Header())
}

func (w *Writer) Write(rec record.Record) error {
	return w.w.Write(w.schema.Row(rec))
}

// Flush writes any buffered rows and reports the first write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Binding maps the header of one uploaded file onto a schema.
type Binding struct {
	schema Schema
	index  map[string]int
}

// Bind matches header cells to column titles (trimmed, case-insensitive).
// A missing required column fails the whole file; unknown columns are ignored.
func (s Schema) Bind(header []string) (Binding, error) {
	b := Binding{schema: s, index: map[string]int{}}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if _, dup := b.index[key]; !dup {
			b.index[key] = i
		}
	}

	var errs domain.ValidationErrors
	for _, c := range s.Columns {
		if !c.Required {
			continue
		}
		if _, ok := b.index[strings.ToLower(c.Title)]; !ok {
			errs = append(errs, domain.ValidationError{Field: c.Title, Msg: "column missing from header"})
		}
	}
	if err := errs.OrNil(); err != nil {
		return Binding{}, err
	}
	return b, nil
}

// Row keys the cells of one data row by column title. Short rows read as blank.
func (b Binding) Row(cells []string) map[string]string {
	out := make(map[string]string, len(b.schema.Columns))
	for _, c := range b.schema.Columns {
		i, ok := b.index[strings.ToLower(c.Title)]
		if !ok || i >= len(cells) {
			continue
		}
		out[c.Title] = cells[i]
	}
	return out
}

// Record is Row followed by Schema.Record.
func (b Binding) Record(cells []string) (record.Record, error) {
	return b.schema.Record(b.Row(cells))
}

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("csv file is empty")

// ReadAll parses a whole CSV document into header and data rows.
func ReadAll(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, domain.ValidationError{Field: "file", Msg: fmt.Sprintf("malformed csv: %v", err), Err: err}
	}
	if len(all) == 0 {
		return nil, nil, domain.ValidationError{Field: "file", Msg: ErrEmptyFile.Error(), Err: ErrEmptyFile}
	}
	rows = all[1:]
	// drop rows whose cells are all blank (trailing ",,,," lines from spreadsheets)
	kept := rows[:0]
	for _, row := range rows {
		if !blank(row) {
			kept = append(kept, row)
		}
	}
	return all[0], kept, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
