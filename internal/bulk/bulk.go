// Package bulk runs a CSV import file through a per-row create function and
// tallies the outcome. One bad row never stops the batch.
package bulk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"jobboard/internal/csvrow"
	"jobboard/internal/domain"
	"jobboard/internal/record"
	"jobboard/internal/storage"
	"jobboard/internal/utils"
)

type State string

const (
	StateParsing    State = "PARSING"
	StateProcessing State = "PROCESSING"
	StateDone       State = "DONE"
)

// Result is returned to the client once the batch is done.
// Success + Failed + Skipped == Total.
type Result struct {
	Total      int      `json:"total"`
	Success    int      `json:"success"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	Duplicates []string `json:"duplicates"`
}

// RowFunc creates one entity from a mapped row. Validation and not-found
// errors fail the row, conflicts skip it, anything else aborts the import.
type RowFunc func(ctx context.Context, rec record.Record) error

type Importer struct {
	Schema    csvrow.Schema
	Archiver  storage.Archiver
	RequestID string
	// Observer, when set, sees every state transition.
	Observer func(State, Result)
}

// Run imports the file at path. The file is removed before Run returns,
// whatever the outcome.
func (im Importer) Run(ctx context.Context, path string, fn RowFunc) (Result, error) {
	res := Result{Errors: []string{}, Duplicates: []string{}}
	defer im.cleanup(ctx, path)

	im.enter(StateParsing, res)
	binding, rows, err := im.parse(path)
	if err != nil {
		return Result{}, err
	}

	res.Total = len(rows)
	im.enter(StateProcessing, res)
	for i, cells := range rows {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		n := i + 1

		rec, err := binding.Record(cells)
		if err == nil {
			err = fn(ctx, rec)
		}
		switch {
		case err == nil:
			res.Success++
		case domain.IsConflict(err):
			res.Skipped++
			res.Duplicates = append(res.Duplicates, rowMessage(n, err))
		case domain.IsValidation(err) || domain.IsNotFound(err):
			res.Failed++
			res.Errors = append(res.Errors, rowMessage(n, err))
		default:
			utils.LogError(im.RequestID, "bulk", "import_"+im.Schema.Name, err)
			return Result{}, fmt.Errorf("row %d: %w", n, err)
		}
	}

	im.enter(StateDone, res)
	utils.LogEvent(im.RequestID, "bulk", "import_"+im.Schema.Name,
		fmt.Sprintf("total=%d success=%d failed=%d skipped=%d", res.Total, res.Success, res.Failed, res.Skipped))
	return res, nil
}

func (im Importer) parse(path string) (csvrow.Binding, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return csvrow.Binding{}, nil, domain.TransientIOError{Op: "open import file", Err: err}
	}
	defer f.Close()

	header, rows, err := csvrow.ReadAll(f)
	if err != nil {
		return csvrow.Binding{}, nil, err
	}
	binding, err := im.Schema.Bind(header)
	if err != nil {
		return csvrow.Binding{}, nil, err
	}
	return binding, rows, nil
}

func (im Importer) cleanup(ctx context.Context, path string) {
	if im.Archiver != nil {
		key, err := im.Archiver.Archive(context.WithoutCancel(ctx), path, filepath.Base(path))
		switch {
		case err != nil:
			utils.LogError(im.RequestID, "bulk", "archive", err)
		case key != "":
			utils.LogEvent(im.RequestID, "bulk", "archive", "stored "+key)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.LogError(im.RequestID, "bulk", "remove_temp", err)
	}
}

func (im Importer) enter(s State, res Result) {
	if im.Observer != nil {
		im.Observer(s, res)
	}
}

func rowMessage(n int, err error) string {
	return fmt.Sprintf("Row %d: %s", n, err.Error())
}
