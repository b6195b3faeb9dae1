package render

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lerban/gw-data-viz/internal/pipeline"
	"github.com/lerban/gw-data-viz/internal/report"
)

// CSV writes one file per result table into a directory. Headers are the raw
// column names and absent cells are empty fields, keeping the files
// machine-readable.
type CSV struct {
	dir    string
	logger *slog.Logger
}

// NewCSV creates a CSV renderer writing <table name>.csv files under dir.
func NewCSV(dir string, logger *slog.Logger) *CSV {
	return &CSV{dir: dir, logger: logger}
}

// Render writes every table in the result, overwriting files from earlier
// runs.
func (r *CSV) Render(ctx context.Context, result *pipeline.Result) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i := range result.Tables {
		if err := r.writeTable(&result.Tables[i]); err != nil {
			return fmt.Errorf("write table %s: %w", result.Tables[i].Name, err)
		}
	}

	r.logger.Info("csv tables written", "dir", r.dir, "tables", len(result.Tables))
	return nil
}

func (r *CSV) writeTable(t *report.Table) error {
	path := filepath.Join(r.dir, fileName(t.Name)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = formatCell(v, "")
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
