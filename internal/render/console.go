package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/lerban/gw-data-viz/internal/pipeline"
	"github.com/lerban/gw-data-viz/internal/report"
)

// Console prints every result table to a writer as bordered text tables.
type Console struct {
	out    io.Writer
	logger *slog.Logger
}

// NewConsole creates a console renderer writing to out.
func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	return &Console{out: out, logger: logger}
}

// Render prints a run banner followed by each table in result order.
func (c *Console) Render(ctx context.Context, result *pipeline.Result) error {
	if _, err := fmt.Fprintf(c.out, "survey %s run %s generated %s\n",
		result.Survey, result.RunID, result.GeneratedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}

	for i := range result.Tables {
		if err := c.printTable(&result.Tables[i]); err != nil {
			return err
		}
	}

	c.logger.Debug("console render complete", "tables", len(result.Tables))
	return nil
}

func (c *Console) printTable(t *report.Table) error {
	if _, err := fmt.Fprintf(c.out, "\n%s (%d rows)\n", t.Name, len(t.Rows)); err != nil {
		return fmt.Errorf("write heading for %s: %w", t.Name, err)
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = headerLabel(col)
	}

	table := tablewriter.NewWriter(c.out)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetHeader(headers)

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v, "-")
		}
		table.Append(cells)
	}

	table.Render()
	return nil
}
