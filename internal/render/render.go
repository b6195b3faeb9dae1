// Package render holds the presentation adapters: console tables, CSV files,
// and self-contained HTML charts built from a pipeline result.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lerban/gw-data-viz/internal/report"
)

// formatCell renders one table cell as text. absent substitutes for nil cells
// so "no data" stays distinguishable from a measured zero.
func formatCell(v any, absent string) string {
	switch x := v.(type) {
	case nil:
		return absent
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// headerLabel appends the display unit when the column carries one.
func headerLabel(col report.Column) string {
	if col.Unit == "" {
		return col.Name
	}
	return col.Name + " (" + col.Unit + ")"
}

// fileName maps a table or window name to a safe filename fragment. Window
// names come from survey files, so anything outside a conservative character
// set is folded to an underscore.
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
