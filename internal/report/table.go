// Package report builds the named tabular views the pipeline hands to the
// presentation layer.
package report

import (
	"time"

	"github.com/lerban/gw-data-viz/internal/domain"
)

// ColumnType hints how renderers should format a column's cells.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnFloat  ColumnType = "float"
	ColumnInt    ColumnType = "int"
	ColumnDate   ColumnType = "date"
)

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType
	Unit string // display unit, "" when dimensionless or mixed
}

// Table is the contract with the presentation layer: named, typed,
// positional columns over row-oriented cells. A nil cell is an absent
// marker, never zero and never "", so renderers can tell "no data" from
// "value is zero".
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, named column), nil when out of range or
// the column is unknown.
func (t Table) Cell(row int, column string) any {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][idx]
}

// strCell maps "" to the absent marker.
func strCell(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ptrCell maps a nil float pointer to the absent marker.
func ptrCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// SiteTable projects located sites into the presenter contract, one row per
// site record.
func SiteTable(sites []domain.Site) Table {
	t := Table{
		Name: "sites",
		Columns: []Column{
			{Name: "site_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
			{Name: "short_id", Type: ColumnString},
			{Name: "type", Type: ColumnString},
			{Name: "lat", Type: ColumnFloat, Unit: "°"},
			{Name: "lon", Type: ColumnFloat, Unit: "°"},
			{Name: "coord_datum", Type: ColumnString},
			{Name: "elevation", Type: ColumnFloat, Unit: "ft"},
			{Name: "elevation_datum", Type: ColumnString},
			{Name: "well_depth", Type: ColumnFloat, Unit: "ft"},
			{Name: "screen_elevation", Type: ColumnFloat, Unit: "ft"},
			{Name: "depth_count", Type: ColumnInt},
		},
	}
	for _, s := range sites {
		t.Rows = append(t.Rows, []any{
			strCell(s.ID),
			strCell(s.Name),
			strCell(s.ShortID),
			strCell(s.Type),
			s.Latitude,
			s.Longitude,
			strCell(s.CoordDatum),
			ptrCell(s.Elevation),
			strCell(s.ElevationDatum),
			ptrCell(s.WellDepth),
			ptrCell(s.ScreenElevation()),
			s.DepthCount,
		})
	}
	return t
}

// ObservationTable is the long-format enriched observation view:
// {site_id, name, lat, lon, parameter, value, date, year_month}.
func ObservationTable(observations []domain.EnrichedObservation) Table {
	t := Table{
		Name: "observations",
		Columns: []Column{
			{Name: "site_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
			{Name: "lat", Type: ColumnFloat, Unit: "°"},
			{Name: "lon", Type: ColumnFloat, Unit: "°"},
			{Name: "parameter", Type: ColumnString},
			{Name: "value", Type: ColumnFloat},
			{Name: "date", Type: ColumnDate},
			{Name: "year_month", Type: ColumnString},
		},
	}
	for _, o := range observations {
		t.Rows = append(t.Rows, []any{
			strCell(o.SiteID),
			strCell(o.SiteName),
			ptrCell(o.Latitude),
			ptrCell(o.Longitude),
			strCell(domain.ParameterLabel(o.ParameterCode)),
			ptrCell(o.Value),
			dateCell(o.Date),
			strCell(o.YearMonth),
		})
	}
	return t
}

// LevelTable is the long-format water-level view.
func LevelTable(levels []domain.EnrichedLevel) Table {
	t := Table{
		Name: "water_levels",
		Columns: []Column{
			{Name: "site_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
			{Name: "short_id", Type: ColumnString},
			{Name: "date", Type: ColumnDate},
			{Name: "depth_to_water", Type: ColumnFloat, Unit: "ft"},
			{Name: "elevation", Type: ColumnFloat, Unit: "ft"},
			{Name: "year_month", Type: ColumnString},
		},
	}
	for _, l := range levels {
		t.Rows = append(t.Rows, []any{
			strCell(l.SiteID),
			strCell(l.SiteName),
			strCell(l.ShortID),
			dateCell(l.Date),
			l.DepthToWater,
			ptrCell(l.Elevation),
			strCell(l.YearMonth),
		})
	}
	return t
}

func dateCell(d time.Time) any {
	if d.IsZero() {
		return nil
	}
	return d
}
