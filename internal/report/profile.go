package report

import (
	"sort"

	"github.com/lerban/gw-data-viz/internal/domain"
)

// ProfileSeries builds vertical-profile points for a window: one row per
// measured value, positioned at its site's screen elevation (land surface
// minus well depth). Rows without a derivable screen elevation are dropped,
// as are sites whose display name is on the exclusion list (duplicate-well
// artifacts matched by exact name). Rows are ordered by short-id, parameter,
// then descending elevation so each profile reads top-down.
func ProfileSeries(observations []domain.EnrichedObservation, sites []domain.Site, w Window, excludeNames []string) Table {
	excluded := make(map[string]bool, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = true
	}

	elevations := map[string]*float64{}
	for _, s := range sites {
		elevations[s.ID] = s.ScreenElevation()
	}

	t := Table{
		Name: "profile_" + w.Name,
		Columns: []Column{
			{Name: "short_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
			{Name: "parameter", Type: ColumnString},
			{Name: "value", Type: ColumnFloat},
			{Name: "screen_elevation", Type: ColumnFloat, Unit: "ft"},
			{Name: "date", Type: ColumnDate},
		},
	}

	for _, o := range observations {
		if !w.Contains(o.Date) || o.Value == nil || excluded[o.SiteName] {
			continue
		}
		elev := elevations[o.SiteID]
		if elev == nil {
			continue
		}
		t.Rows = append(t.Rows, []any{
			strCell(rowShortID(o)),
			strCell(o.SiteName),
			strCell(domain.ParameterLabel(o.ParameterCode)),
			*o.Value,
			*elev,
			dateCell(o.Date),
		})
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		si, sj := cellString(t.Rows[i][0]), cellString(t.Rows[j][0])
		if si != sj {
			return si < sj
		}
		pi, pj := cellString(t.Rows[i][2]), cellString(t.Rows[j][2])
		if pi != pj {
			return pi < pj
		}
		return t.Rows[i][4].(float64) > t.Rows[j][4].(float64)
	})
	return t
}

func cellString(v any) string {
	s, _ := v.(string)
	return s
}
