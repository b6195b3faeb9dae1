package report

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lerban/gw-data-viz/internal/domain"
)

// Window bounds a point-in-time view: strictly after After and strictly
// before Before. Sampling events spanning a few days around a nominal
// campaign date fit inside without exact-date matching; readings on the
// boundary dates themselves are excluded.
type Window struct {
	Name   string
	After  time.Time
	Before time.Time
}

// Contains reports whether t falls strictly inside the window.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.After) && t.Before(w.Before)
}

// rowShortID groups unknown-site rows under their raw site id so no
// observation row ever drops out of an aggregate.
func rowShortID(o domain.EnrichedObservation) string {
	if o.ShortID != "" {
		return o.ShortID
	}
	return o.SiteID
}

// Coverage counts observations per short-id × parameter, pivoted so each
// parameter becomes a column, and joins the number of distinct well depths
// sampled per short-id. Parameter columns follow the requested code order,
// with any extra observed parameters appended alphabetically. Combinations
// with no observations are absent markers, not zero counts; each parameter
// column sums to the raw observation row count for that parameter.
func Coverage(observations []domain.EnrichedObservation, sites []domain.Site, parameterCodes []string) Table {
	counts := map[string]map[string]int{}
	names := map[string]string{}
	for _, o := range observations {
		sid := rowShortID(o)
		label := domain.ParameterLabel(o.ParameterCode)
		m, ok := counts[sid]
		if !ok {
			m = map[string]int{}
			counts[sid] = m
			names[sid] = o.SiteName
		}
		m[label]++
	}

	labels := coverageLabels(parameterCodes, counts)
	depths := distinctDepths(sites)

	t := Table{
		Name: "coverage",
		Columns: []Column{
			{Name: "short_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
		},
	}
	for _, label := range labels {
		t.Columns = append(t.Columns, Column{Name: label, Type: ColumnInt})
	}
	t.Columns = append(t.Columns, Column{Name: "depths_sampled", Type: ColumnInt})

	for _, sid := range sortedKeys(counts) {
		row := []any{strCell(sid), strCell(names[sid])}
		for _, label := range labels {
			if n, ok := counts[sid][label]; ok {
				row = append(row, n)
			} else {
				row = append(row, nil)
			}
		}
		if n, ok := depths[sid]; ok {
			row = append(row, n)
		} else {
			row = append(row, nil)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// coverageLabels returns the requested parameter labels in request order,
// then any extra observed labels alphabetically.
func coverageLabels(parameterCodes []string, counts map[string]map[string]int) []string {
	seen := map[string]bool{}
	var labels []string
	for _, code := range parameterCodes {
		label := domain.ParameterLabel(code)
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	var extras []string
	for _, m := range counts {
		for label := range m {
			if !seen[label] {
				seen[label] = true
				extras = append(extras, label)
			}
		}
	}
	sort.Strings(extras)
	return append(labels, extras...)
}

// distinctDepths counts distinct non-null well depths per short-id over the
// site records. Short-ids with site records but no recorded depth count 0;
// short-ids with no site records are missing from the map.
func distinctDepths(sites []domain.Site) map[string]int {
	sets := map[string]map[float64]struct{}{}
	for _, s := range sites {
		set, ok := sets[s.ShortID]
		if !ok {
			set = map[float64]struct{}{}
			sets[s.ShortID] = set
		}
		if s.WellDepth != nil {
			set[*s.WellDepth] = struct{}{}
		}
	}
	out := make(map[string]int, len(sets))
	for sid, set := range sets {
		out[sid] = len(set)
	}
	return out
}

type summaryKey struct {
	shortID   string
	param     string
	yearMonth string
}

type summaryGroup struct {
	key    summaryKey
	name   string // first-seen site name
	values []float64
	lats   []float64
	lons   []float64
	depths []float64
}

// collectSummaries buckets observations by short-id × parameter (and
// year-month when byMonth is set), keeping measured values for the statistic
// and coordinates/depths for the carried metadata. Missing fields are simply
// not collected.
func collectSummaries(observations []domain.EnrichedObservation, keep func(domain.EnrichedObservation) bool, byMonth bool) []*summaryGroup {
	groups := map[summaryKey]*summaryGroup{}
	for _, o := range observations {
		if !keep(o) {
			continue
		}
		key := summaryKey{shortID: rowShortID(o), param: domain.ParameterLabel(o.ParameterCode)}
		if byMonth {
			key.yearMonth = o.YearMonth
		}
		g, ok := groups[key]
		if !ok {
			g = &summaryGroup{key: key, name: o.SiteName}
			groups[key] = g
		}
		if o.Value != nil {
			g.values = append(g.values, *o.Value)
		}
		if o.Latitude != nil {
			g.lats = append(g.lats, *o.Latitude)
		}
		if o.Longitude != nil {
			g.lons = append(g.lons, *o.Longitude)
		}
		if o.WellDepth != nil {
			g.depths = append(g.depths, *o.WellDepth)
		}
	}

	keys := make([]summaryKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].shortID != keys[j].shortID {
			return keys[i].shortID < keys[j].shortID
		}
		if keys[i].param != keys[j].param {
			return keys[i].param < keys[j].param
		}
		return keys[i].yearMonth < keys[j].yearMonth
	})

	out := make([]*summaryGroup, 0, len(keys))
	for _, key := range keys {
		out = append(out, groups[key])
	}
	return out
}

// summaryTable emits one row per group with a measured value: the statistic
// over the group's values plus first-seen name, median coordinates, and mean
// well depth. Groups with no measured values are excluded rather than
// reported as NaN.
func summaryTable(name string, groups []*summaryGroup, statistic func([]float64) float64, rounded, byMonth bool) Table {
	t := Table{Name: name}
	t.Columns = []Column{
		{Name: "short_id", Type: ColumnString},
		{Name: "name", Type: ColumnString},
	}
	if byMonth {
		t.Columns = append(t.Columns, Column{Name: "year_month", Type: ColumnString})
	}
	t.Columns = append(t.Columns,
		Column{Name: "parameter", Type: ColumnString},
		Column{Name: "value", Type: ColumnFloat},
		Column{Name: "lat", Type: ColumnFloat, Unit: "°"},
		Column{Name: "lon", Type: ColumnFloat, Unit: "°"},
		Column{Name: "well_depth", Type: ColumnFloat, Unit: "ft"},
	)

	maybeRound := func(v float64) float64 {
		if rounded {
			return round3(v)
		}
		return v
	}

	for _, g := range groups {
		if len(g.values) == 0 {
			continue
		}
		row := []any{strCell(g.key.shortID), strCell(g.name)}
		if byMonth {
			row = append(row, strCell(g.key.yearMonth))
		}
		row = append(row, strCell(g.key.param), maybeRound(statistic(g.values)))
		for _, coords := range [][]float64{g.lats, g.lons} {
			if len(coords) == 0 {
				row = append(row, nil)
			} else {
				row = append(row, maybeRound(median(coords)))
			}
		}
		if len(g.depths) == 0 {
			row = append(row, nil)
		} else {
			row = append(row, maybeRound(stat.Mean(g.depths, nil)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// PointInTimeMean is the arithmetic mean of each short-id × parameter group
// over a date window, ignoring missing values, rounded to 3 decimals.
// Medians are used for the carried coordinates to resist outlier coordinate
// records at installations with several depths.
func PointInTimeMean(observations []domain.EnrichedObservation, w Window) Table {
	groups := collectSummaries(observations, func(o domain.EnrichedObservation) bool { return w.Contains(o.Date) }, false)
	return summaryTable("mean_"+w.Name, groups, func(xs []float64) float64 { return stat.Mean(xs, nil) }, true, false)
}

// PointInTimeMax takes the maximum of each short-id × parameter group over a
// date window, ignoring missing values. No rounding is applied.
func PointInTimeMax(observations []domain.EnrichedObservation, w Window) Table {
	groups := collectSummaries(observations, func(o domain.EnrichedObservation) bool { return w.Contains(o.Date) }, false)
	return summaryTable("max_"+w.Name, groups, floats.Max, false, false)
}

// TimeSeriesMean is the point-in-time mean statistic grouped additionally by
// year-month over the whole record: one row per short-id × parameter × month.
func TimeSeriesMean(observations []domain.EnrichedObservation) Table {
	groups := collectSummaries(observations, func(domain.EnrichedObservation) bool { return true }, true)
	return summaryTable("timeseries_mean", groups, func(xs []float64) float64 { return stat.Mean(xs, nil) }, true, true)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// median returns the midpoint convention: the middle element for odd counts,
// the mean of the two middle elements for even counts.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
