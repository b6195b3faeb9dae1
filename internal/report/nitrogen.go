package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/lerban/gw-data-viz/internal/domain"
)

// NitrogenComposition pivots the window's per-site parameter means into
// columns and derives the nitrogen species split per short-id:
//
//	organic-N%        = 100 × (1 − (NH34-N + NO2+NO3-N) / TN)
//	nitrite+nitrate-% = 100 × NO2+NO3-N / TN
//
// Only sites where total nitrogen is present and non-zero appear, so the
// ratios are always defined. Organic-N% additionally needs both inorganic
// species measured and NO2+NO3% needs NO2+NO3 measured; otherwise the cell
// is an absent marker. Percentages are rounded to 1 decimal and may
// legitimately be negative when the inorganic species exceed TN within
// measurement noise.
func NitrogenComposition(observations []domain.EnrichedObservation, w Window) Table {
	type speciesMeans struct {
		name   string
		values map[string][]float64 // parameter code → measured values
	}

	perSite := map[string]*speciesMeans{}
	for _, o := range observations {
		if !w.Contains(o.Date) || o.Value == nil {
			continue
		}
		switch o.ParameterCode {
		case domain.CodeAmmoniaN, domain.CodeNitriteNitrate, domain.CodeTotalNitrogen:
		default:
			continue
		}
		sid := rowShortID(o)
		s, ok := perSite[sid]
		if !ok {
			s = &speciesMeans{name: o.SiteName, values: map[string][]float64{}}
			perSite[sid] = s
		}
		s.values[o.ParameterCode] = append(s.values[o.ParameterCode], *o.Value)
	}

	t := Table{
		Name: "nitrogen_" + w.Name,
		Columns: []Column{
			{Name: "short_id", Type: ColumnString},
			{Name: "name", Type: ColumnString},
			{Name: "nh34_n", Type: ColumnFloat, Unit: "mg/L"},
			{Name: "no23_n", Type: ColumnFloat, Unit: "mg/L"},
			{Name: "total_n", Type: ColumnFloat, Unit: "mg/L"},
			{Name: "organic_n_pct", Type: ColumnFloat, Unit: "%"},
			{Name: "no23_n_pct", Type: ColumnFloat, Unit: "%"},
		},
	}

	for _, sid := range sortedKeys(perSite) {
		s := perSite[sid]
		tn, ok := speciesMean(s.values, domain.CodeTotalNitrogen)
		if !ok || tn == 0 {
			// Undefined composition: excluded, never emitted as ±Inf or NaN.
			continue
		}
		nh34, hasNH34 := speciesMean(s.values, domain.CodeAmmoniaN)
		no23, hasNO23 := speciesMean(s.values, domain.CodeNitriteNitrate)

		row := []any{strCell(sid), strCell(s.name)}
		row = append(row, floatCellIf(hasNH34, nh34), floatCellIf(hasNO23, no23), tn)
		if hasNH34 && hasNO23 {
			row = append(row, round1(100*(1-(nh34+no23)/tn)))
		} else {
			row = append(row, nil)
		}
		if hasNO23 {
			row = append(row, round1(100*no23/tn))
		} else {
			row = append(row, nil)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// speciesMean averages the measured values for one code, rounded to 3
// decimals to match the mean view this pivot reshapes.
func speciesMean(values map[string][]float64, code string) (float64, bool) {
	xs := values[code]
	if len(xs) == 0 {
		return 0, false
	}
	return round3(stat.Mean(xs, nil)), true
}

func floatCellIf(ok bool, v float64) any {
	if !ok {
		return nil
	}
	return v
}
