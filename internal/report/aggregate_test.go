package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerban/gw-data-viz/internal/domain"
)

func fp(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// enriched builds a joined observation row with the minimal common fields.
func enriched(shortID, code string, value *float64, date time.Time) domain.EnrichedObservation {
	return domain.EnrichedObservation{
		SiteID:        shortID + "-id",
		SiteName:      shortID + " WELL",
		ShortID:       shortID,
		ParameterCode: code,
		Parameter:     domain.ParameterName(code),
		Value:         value,
		Date:          date,
		YearMonth:     domain.YearMonthOf(date),
	}
}

func marchWindow() Window {
	return Window{Name: "2022-03", After: day(2022, 3, 1), Before: day(2022, 3, 31)}
}

func TestWindowContains(t *testing.T) {
	w := marchWindow()

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"inside", day(2022, 3, 17), true},
		{"start boundary excluded", day(2022, 3, 1), false},
		{"end boundary excluded", day(2022, 3, 31), false},
		{"day after start", day(2022, 3, 2), true},
		{"before window", day(2022, 2, 20), false},
		{"after window", day(2022, 4, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Contains(tt.date))
		})
	}
}

func TestPointInTimeMean(t *testing.T) {
	w := marchWindow()

	t.Run("single value group equals that value", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-01", "00010", fp(7.2), day(2022, 3, 17)),
		}, w)

		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, 7.2, tbl.Cell(0, "value"))
	})

	t.Run("mean ignores missing values", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-01", "00010", fp(1.0), day(2022, 3, 16)),
			enriched("SA-01", "00010", fp(2.0), day(2022, 3, 17)),
			enriched("SA-01", "00010", nil, day(2022, 3, 18)),
		}, w)

		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, 1.5, tbl.Cell(0, "value"))
	})

	t.Run("values rounded to three decimals", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-01", "00010", fp(1.2344), day(2022, 3, 17)),
		}, w)

		assert.Equal(t, 1.234, tbl.Cell(0, "value"))
	})

	t.Run("window bounds are strict", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-01", "00010", fp(1.0), day(2022, 3, 1)),
			enriched("SA-01", "00010", fp(2.0), day(2022, 3, 17)),
			enriched("SA-01", "00010", fp(3.0), day(2022, 3, 31)),
		}, w)

		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, 2.0, tbl.Cell(0, "value"), "boundary-date samples excluded")
	})

	t.Run("group with no measured values excluded", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-01", "00010", nil, day(2022, 3, 17)),
		}, w)

		assert.Empty(t, tbl.Rows)
	})

	t.Run("carries first-seen name and median coordinates", func(t *testing.T) {
		rows := []domain.EnrichedObservation{
			enriched("SA-01", "00010", fp(1.0), day(2022, 3, 16)),
			enriched("SA-01", "00010", fp(2.0), day(2022, 3, 17)),
			enriched("SA-01", "00010", fp(3.0), day(2022, 3, 18)),
		}
		rows[0].SiteName = "SA-01 PORT 1"
		rows[0].Latitude, rows[0].Longitude, rows[0].WellDepth = fp(45.1), fp(-93.60), fp(10)
		rows[1].Latitude, rows[1].Longitude, rows[1].WellDepth = fp(45.2), fp(-93.61), fp(20)
		rows[2].Latitude, rows[2].Longitude, rows[2].WellDepth = fp(45.9), fp(-93.62), fp(30)

		tbl := PointInTimeMean(rows, w)

		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, "SA-01 PORT 1", tbl.Cell(0, "name"))
		assert.Equal(t, 45.2, tbl.Cell(0, "lat"), "median resists the outlier record")
		assert.Equal(t, -93.61, tbl.Cell(0, "lon"))
		assert.Equal(t, 20.0, tbl.Cell(0, "well_depth"))
	})

	t.Run("rows sorted by short id then parameter", func(t *testing.T) {
		tbl := PointInTimeMean([]domain.EnrichedObservation{
			enriched("SA-02", "00010", fp(1.0), day(2022, 3, 17)),
			enriched("SA-01", "00400", fp(2.0), day(2022, 3, 17)),
			enriched("SA-01", "00010", fp(3.0), day(2022, 3, 17)),
		}, w)

		require.Len(t, tbl.Rows, 3)
		assert.Equal(t, "SA-01", tbl.Cell(0, "short_id"))
		assert.Equal(t, "pH", tbl.Cell(1, "parameter"))
		assert.Equal(t, "SA-02", tbl.Cell(2, "short_id"))
	})

	t.Run("table named after the window", func(t *testing.T) {
		tbl := PointInTimeMean(nil, w)
		assert.Equal(t, "mean_2022-03", tbl.Name)
	})
}

func TestPointInTimeMax(t *testing.T) {
	w := marchWindow()

	t.Run("maximum ignoring missing values", func(t *testing.T) {
		tbl := PointInTimeMax([]domain.EnrichedObservation{
			enriched("SA-01", "00095", fp(410), day(2022, 3, 16)),
			enriched("SA-01", "00095", fp(455), day(2022, 3, 17)),
			enriched("SA-01", "00095", nil, day(2022, 3, 18)),
		}, w)

		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, 455.0, tbl.Cell(0, "value"))
	})

	t.Run("no rounding applied", func(t *testing.T) {
		tbl := PointInTimeMax([]domain.EnrichedObservation{
			enriched("SA-01", "00095", fp(1.23456), day(2022, 3, 17)),
		}, w)

		assert.Equal(t, 1.23456, tbl.Cell(0, "value"))
	})
}

func TestTimeSeriesMean(t *testing.T) {
	tbl := TimeSeriesMean([]domain.EnrichedObservation{
		enriched("SA-01", "00010", fp(1.0), day(2021, 11, 4)),
		enriched("SA-01", "00010", fp(3.0), day(2021, 11, 20)),
		enriched("SA-01", "00010", fp(5.0), day(2022, 3, 17)),
		enriched("SA-02", "00010", fp(7.0), day(2022, 3, 18)),
	})

	require.Len(t, tbl.Rows, 3, "one row per short-id × parameter × month")

	assert.Equal(t, "2021-11", tbl.Cell(0, "year_month"))
	assert.Equal(t, 2.0, tbl.Cell(0, "value"))
	assert.Equal(t, "2022-03", tbl.Cell(1, "year_month"))
	assert.Equal(t, 5.0, tbl.Cell(1, "value"))
	assert.Equal(t, "SA-02", tbl.Cell(2, "short_id"))
	assert.Equal(t, "timeseries_mean", tbl.Name)
}

func TestCoverage(t *testing.T) {
	d10, d20 := 10.0, 20.0
	sites := []domain.Site{
		{ID: "SA-01-id1", Name: "SA-01 PORT 1", ShortID: "SA-01", WellDepth: &d10},
		{ID: "SA-01-id2", Name: "SA-01 PORT 2", ShortID: "SA-01", WellDepth: &d20},
		{ID: "SA-02-id", Name: "SA-02 POND", ShortID: "SA-02"},
	}

	observations := []domain.EnrichedObservation{
		enriched("SA-01", "00010", fp(1.0), day(2022, 3, 16)),
		enriched("SA-01", "00010", nil, day(2022, 3, 17)),
		enriched("SA-01", "62854", fp(2.0), day(2022, 3, 17)),
		enriched("SA-02", "00010", fp(3.0), day(2022, 3, 18)),
	}
	// A row whose site never joined groups under its raw site id.
	orphan := domain.EnrichedObservation{
		SiteID:        "X-id",
		ParameterCode: "00010",
		Value:         fp(4.0),
		Date:          day(2022, 3, 19),
		YearMonth:     "2022-03",
	}
	observations = append(observations, orphan)

	tbl := Coverage(observations, sites, []string{"00010", "62854"})

	t.Run("pivoted shape with requested column order", func(t *testing.T) {
		names := make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			names[i] = c.Name
		}
		expected := []string{"short_id", "name", "temperature", "total nitrogen", "depths_sampled"}
		assert.Empty(t, cmp.Diff(expected, names))
	})

	t.Run("row counts include rows with missing values", func(t *testing.T) {
		require.Len(t, tbl.Rows, 3)
		assert.Equal(t, 2, tbl.Cell(0, "temperature"))
		assert.Equal(t, 1, tbl.Cell(0, "total nitrogen"))
	})

	t.Run("column sums equal raw per-parameter row counts", func(t *testing.T) {
		sum := func(column string) int {
			total := 0
			for i := range tbl.Rows {
				if n, ok := tbl.Cell(i, column).(int); ok {
					total += n
				}
			}
			return total
		}
		assert.Equal(t, 4, sum("temperature"))
		assert.Equal(t, 1, sum("total nitrogen"))
	})

	t.Run("empty combinations are absent markers", func(t *testing.T) {
		assert.Nil(t, tbl.Cell(1, "total nitrogen"), "SA-02 never sampled total nitrogen")
		assert.NotEqual(t, 0, tbl.Cell(1, "total nitrogen"))
	})

	t.Run("distinct well depths joined per short id", func(t *testing.T) {
		assert.Equal(t, 2, tbl.Cell(0, "depths_sampled"))
		assert.Equal(t, 0, tbl.Cell(1, "depths_sampled"), "site records without depth count zero")
		assert.Nil(t, tbl.Cell(2, "depths_sampled"), "no site records at all")
	})

	t.Run("unknown parameter code keeps numeric column", func(t *testing.T) {
		rows := []domain.EnrichedObservation{enriched("SA-01", "99999", fp(1.0), day(2022, 3, 16))}
		tbl := Coverage(rows, sites, []string{"00010"})
		assert.NotEqual(t, -1, tbl.ColumnIndex("99999"))
		assert.Equal(t, 1, tbl.Cell(0, "99999"))
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"single", []float64{4.2}, 4.2},
		{"odd count", []float64{9, 1, 5}, 5},
		{"even count midpoint", []float64{1, 2, 3, 10}, 2.5},
		{"unsorted input", []float64{5, 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, median(tt.values))
		})
	}
}
