package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerban/gw-data-viz/internal/report"
)

func timeSeriesFixture() report.Table {
	return report.Table{
		Name: "timeseries_mean",
		Columns: []report.Column{
			{Name: "short_id", Type: report.ColumnString},
			{Name: "name", Type: report.ColumnString},
			{Name: "year_month", Type: report.ColumnString},
			{Name: "parameter", Type: report.ColumnString},
			{Name: "value", Type: report.ColumnFloat},
			{Name: "lat", Type: report.ColumnFloat, Unit: "°"},
			{Name: "lon", Type: report.ColumnFloat, Unit: "°"},
			{Name: "well_depth", Type: report.ColumnFloat, Unit: "ft"},
		},
		Rows: [][]any{
			{"SA-01", "SA-01 MLS", "2021-11", "total nitrogen", 2.35, 45.577, -93.61, 25.5},
			{"SA-01", "SA-01 MLS", "2022-03", "total nitrogen", 2.1, 45.577, -93.61, 25.5},
			{"SA-02", "SA-02 WT", "2022-03", "total nitrogen", 1.9, 45.58, -93.6, nil},
			{"SA-01", "SA-01 MLS", "2022-03", "temperature", 8.4, 45.577, -93.61, 25.5},
		},
	}
}

func profileFixture() report.Table {
	sampled := time.Date(2022, 3, 17, 0, 0, 0, 0, time.UTC)
	return report.Table{
		Name: "profile_2022-03",
		Columns: []report.Column{
			{Name: "short_id", Type: report.ColumnString},
			{Name: "name", Type: report.ColumnString},
			{Name: "parameter", Type: report.ColumnString},
			{Name: "value", Type: report.ColumnFloat},
			{Name: "screen_elevation", Type: report.ColumnFloat, Unit: "ft"},
			{Name: "date", Type: report.ColumnDate},
		},
		Rows: [][]any{
			{"SA-01", "SA-01 MLS PORT 1", "total nitrogen", 2.4, 970.0, sampled},
			{"SA-01", "SA-01 MLS PORT 2", "total nitrogen", 1.7, 955.0, sampled},
		},
	}
}

func TestCharts_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewCharts(dir, testLogger())

	require.NoError(t, r.Render(context.Background(), newResult(timeSeriesFixture(), profileFixture())))

	tn, err := os.ReadFile(filepath.Join(dir, "timeseries_62854.html"))
	require.NoError(t, err)
	assert.Contains(t, string(tn), "Monthly mean total nitrogen")
	assert.Contains(t, string(tn), "SA-01")
	assert.Contains(t, string(tn), "SA-02")
	assert.Contains(t, string(tn), "2021-11")

	_, err = os.Stat(filepath.Join(dir, "timeseries_00010.html"))
	require.NoError(t, err, "temperature rows should produce their own chart")

	prof, err := os.ReadFile(filepath.Join(dir, "profiles_2022-03.html"))
	require.NoError(t, err)
	assert.Contains(t, string(prof), "Profile total nitrogen")
	assert.Contains(t, string(prof), "SA-01")
}

func TestCharts_Render_NoTables(t *testing.T) {
	dir := t.TempDir()
	r := NewCharts(dir, testLogger())

	require.NoError(t, r.Render(context.Background(), newResult()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCharts_Render_SkipsEmptyProfiles(t *testing.T) {
	dir := t.TempDir()
	r := NewCharts(dir, testLogger())

	empty := profileFixture()
	empty.Rows = nil

	require.NoError(t, r.Render(context.Background(), newResult(empty)))

	_, err := os.Stat(filepath.Join(dir, "profiles_2022-03.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestTimeSeriesFileName(t *testing.T) {
	assert.Equal(t, "timeseries_62854.html", timeSeriesFileName("total nitrogen"))
	assert.Equal(t, "timeseries_82082.html", timeSeriesFileName("δ²H"))
	assert.Equal(t, "timeseries_99999.html", timeSeriesFileName("99999"))
}
