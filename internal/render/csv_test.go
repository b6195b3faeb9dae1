package render

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerban/gw-data-viz/internal/report"
)

func TestCSV_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewCSV(dir, testLogger())

	require.NoError(t, r.Render(context.Background(), newResult(sitesFixture())))

	f, err := os.Open(filepath.Join(dir, "sites.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"short_id", "elevation", "depth_count", "date"},
		{"SA-01", "980.5", "3", "2022-03-17"},
		{"POND", "", "1", ""},
	}
	assert.Equal(t, want, records)
}

func TestCSV_Render_SanitizesFileNames(t *testing.T) {
	dir := t.TempDir()
	r := NewCSV(dir, testLogger())

	table := report.Table{
		Name:    "weird table/name",
		Columns: []report.Column{{Name: "a", Type: report.ColumnString}},
		Rows:    [][]any{{"x"}},
	}
	require.NoError(t, r.Render(context.Background(), newResult(table)))

	_, err := os.Stat(filepath.Join(dir, "weird_table_name.csv"))
	require.NoError(t, err)
}

func TestCSV_Render_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	r := NewCSV(dir, testLogger())

	require.NoError(t, r.Render(context.Background(), newResult(sitesFixture())))

	_, err := os.Stat(filepath.Join(dir, "sites.csv"))
	require.NoError(t, err)
}

func TestCSV_Render_DirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := NewCSV(path, testLogger())
	err := r.Render(context.Background(), newResult(sitesFixture()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output directory")
}
