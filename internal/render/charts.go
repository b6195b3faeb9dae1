package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lerban/gw-data-viz/internal/domain"
	"github.com/lerban/gw-data-viz/internal/pipeline"
	"github.com/lerban/gw-data-viz/internal/report"
)

const (
	chartWidth  = "1100px"
	chartHeight = "560px"
)

// Charts writes self-contained HTML charts into a directory: one time-series
// line chart per parameter from the monthly means, and one page of vertical
// profile scatters per window.
type Charts struct {
	dir    string
	logger *slog.Logger
}

// NewCharts creates a chart renderer writing HTML files under dir.
func NewCharts(dir string, logger *slog.Logger) *Charts {
	return &Charts{dir: dir, logger: logger}
}

// Render builds charts from the aggregate tables present in the result.
// Results without the relevant tables produce no files and no error.
func (c *Charts) Render(ctx context.Context, result *pipeline.Result) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	written := 0
	if t := result.Table("timeseries_mean"); t != nil {
		n, err := c.timeSeriesCharts(t, result.Survey)
		if err != nil {
			return err
		}
		written += n
	}

	for i := range result.Tables {
		t := &result.Tables[i]
		if !strings.HasPrefix(t.Name, "profile_") || len(t.Rows) == 0 {
			continue
		}
		if err := c.profileCharts(t, result.Survey); err != nil {
			return err
		}
		written++
	}

	c.logger.Info("charts written", "dir", c.dir, "files", written)
	return nil
}

// timeSeriesCharts writes one line chart per parameter: months on the x axis,
// one series per short id, gaps where a site has no mean for a month.
func (c *Charts) timeSeriesCharts(t *report.Table, survey string) (int, error) {
	siteIdx := t.ColumnIndex("short_id")
	monthIdx := t.ColumnIndex("year_month")
	paramIdx := t.ColumnIndex("parameter")
	valueIdx := t.ColumnIndex("value")
	if siteIdx < 0 || monthIdx < 0 || paramIdx < 0 || valueIdx < 0 {
		return 0, fmt.Errorf("table %s lacks time-series columns", t.Name)
	}

	type cell struct{ site, month string }
	series := map[string]map[cell]float64{}
	for _, row := range t.Rows {
		param, _ := row[paramIdx].(string)
		site, _ := row[siteIdx].(string)
		month, _ := row[monthIdx].(string)
		value, ok := row[valueIdx].(float64)
		if !ok || param == "" || site == "" || month == "" {
			continue
		}
		if series[param] == nil {
			series[param] = map[cell]float64{}
		}
		series[param][cell{site, month}] = value
	}

	written := 0
	for _, param := range sortedKeys(series) {
		points := series[param]
		siteSet := map[string]bool{}
		monthSet := map[string]bool{}
		for k := range points {
			siteSet[k.site] = true
			monthSet[k.month] = true
		}
		sites := sortedKeys(siteSet)
		months := sortedKeys(monthSet)

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: "monthly mean " + param, Width: chartWidth, Height: chartHeight}),
			charts.WithTitleOpts(opts.Title{Title: "Monthly mean " + param, Subtitle: "survey " + survey}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "month"}),
			charts.WithYAxisOpts(opts.YAxis{Name: axisLabel(param)}),
		)
		line.SetXAxis(months)
		for _, site := range sites {
			data := make([]opts.LineData, len(months))
			for i, m := range months {
				if v, ok := points[cell{site: site, month: m}]; ok {
					data[i] = opts.LineData{Value: v}
				}
			}
			line.AddSeries(site, data)
		}

		if err := c.writeChart(timeSeriesFileName(param), line); err != nil {
			return written, fmt.Errorf("render time-series chart for %s: %w", param, err)
		}
		written++
	}
	return written, nil
}

// profileCharts writes one page per window: a scatter per parameter plotting
// measured value against screen elevation, one series per short id.
func (c *Charts) profileCharts(t *report.Table, survey string) error {
	window := strings.TrimPrefix(t.Name, "profile_")
	siteIdx := t.ColumnIndex("short_id")
	paramIdx := t.ColumnIndex("parameter")
	valueIdx := t.ColumnIndex("value")
	elevIdx := t.ColumnIndex("screen_elevation")
	if siteIdx < 0 || paramIdx < 0 || valueIdx < 0 || elevIdx < 0 {
		return fmt.Errorf("table %s lacks profile columns", t.Name)
	}

	points := map[string]map[string][]opts.ScatterData{}
	for _, row := range t.Rows {
		param, _ := row[paramIdx].(string)
		site, _ := row[siteIdx].(string)
		value, vok := row[valueIdx].(float64)
		elev, eok := row[elevIdx].(float64)
		if param == "" || site == "" || !vok || !eok {
			continue
		}
		if points[param] == nil {
			points[param] = map[string][]opts.ScatterData{}
		}
		points[param][site] = append(points[param][site],
			opts.ScatterData{Value: []interface{}{value, elev}})
	}

	page := components.NewPage()
	for _, param := range sortedKeys(points) {
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "760px", Height: "640px"}),
			charts.WithTitleOpts(opts.Title{Title: "Profile " + param, Subtitle: "window " + window + ", survey " + survey}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: axisLabel(param), NameLocation: "middle", NameGap: 30}),
			charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "screen elevation (ft)", NameLocation: "middle", NameGap: 40}),
		)
		for _, site := range sortedKeys(points[param]) {
			scatter.AddSeries(site, points[param][site],
				charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
		}
		page.AddCharts(scatter)
	}

	if err := c.writeChart("profiles_"+fileName(window)+".html", page); err != nil {
		return fmt.Errorf("render profile charts for %s: %w", window, err)
	}
	return nil
}

type chartRenderer interface {
	Render(w io.Writer) error
}

func (c *Charts) writeChart(name string, chart chartRenderer) error {
	f, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return err
	}
	if err := chart.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// timeSeriesFileName keys chart files by parameter code so names with
// non-ASCII symbols (δ²H) stay portable.
func timeSeriesFileName(param string) string {
	key := domain.ParameterCode(param)
	if key == "" {
		key = fileName(param)
	}
	return "timeseries_" + key + ".html"
}

// axisLabel decorates a parameter name with its unit when known.
func axisLabel(param string) string {
	unit := domain.ParameterUnit(domain.ParameterCode(param))
	if unit == "" || unit == "-" {
		return param
	}
	return param + " (" + unit + ")"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
