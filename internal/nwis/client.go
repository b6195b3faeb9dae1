// Package nwis queries NWIS-style hydrological services (monitoring sites,
// water-quality samples, groundwater levels) and parses their tab-delimited
// RDB responses into domain values.
package nwis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lerban/gw-data-viz/internal/domain"
)

// Default service endpoints. All three speak the RDB format.
const (
	DefaultSitesURL        = "https://waterservices.usgs.gov/nwis/site/"
	DefaultWaterQualityURL = "https://nwis.waterdata.usgs.gov/nwis/qwdata"
	DefaultLevelsURL       = "https://waterservices.usgs.gov/nwis/gwlevels/"
)

// sitesPerRequest caps how many site ids one request carries. Longer lists
// are split into sequential requests and the results concatenated in request
// order.
const sitesPerRequest = 50

// Endpoints holds the three service base URLs.
type Endpoints struct {
	Sites        string
	WaterQuality string
	Levels       string
}

// DefaultEndpoints returns the public service URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Sites:        DefaultSitesURL,
		WaterQuality: DefaultWaterQualityURL,
		Levels:       DefaultLevelsURL,
	}
}

// Client retrieves sites and observations from NWIS-style services. Calls
// are synchronous; a transport or service failure propagates to the caller
// unmodified and aborts the run.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     *slog.Logger
}

// NewClient creates a client with the given endpoints and request timeout.
func NewClient(endpoints Endpoints, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoints:  endpoints,
		logger:     logger,
	}
}

// Sites returns all monitoring sites inside the bounding box with expanded
// metadata. The box is validated before any request; a box matching no sites
// yields an empty result, not an error.
func (c *Client) Sites(ctx context.Context, box domain.BoundingBox) ([]domain.Site, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{
		"format":     {"rdb"},
		"bBox":       {box.String()},
		"siteOutput": {"expanded"},
		"siteStatus": {"all"},
	}
	rows, err := c.fetchRDB(ctx, c.endpoints.Sites, params)
	if err != nil {
		return nil, fmt.Errorf("site lookup: %w", err)
	}

	sites := make([]domain.Site, 0, len(rows))
	for _, row := range rows {
		sites = append(sites, domain.Site{
			ID:             row["site_no"],
			Agency:         row["agency_cd"],
			Name:           row["station_nm"],
			TypeCode:       row["site_tp_cd"],
			Type:           row["site_tp_cd"],
			Latitude:       floatOrZero(row["dec_lat_va"]),
			Longitude:      floatOrZero(row["dec_long_va"]),
			CoordDatum:     row["dec_coord_datum_cd"],
			Elevation:      floatPtr(row["alt_va"]),
			ElevationDatum: row["alt_datum_cd"],
			WellDepth:      floatPtr(row["well_depth_va"]),
		})
	}
	c.logger.Debug("site lookup complete", "bbox", box.String(), "sites", len(sites))
	return sites, nil
}

// Chemistry returns chemistry sample rows for the given sites and parameter
// codes. Codes are validated against the fixed table before any request. An
// empty site list yields no rows and no request; a site with no matching
// records contributes zero rows.
func (c *Client) Chemistry(ctx context.Context, siteIDs, parameterCodes []string) ([]domain.Observation, error) {
	if err := domain.ValidateParameterCodes(parameterCodes); err != nil {
		return nil, err
	}
	if len(siteIDs) == 0 {
		return nil, nil
	}

	var observations []domain.Observation
	for _, chunk := range chunkIDs(siteIDs, sitesPerRequest) {
		params := url.Values{
			"format":      {"rdb"},
			"sites":       {strings.Join(chunk, ",")},
			"parameterCd": {strings.Join(parameterCodes, ",")},
		}
		rows, err := c.fetchRDB(ctx, c.endpoints.WaterQuality, params)
		if err != nil {
			return nil, fmt.Errorf("chemistry fetch: %w", err)
		}
		for _, row := range rows {
			date, ok := parseDate(row["sample_dt"])
			if !ok {
				c.logger.Debug("skipping chemistry row with unparseable date",
					"site", row["site_no"], "date", row["sample_dt"])
				continue
			}
			observations = append(observations, domain.Observation{
				SiteID:        row["site_no"],
				ParameterCode: row["parm_cd"],
				Value:         floatPtr(row["result_va"]),
				Date:          date,
				SampleTime:    row["sample_tm"],
			})
		}
	}
	c.logger.Debug("chemistry fetch complete", "sites", len(siteIDs), "rows", len(observations))
	return observations, nil
}

// WaterLevels returns depth-to-water readings for the given sites. An empty
// site list yields no rows and no request.
func (c *Client) WaterLevels(ctx context.Context, siteIDs []string) ([]domain.WaterLevelReading, error) {
	if len(siteIDs) == 0 {
		return nil, nil
	}

	var readings []domain.WaterLevelReading
	for _, chunk := range chunkIDs(siteIDs, sitesPerRequest) {
		params := url.Values{
			"format": {"rdb"},
			"sites":  {strings.Join(chunk, ",")},
		}
		rows, err := c.fetchRDB(ctx, c.endpoints.Levels, params)
		if err != nil {
			return nil, fmt.Errorf("water level fetch: %w", err)
		}
		for _, row := range rows {
			date, ok := parseDate(row["lev_dt"])
			if !ok {
				c.logger.Debug("skipping level row with unparseable date",
					"site", row["site_no"], "date", row["lev_dt"])
				continue
			}
			readings = append(readings, domain.WaterLevelReading{
				SiteID:       row["site_no"],
				Date:         date,
				DepthToWater: floatPtr(row["lev_va"]),
			})
		}
	}
	c.logger.Debug("water level fetch complete", "sites", len(siteIDs), "rows", len(readings))
	return readings, nil
}

func (c *Client) fetchRDB(ctx context.Context, baseURL string, params url.Values) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	// The services answer 404 when nothing matches the query; that is an
	// empty result, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("service error: status %d: %s", resp.StatusCode, body)
	}

	return ParseRDB(resp.Body)
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// floatPtr parses a numeric field, mapping empty or malformed values to nil
// so they stay absent markers downstream.
func floatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDate accepts full dates and falls back to month precision, which the
// levels service reports for some historic readings.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
