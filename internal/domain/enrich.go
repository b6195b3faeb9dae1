package domain

import "time"

// NameOverrides canonicalizes known-bad display names, keyed by raw site id.
// Each entry is a data-quality fix-up for one specific station and must not
// be generalized into a naming rule.
type NameOverrides map[string]string

// ApplyNameOverrides rewrites display names for sites present in the
// override table. Returns a new slice; the input is never mutated.
func ApplyNameOverrides(sites []Site, overrides NameOverrides) []Site {
	out := make([]Site, len(sites))
	for i, s := range sites {
		if name, ok := overrides[s.ID]; ok {
			s.Name = name
		}
		out[i] = s
	}
	return out
}

// EnrichedObservation is a chemistry observation carrying its site's
// metadata. Site fields stay absent markers when the observation's site id
// was not in the located set. The json tags define the export payload.
type EnrichedObservation struct {
	SiteID        string    `json:"site_id"`
	SiteName      string    `json:"site_name,omitempty"`
	ShortID       string    `json:"short_id,omitempty"`
	SiteType      string    `json:"site_type,omitempty"`
	ParameterCode string    `json:"parameter_code"`
	Parameter     string    `json:"parameter,omitempty"` // semantic name, "" for codes outside the fixed table
	Value         *float64  `json:"value"`
	Date          time.Time `json:"date"`
	SampleTime    string    `json:"sample_time,omitempty"`
	YearMonth     string    `json:"year_month"`
	Latitude      *float64  `json:"lat,omitempty"`
	Longitude     *float64  `json:"lon,omitempty"`
	WellDepth     *float64  `json:"well_depth,omitempty"`
}

// EnrichedLevel is a water-level reading carrying site metadata. Readings
// with a missing depth are excluded before joining.
type EnrichedLevel struct {
	SiteID       string
	SiteName     string
	ShortID      string
	DepthToWater float64  // feet below land surface
	Elevation    *float64 // water-table elevation, land surface minus depth
	Date         time.Time
	YearMonth    string
}

// JoinStats counts rows retained and excluded by a join pass.
type JoinStats struct {
	Joined       int
	UnknownSite  int // rows kept with absent site metadata
	MissingDepth int // level rows dropped for a null depth value
}

func siteIndex(sites []Site) map[string]Site {
	idx := make(map[string]Site, len(sites))
	for _, s := range sites {
		idx[s.ID] = s
	}
	return idx
}

// JoinObservations right-joins site metadata onto chemistry rows: every
// observation row is retained, sites with no observations contribute
// nothing. Rows whose site id is unknown keep absent site fields and are
// counted in the stats. Derives the year-month bucket and the semantic
// parameter name.
func JoinObservations(observations []Observation, sites []Site) ([]EnrichedObservation, JoinStats) {
	idx := siteIndex(sites)
	out := make([]EnrichedObservation, 0, len(observations))
	var stats JoinStats
	for _, obs := range observations {
		row := EnrichedObservation{
			SiteID:        obs.SiteID,
			ParameterCode: obs.ParameterCode,
			Parameter:     ParameterName(obs.ParameterCode),
			Value:         obs.Value,
			Date:          obs.Date,
			SampleTime:    obs.SampleTime,
			YearMonth:     YearMonthOf(obs.Date),
		}
		if site, ok := idx[obs.SiteID]; ok {
			row.SiteName = site.Name
			row.ShortID = site.ShortID
			row.SiteType = site.Type
			lat, lon := site.Latitude, site.Longitude
			row.Latitude = &lat
			row.Longitude = &lon
			row.WellDepth = site.WellDepth
		} else {
			stats.UnknownSite++
		}
		stats.Joined++
		out = append(out, row)
	}
	return out, stats
}

// JoinLevels right-joins site metadata onto water-level rows. Rows with a
// null depth are dropped before joining and counted. Where the site's
// land-surface elevation is known, the water-table elevation is derived as
// elevation minus depth-to-water.
func JoinLevels(levels []WaterLevelReading, sites []Site) ([]EnrichedLevel, JoinStats) {
	idx := siteIndex(sites)
	out := make([]EnrichedLevel, 0, len(levels))
	var stats JoinStats
	for _, lvl := range levels {
		if lvl.DepthToWater == nil {
			stats.MissingDepth++
			continue
		}
		row := EnrichedLevel{
			SiteID:       lvl.SiteID,
			DepthToWater: *lvl.DepthToWater,
			Date:         lvl.Date,
			YearMonth:    YearMonthOf(lvl.Date),
		}
		if site, ok := idx[lvl.SiteID]; ok {
			row.SiteName = site.Name
			row.ShortID = site.ShortID
			if site.Elevation != nil {
				elev := *site.Elevation - *lvl.DepthToWater
				row.Elevation = &elev
			}
		} else {
			stats.UnknownSite++
		}
		stats.Joined++
		out = append(out, row)
	}
	return out, stats
}
