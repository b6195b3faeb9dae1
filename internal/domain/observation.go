package domain

import "time"

// Observation is one chemistry sample result as returned by the
// water-quality service. Value is nil when the result field was empty.
type Observation struct {
	SiteID        string
	ParameterCode string
	Value         *float64
	Date          time.Time
	SampleTime    string // clock time of sampling, "HH:MM", often absent
}

// WaterLevelReading is one depth-to-water measurement from the
// groundwater-levels service.
type WaterLevelReading struct {
	SiteID       string
	Date         time.Time
	DepthToWater *float64 // feet below land surface, nil when unreported
}

// YearMonthOf truncates a date to its calendar-month bucket:
// 2022-03-17 → "2022-03". Zero time yields "".
func YearMonthOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}
