package domain

import (
	"fmt"
	"math"
	"strings"
)

// Display categories assigned by classification.
const (
	SiteTypeMultilevelSampler = "multilevel sampler (MLS)"
	SiteTypeWellCluster       = "well cluster"
	SiteTypeWaterTableWell    = "water-table well"
	SiteTypeSurfaceWaterPond  = "surface-water pond"
)

// Raw agency site-type codes mapped by the classifier.
const (
	typeCodeGroundwater = "GW"
	typeCodeLake        = "LK"
)

// Site is one monitoring location (well, cluster member, or surface-water
// point) with fixed metadata from the site service. Values are immutable
// after creation; classification and short-id derivation return new slices.
type Site struct {
	ID             string
	Agency         string
	Name           string
	TypeCode       string // raw agency site-type code, e.g. "GW", "LK"
	Type           string // display category after classification
	Latitude       float64
	Longitude      float64
	CoordDatum     string
	Elevation      *float64 // land-surface elevation, feet above datum
	ElevationDatum string
	WellDepth      *float64 // feet below land surface, nil for surface sites

	ShortID    string // fixed-length name prefix shared by related records
	DepthCount int    // number of site records sharing ShortID
}

// ScreenElevation derives the sampling-screen elevation as land-surface
// elevation minus well depth. Nil unless both fields are present.
func (s Site) ScreenElevation() *float64 {
	if s.Elevation == nil || s.WellDepth == nil {
		return nil
	}
	v := *s.Elevation - *s.WellDepth
	return &v
}

// BoundingBox frames a site query in decimal degrees.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Validate rejects malformed boxes before any remote query is issued.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.West, b.South, b.East, b.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounding box coordinate not finite: %w", ErrInvalidInput)
		}
	}
	if b.West < -180 || b.West > 180 || b.East < -180 || b.East > 180 {
		return fmt.Errorf("bounding box longitude outside [-180,180]: %w", ErrInvalidInput)
	}
	if b.South < -90 || b.South > 90 || b.North < -90 || b.North > 90 {
		return fmt.Errorf("bounding box latitude outside [-90,90]: %w", ErrInvalidInput)
	}
	if b.West >= b.East {
		return fmt.Errorf("bounding box west %v not left of east %v: %w", b.West, b.East, ErrInvalidInput)
	}
	if b.South >= b.North {
		return fmt.Errorf("bounding box south %v not below north %v: %w", b.South, b.North, ErrInvalidInput)
	}
	return nil
}

// String renders the box in the service's west,south,east,north query order.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.West, b.South, b.East, b.North)
}

// ClassifierRule pairs a predicate with the category it assigns. Rules are
// evaluated top-down; the first match wins.
type ClassifierRule struct {
	Matches  func(Site) bool
	Category string
}

// ClassifierRules builds the ordered rule list. The multilevel-sampler rule
// precedes the cluster rule: a sampler installed at a cluster site reports as
// a sampler. Name matching is case-insensitive. The agency-code rules read
// the raw TypeCode, never the rewritten display type, so reclassifying an
// already classified site changes nothing.
func ClassifierRules(samplerToken string, clusterTokens []string) []ClassifierRule {
	return []ClassifierRule{
		{Matches: nameContains(samplerToken), Category: SiteTypeMultilevelSampler},
		{Matches: nameContainsAny(clusterTokens), Category: SiteTypeWellCluster},
		{Matches: typeCodeIs(typeCodeGroundwater), Category: SiteTypeWaterTableWell},
		{Matches: typeCodeIs(typeCodeLake), Category: SiteTypeSurfaceWaterPond},
	}
}

func nameContains(token string) func(Site) bool {
	token = strings.ToUpper(strings.TrimSpace(token))
	return func(s Site) bool {
		if token == "" {
			return false
		}
		return strings.Contains(strings.ToUpper(s.Name), token)
	}
}

func nameContainsAny(tokens []string) func(Site) bool {
	upper := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			upper = append(upper, t)
		}
	}
	return func(s Site) bool {
		name := strings.ToUpper(s.Name)
		for _, t := range upper {
			if strings.Contains(name, t) {
				return true
			}
		}
		return false
	}
}

func typeCodeIs(code string) func(Site) bool {
	return func(s Site) bool { return s.TypeCode == code }
}

// Classify rewrites the site's display type using the first matching rule.
// Sites matching no rule pass through unchanged.
func Classify(site Site, rules []ClassifierRule) Site {
	for _, r := range rules {
		if r.Matches(site) {
			site.Type = r.Category
			return site
		}
	}
	return site
}

// ClassifySites classifies every site, returning a new slice. The input is
// never mutated.
func ClassifySites(sites []Site, rules []ClassifierRule) []Site {
	out := make([]Site, len(sites))
	for i, s := range sites {
		out[i] = Classify(s, rules)
	}
	return out
}

// AssignShortIDs derives each site's short id as the first n runes of its
// trimmed name and counts how many site records share that prefix. Multi-depth
// installations carry one record per sampling depth under a common prefix, so
// the count doubles as a sampled-depth count. Returns a new slice.
func AssignShortIDs(sites []Site, n int) []Site {
	if n <= 0 {
		n = 5
	}
	out := make([]Site, len(sites))
	counts := make(map[string]int, len(sites))
	for i, s := range sites {
		s.ShortID = shortID(s.Name, n)
		counts[s.ShortID]++
		out[i] = s
	}
	for i := range out {
		out[i].DepthCount = counts[out[i].ShortID]
	}
	return out
}

func shortID(name string, n int) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}
