// Package domain models groundwater and surface-water monitoring data from
// NWIS-style hydrological services.
//
// # Data Source
//
// Three read-only services cover a study area:
//
//	site service       - monitoring sites by bounding box, fixed metadata
//	water quality      - chemistry sample results by site and parameter code
//	groundwater levels - depth-to-water readings by site
//
// All respond in tab-delimited RDB format, fetched and parsed by
// internal/nwis. This package holds the value types and the pure
// transformations between them; it performs no I/O.
//
// # Site Classification
//
// Raw sites carry an agency type code ("GW" groundwater, "LK" lake) and a
// free-text station name. Display categories come from an ordered rule list
// evaluated top-down, first match wins:
//
//	1. name contains the multilevel-sampler token → "multilevel sampler (MLS)"
//	2. name contains a cluster substring          → "well cluster"
//	3. type code "GW"                             → "water-table well"
//	4. type code "LK"                             → "surface-water pond"
//
// A multilevel sampler installed at a cluster site reports as a sampler, so
// rule 1 must precede rule 2. Rules read the raw name and type code only,
// never the rewritten category, which makes reclassification idempotent.
//
// # Parameter Codes
//
// Chemistry results identify the measured quantity by a five-digit parameter
// code. The fixed table in [Parameters] covers the study's analyte set;
// codes outside it keep their numeric form and get no semantic name.
//
// # Short IDs
//
// Station names at multi-depth installations share a fixed-length prefix,
// one site record per sampling depth. That prefix becomes the short id, the
// grouping key for every aggregate view, and the count of records sharing it
// doubles as a sampled-depth count. See [AssignShortIDs].
//
// # Absent Values
//
// The services report missing numerics as empty RDB fields. Those surface
// here as nil pointers and stay nil through joins, so downstream consumers
// can tell "no data" from "measured zero".
package domain
