package domain

import "fmt"

// Parameter is one entry of the fixed parameter-code table.
type Parameter struct {
	Code string
	Name string
	Unit string
}

// Parameters is the fixed table of parameter codes this pipeline understands,
// in canonical request order. Codes, names, and units mirror the NWIS
// definitions for the study's analyte set.
var Parameters = []Parameter{
	{Code: "00010", Name: "temperature", Unit: "°C"},
	{Code: "00095", Name: "specific conductance", Unit: "µS/cm"},
	{Code: "00400", Name: "pH", Unit: "-"},
	{Code: "00300", Name: "dissolved oxygen", Unit: "mg/L"},
	{Code: "00608", Name: "ammonium/ammonia-N", Unit: "mg/L"},
	{Code: "00613", Name: "nitrite-N", Unit: "mg/L"},
	{Code: "00618", Name: "nitrate-N", Unit: "mg/L"},
	{Code: "00631", Name: "nitrite+nitrate-N", Unit: "mg/L"},
	{Code: "62854", Name: "total nitrogen", Unit: "mg/L"},
	{Code: "00671", Name: "orthophosphate-P", Unit: "mg/L"},
	{Code: "82082", Name: "δ²H", Unit: "‰"},
	{Code: "82085", Name: "δ¹⁸O", Unit: "‰"},
}

// Codes consumed directly by the nitrogen-composition aggregate.
const (
	CodeAmmoniaN       = "00608"
	CodeNitriteNitrate = "00631"
	CodeTotalNitrogen  = "62854"
)

var (
	parameterByCode = indexParametersByCode()
	parameterByName = indexParametersByName()
)

func indexParametersByCode() map[string]Parameter {
	m := make(map[string]Parameter, len(Parameters))
	for _, p := range Parameters {
		m[p.Code] = p
	}
	return m
}

func indexParametersByName() map[string]Parameter {
	m := make(map[string]Parameter, len(Parameters))
	for _, p := range Parameters {
		m[p.Name] = p
	}
	return m
}

// ParameterName translates a numeric parameter code to its semantic name.
// Codes outside the fixed table return "" and keep their numeric form only.
func ParameterName(code string) string {
	return parameterByCode[code].Name
}

// ParameterUnit returns the measurement unit for a code, "" when unknown.
func ParameterUnit(code string) string {
	return parameterByCode[code].Unit
}

// ParameterCode reverses ParameterName. Unknown names return "".
func ParameterCode(name string) string {
	return parameterByName[name].Code
}

// ParameterLabel returns the semantic name for a code, falling back to the
// numeric code itself when the table has no entry. Aggregates group on this.
func ParameterLabel(code string) string {
	if name := ParameterName(code); name != "" {
		return name
	}
	return code
}

// DefaultParameterCodes returns the full fixed code set in table order.
func DefaultParameterCodes() []string {
	codes := make([]string, len(Parameters))
	for i, p := range Parameters {
		codes[i] = p.Code
	}
	return codes
}

// ValidateParameterCodes rejects requests containing codes outside the fixed
// table. Runs before any remote call is issued.
func ValidateParameterCodes(codes []string) error {
	if len(codes) == 0 {
		return fmt.Errorf("no parameter codes requested: %w", ErrInvalidInput)
	}
	for _, code := range codes {
		if _, ok := parameterByCode[code]; !ok {
			return fmt.Errorf("unknown parameter code %q: %w", code, ErrInvalidInput)
		}
	}
	return nil
}
