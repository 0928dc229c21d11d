// Package iban holds the static IBAN format catalog for the 30 EEA
// countries (EU27 plus Iceland, Liechtenstein and Norway) and the lookup
// utilities built on it.
//
// The catalog is read-only and safe for concurrent use. Lookups never
// fail with an error: an unknown country simply yields the zero result.
package iban

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Format describes the national IBAN shape for one country.
type Format struct {
	CountryCode string
	CountryName string
	Length      int
	Pattern     string // full-IBAN regex fragment, anchored by the caller
	Example     string
}

// formats is keyed by ISO 3166-1 alpha-2 country code. Lengths range from
// 15 (Norway) to 31 (Malta).
var formats = map[string]Format{
	"AT": {"AT", "Austria", 20, `AT\d{2}\d{16}`, "AT611904300234573201"},
	"BE": {"BE", "Belgium", 16, `BE\d{2}\d{12}`, "BE68539007547034"},
	"BG": {"BG", "Bulgaria", 22, `BG\d{2}[A-Z]{4}\d{6}[A-Z0-9]{8}`, "BG80BNBG96611020345678"},
	"CY": {"CY", "Cyprus", 28, `CY\d{2}\d{8}[A-Z0-9]{16}`, "CY17002001280000001200527600"},
	"CZ": {"CZ", "Czechia", 24, `CZ\d{2}\d{20}`, "CZ6508000000192000145399"},
	"DE": {"DE", "Germany", 22, `DE\d{2}\d{18}`, "DE89370400440532013000"},
	"DK": {"DK", "Denmark", 18, `DK\d{2}\d{14}`, "DK5000400440116243"},
	"EE": {"EE", "Estonia", 20, `EE\d{2}\d{16}`, "EE382200221020145685"},
	"ES": {"ES", "Spain", 24, `ES\d{2}\d{20}`, "ES9121000418450200051332"},
	"FI": {"FI", "Finland", 18, `FI\d{2}\d{14}`, "FI2112345600000785"},
	"FR": {"FR", "France", 27, `FR\d{2}\d{10}[A-Z0-9]{11}\d{2}`, "FR1420041010050500013M02606"},
	"GR": {"GR", "Greece", 27, `GR\d{2}\d{7}[A-Z0-9]{16}`, "GR1601101250000000012300695"},
	"HR": {"HR", "Croatia", 21, `HR\d{2}\d{17}`, "HR1210010051863000160"},
	"HU": {"HU", "Hungary", 28, `HU\d{2}\d{24}`, "HU42117730161111101800000000"},
	"IE": {"IE", "Ireland", 22, `IE\d{2}[A-Z]{4}\d{14}`, "IE29AIBK93115212345678"},
	"IS": {"IS", "Iceland", 26, `IS\d{2}\d{22}`, "IS140159260076545510730339"},
	"IT": {"IT", "Italy", 27, `IT\d{2}[A-Z]\d{10}[A-Z0-9]{12}`, "IT60X0542811101000000123456"},
	"LI": {"LI", "Liechtenstein", 21, `LI\d{2}\d{5}[A-Z0-9]{12}`, "LI21088100002324013AA"},
	"LT": {"LT", "Lithuania", 20, `LT\d{2}\d{16}`, "LT121000011101001000"},
	"LU": {"LU", "Luxembourg", 20, `LU\d{2}\d{3}[A-Z0-9]{13}`, "LU280019400644750000"},
	"LV": {"LV", "Latvia", 21, `LV\d{2}[A-Z]{4}[A-Z0-9]{13}`, "LV80BANK0000435195001"},
	"MT": {"MT", "Malta", 31, `MT\d{2}[A-Z]{4}\d{5}[A-Z0-9]{18}`, "MT84MALT011000012345MTLCAST001S"},
	"NL": {"NL", "Netherlands", 18, `NL\d{2}[A-Z]{4}\d{10}`, "NL91ABNA0417164300"},
	"NO": {"NO", "Norway", 15, `NO\d{2}\d{11}`, "NO9386011117947"},
	"PL": {"PL", "Poland", 28, `PL\d{2}\d{24}`, "PL61109010140000071219812874"},
	"PT": {"PT", "Portugal", 25, `PT\d{2}\d{21}`, "PT50000201231234567890154"},
	"RO": {"RO", "Romania", 24, `RO\d{2}[A-Z]{4}[A-Z0-9]{16}`, "RO49AAAA1B31007593840000"},
	"SE": {"SE", "Sweden", 24, `SE\d{2}\d{20}`, "SE4550000000058398257466"},
	"SI": {"SI", "Slovenia", 19, `SI\d{2}\d{15}`, "SI56263300012039086"},
	"SK": {"SK", "Slovakia", 24, `SK\d{2}\d{20}`, "SK3112000000198742637541"},
}

// Normalize strips whitespace and upper-cases an IBAN so catalog lookups
// and comparisons work on paper-formatted input ("de89 3704 ...").
func Normalize(iban string) string {
	var b strings.Builder
	b.Grow(len(iban))
	for _, r := range iban {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// DetectCountry returns the catalog country code for an IBAN, or "" if
// the first two characters do not name a supported country.
func DetectCountry(iban string) string {
	normalized := Normalize(iban)
	if len(normalized) < 2 {
		return ""
	}
	code := normalized[:2]
	if _, ok := formats[code]; !ok {
		return ""
	}
	return code
}

// CountryName returns the human-readable country name for an IBAN, or ""
// for unknown countries.
func CountryName(iban string) string {
	code := DetectCountry(iban)
	if code == "" {
		return ""
	}
	return formats[code].CountryName
}

// ValidateLength reports whether the IBAN's length matches the catalog
// entry for its country. Unknown countries validate as false.
func ValidateLength(iban string) bool {
	normalized := Normalize(iban)
	code := DetectCountry(normalized)
	if code == "" {
		return false
	}
	return len(normalized) == formats[code].Length
}

// ExampleFor returns the canonical example IBAN for a country code, or ""
// if the country is not cataloged.
func ExampleFor(countryCode string) string {
	f, ok := formats[strings.ToUpper(countryCode)]
	if !ok {
		return ""
	}
	return f.Example
}

// SupportedCountries returns all cataloged country codes, sorted.
func SupportedCountries() []string {
	codes := make([]string, 0, len(formats))
	for code := range formats {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FormatFor returns the catalog entry for a country code.
func FormatFor(countryCode string) (Format, bool) {
	f, ok := formats[strings.ToUpper(countryCode)]
	return f, ok
}

var (
	combinedOnce sync.Once
	combinedRe   *regexp.Regexp
)

// CombinedPattern returns a single alternation pattern matching any
// cataloged country's IBAN shape, each country wrapped in a non-capturing
// group. It allows single-pass extraction of any EEA IBAN from free text.
func CombinedPattern() string {
	parts := make([]string, 0, len(formats))
	for _, code := range SupportedCountries() {
		parts = append(parts, "(?:"+formats[code].Pattern+")")
	}
	return strings.Join(parts, "|")
}

// Extract returns every IBAN-shaped substring found in text, normalized.
// Malformed input simply yields no matches.
func Extract(text string) []string {
	combinedOnce.Do(func() {
		combinedRe = regexp.MustCompile(CombinedPattern())
	})
	return combinedRe.FindAllString(Normalize(text), -1)
}
