package videos

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Region is a supported chart region.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Regions lists the regions offered by the CLI and HTTP facade, in display
// order. Any other ISO 3166-1 alpha-2 code is still accepted upstream.
var Regions = []Region{
	{"US", "United States"},
	{"CA", "Canada"},
	{"GB", "United Kingdom"},
	{"DE", "Germany"},
	{"FR", "France"},
	{"IN", "India"},
	{"JP", "Japan"},
	{"KR", "South Korea"},
	{"MX", "Mexico"},
	{"RU", "Russia"},
	{"BR", "Brazil"},
	{"AU", "Australia"},
	{"IT", "Italy"},
	{"ES", "Spain"},
	{"NL", "Netherlands"},
}

var regionNames = func() map[string]string {
	m := make(map[string]string, len(Regions))
	for _, r := range Regions {
		m[r.Code] = r.Name
	}
	return m
}()

// RegionName returns the English name of a region code. Codes outside
// Regions are resolved through CLDR; if that fails too, the code itself is
// returned.
func RegionName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if name, ok := regionNames[code]; ok {
		return name
	}
	if r, err := language.ParseRegion(code); err == nil {
		if name := display.English.Regions().Name(r); name != "" {
			return name
		}
	}
	return code
}

// IsSupportedRegion reports whether code is one of Regions.
func IsSupportedRegion(code string) bool {
	_, ok := regionNames[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
