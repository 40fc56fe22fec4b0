// Package tags defines the custom documentation tags apiviz understands and
// ships them as a bundled resource.
//
// The host documentation tool does not know apiviz's tags and warns about
// every occurrence. Passing it the file returned by [Path] as the value of
// -knowntags teaches it otherwise; [doclet.Interceptor] does this
// automatically.
package tags

import (
	_ "embed"
	"strings"
)

// Tag names as they appear in documentation comments.
const (
	Category        = "@apiviz.category"
	ComposedOf      = "@apiviz.composedOf"
	Exclude         = "@apiviz.exclude"
	ExcludeSubtypes = "@apiviz.excludeSubtypes"
	Has             = "@apiviz.has"
	Hidden          = "@apiviz.hidden"
	Inherit         = "@apiviz.inherit"
	Landmark        = "@apiviz.landmark"
	Owns            = "@apiviz.owns"
	Stereotype      = "@apiviz.stereotype"
	Uses            = "@apiviz.uses"
)

// ResourceName is the logical name of the bundled tag list.
const ResourceName = "apiviz/tags.txt"

//go:embed tags.txt
var bundled []byte

// Names returns every tag listed in the bundled resource, "@"-prefixed, in
// file order.
func Names() []string {
	return parseNames(bundled)
}

// parseNames reads one tag per line, skipping blank lines and # comments.
func parseNames(data []byte) []string {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, "@"+line)
	}
	return names
}
