package helpers

import (
	"regexp"
	"strings"

	configurationtypes "github.com/aleshan/offline/configurationtypes"
)

// InitializeStaticRegexp will generate one strong regex from the static prefixes defined in the configuration.yml
func InitializeStaticRegexp(configurationInstance configurationtypes.AbstractConfigurationInterface) regexp.Regexp {
	u := ""
	for _, prefix := range configurationInstance.GetStaticPrefixes() {
		if "" != u {
			u += "|"
		}
		u += "(" + regexp.QuoteMeta(prefix) + ")"
	}
	if "" == u {
		u = "$^"
	}

	return *regexp.MustCompile("^(?:" + u + ")")
}

// NormalizeManifest deduplicates the precache manifest keeping the declared
// order, and guarantees every path is absolute.
func NormalizeManifest(paths []string) []string {
	seen := make(map[string]bool)
	normalized := []string{}

	for _, path := range paths {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if !seen[path] {
			seen[path] = true
			normalized = append(normalized, path)
		}
	}

	return normalized
}
