// Package filter decides which walked paths take part in a compile run.
package filter

import (
	"strings"

	"github.com/temirov/compilator/internal/types"
)

// IsExcluded reports whether any non-empty keyword occurs anywhere in path.
func IsExcluded(path string, excludeKeywords []string) bool {
	for _, keyword := range excludeKeywords {
		if keyword != "" && strings.Contains(path, keyword) {
			return true
		}
	}
	return false
}

// HasIncludedExtension reports whether path ends with one of the extensions.
// An empty extension list accepts every path.
func HasIncludedExtension(path string, includeExtensions []string) bool {
	if len(includeExtensions) == 0 {
		return true
	}
	for _, extension := range includeExtensions {
		if strings.HasSuffix(path, extension) {
			return true
		}
	}
	return false
}

// ShouldInclude applies rule to path. Exclusion always wins over extension matches.
func ShouldInclude(path string, rule types.FilterRule) bool {
	if IsExcluded(path, rule.ExcludeKeywords) {
		return false
	}
	return HasIncludedExtension(path, rule.IncludeExtensions)
}
