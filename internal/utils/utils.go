// Package utils contains general helper functions used across the compilator tool.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	listSeparator        = ","
	pathSegmentSeparator = "/"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// SplitList splits a comma separated value into trimmed, non-empty, unique items.
func SplitList(rawValue string) []string {
	var items []string
	for _, item := range strings.Split(rawValue, listSeparator) {
		trimmedItem := strings.TrimSpace(item)
		if trimmedItem == "" {
			continue
		}
		items = append(items, trimmedItem)
	}
	return DeduplicatePatterns(items)
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return strings.ReplaceAll(filepath.ToSlash(relativePath), "\\", pathSegmentSeparator)
}

// SamePath reports whether two paths resolve to the same absolute location.
func SamePath(firstPath, secondPath string) bool {
	if firstPath == "" || secondPath == "" {
		return false
	}
	absoluteFirst, firstError := filepath.Abs(firstPath)
	absoluteSecond, secondError := filepath.Abs(secondPath)
	if firstError != nil || secondError != nil {
		return filepath.Clean(firstPath) == filepath.Clean(secondPath)
	}
	return absoluteFirst == absoluteSecond
}
