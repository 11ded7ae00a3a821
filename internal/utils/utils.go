// Package utils contains general helper functions used across the dirtree tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration and naming constants used across the project.
const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".dirtree.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that holds the global configuration.
	GlobalConfigDirectoryName = ".dirtree"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	pathSegmentSeparator   = "/"
	currentDirectoryPrefix = "./"
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

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if the path does not lie inside root.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// NormalizeRelativePath converts a relative path to forward-slash form and strips
// leading "./" segments and trailing separators.
func NormalizeRelativePath(relativePath string) string {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	for strings.HasPrefix(normalizedPath, currentDirectoryPrefix) {
		normalizedPath = strings.TrimPrefix(normalizedPath, currentDirectoryPrefix)
	}
	if len(normalizedPath) > 1 {
		normalizedPath = strings.TrimRight(normalizedPath, pathSegmentSeparator)
	}
	return normalizedPath
}

// TrimmedNonEmpty returns the trimmed, non-empty values in their original order.
func TrimmedNonEmpty(values []string) []string {
	var result []string
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if trimmedValue == "" {
			continue
		}
		result = append(result, trimmedValue)
	}
	return result
}
