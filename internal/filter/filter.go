// Package filter decides which filesystem entries are visible in a rendered tree.
package filter

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tyemirov/dirtree/internal/types"
	"github.com/tyemirov/dirtree/internal/utils"
)

const (
	// errorInvalidGlobFormat reports a glob pattern that cannot be compiled.
	errorInvalidGlobFormat = "invalid ignore glob %q"
)

// defaultIgnoreNames lists version control, bytecode cache, type checker, test cache,
// IDE and virtual environment directories plus the ignore file itself.
var defaultIgnoreNames = []string{
	utils.GitDirectoryName,
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".idea",
	".venv",
	".gitignore",
}

// defaultIgnoreGlobs lists compiled bytecode files and OS metadata files.
var defaultIgnoreGlobs = []string{
	"*.pyc",
	"*.pyo",
	"*.pyd",
	".DS_Store",
	".gitignore",
}

// DefaultIgnoreNames returns a copy of the exact names excluded by default.
func DefaultIgnoreNames() []string {
	return append([]string(nil), defaultIgnoreNames...)
}

// DefaultIgnoreGlobs returns a copy of the glob patterns excluded by default.
func DefaultIgnoreGlobs() []string {
	return append([]string(nil), defaultIgnoreGlobs...)
}

// Options carries caller overrides merged with the defaults.
type Options struct {
	// IgnoreNames replaces the default name set when non-nil. An empty, non-nil
	// slice disables name-based exclusion entirely.
	IgnoreNames []string
	// IgnoreGlobs are appended after the default glob patterns.
	IgnoreGlobs []string
	// IgnorePaths are exact paths relative to the root.
	IgnorePaths []string
}

// Configuration is the immutable exclusion policy of one render call.
type Configuration struct {
	ignoreNames map[string]struct{}
	ignorePaths map[string]struct{}
	ignoreGlobs []string
}

// NewConfiguration merges options with the default exclusion policy.
func NewConfiguration(options Options) Configuration {
	names := defaultIgnoreNames
	if options.IgnoreNames != nil {
		names = options.IgnoreNames
	}

	configuration := Configuration{
		ignoreNames: make(map[string]struct{}, len(names)),
		ignorePaths: make(map[string]struct{}, len(options.IgnorePaths)),
		ignoreGlobs: utils.DeduplicatePatterns(append(DefaultIgnoreGlobs(), utils.TrimmedNonEmpty(options.IgnoreGlobs)...)),
	}
	for _, name := range names {
		configuration.ignoreNames[name] = struct{}{}
	}
	for _, ignorePath := range utils.TrimmedNonEmpty(options.IgnorePaths) {
		configuration.ignorePaths[utils.NormalizeRelativePath(ignorePath)] = struct{}{}
	}
	return configuration
}

// Validate reports the first glob pattern that cannot be compiled.
func (configuration Configuration) Validate() error {
	for _, pattern := range configuration.ignoreGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf(errorInvalidGlobFormat, pattern)
		}
	}
	return nil
}

// Globs returns the ordered glob patterns of the configuration.
func (configuration Configuration) Globs() []string {
	return append([]string(nil), configuration.ignoreGlobs...)
}

// ShouldExclude reports whether an entry below root is hidden from output.
// Rules are evaluated in order and the first match wins: exact name, exact
// root-relative path, then glob patterns against the name or the relative path.
func (configuration Configuration) ShouldExclude(entry types.Entry, root string) bool {
	if _, ignored := configuration.ignoreNames[entry.Name]; ignored {
		return true
	}

	relativePath := entry.RelativePath
	if relativePath == "" {
		relativePath = utils.RelativePathOrSelf(entry.AbsolutePath, root)
	}
	normalizedPath := utils.NormalizeRelativePath(relativePath)
	if _, ignored := configuration.ignorePaths[normalizedPath]; ignored {
		return true
	}

	for _, pattern := range configuration.ignoreGlobs {
		if globMatches(pattern, entry.Name) || globMatches(pattern, normalizedPath) {
			return true
		}
	}
	return false
}

// globMatches treats malformed patterns as non-matching.
func globMatches(pattern, candidate string) bool {
	isMatched, matchError := doublestar.Match(pattern, candidate)
	return matchError == nil && isMatched
}
