package filter_test

import (
	"path/filepath"
	"testing"

	"github.com/tyemirov/dirtree/internal/filter"
	"github.com/tyemirov/dirtree/internal/types"
)

const testRootDirectory = "/work/project"

func entryAt(relativePath string, isDirectory bool) types.Entry {
	return types.Entry{
		Name:         filepath.Base(relativePath),
		AbsolutePath: testRootDirectory + "/" + relativePath,
		RelativePath: relativePath,
		IsDirectory:  isDirectory,
	}
}

func TestShouldExclude(t *testing.T) {
	testCases := []struct {
		name     string
		options  filter.Options
		entry    types.Entry
		expected bool
	}{
		{
			name:     "default_name_git",
			entry:    entryAt(".git", true),
			expected: true,
		},
		{
			name:     "default_name_nested_pycache",
			entry:    entryAt("pkg/sub/__pycache__", true),
			expected: true,
		},
		{
			name:     "default_glob_bytecode",
			entry:    entryAt("pkg/module.pyc", false),
			expected: true,
		},
		{
			name:     "default_glob_ds_store",
			entry:    entryAt("assets/.DS_Store", false),
			expected: true,
		},
		{
			name:     "regular_file_visible",
			entry:    entryAt("src/main.go", false),
			expected: false,
		},
		{
			name:     "name_override_replaces_defaults",
			options:  filter.Options{IgnoreNames: []string{"node_modules"}},
			entry:    entryAt(".venv", true),
			expected: false,
		},
		{
			name:     "name_override_applies",
			options:  filter.Options{IgnoreNames: []string{"node_modules"}},
			entry:    entryAt("web/node_modules", true),
			expected: true,
		},
		{
			name:     "empty_name_override_disables_names",
			options:  filter.Options{IgnoreNames: []string{}},
			entry:    entryAt(".git", true),
			expected: false,
		},
		{
			name:     "name_override_keeps_default_globs",
			options:  filter.Options{IgnoreNames: []string{}},
			entry:    entryAt("cache.pyo", false),
			expected: true,
		},
		{
			name:     "exact_path",
			options:  filter.Options{IgnorePaths: []string{"./build/out/"}},
			entry:    entryAt("build/out", true),
			expected: true,
		},
		{
			name:     "exact_path_does_not_match_name_elsewhere",
			options:  filter.Options{IgnorePaths: []string{"build/out"}},
			entry:    entryAt("other/out", true),
			expected: false,
		},
		{
			name:     "glob_against_name",
			options:  filter.Options{IgnoreGlobs: []string{"*.txt"}},
			entry:    entryAt("docs/readme.txt", false),
			expected: true,
		},
		{
			name:     "glob_against_relative_path",
			options:  filter.Options{IgnoreGlobs: []string{"dist/**"}},
			entry:    entryAt("dist/js/app.js", false),
			expected: true,
		},
		{
			name:     "double_star_prefix_glob",
			options:  filter.Options{IgnoreGlobs: []string{"**/generated/**"}},
			entry:    entryAt("api/generated/client.go", false),
			expected: true,
		},
		{
			name: "outside_root_uses_full_path",
			options: filter.Options{
				IgnorePaths: []string{"/elsewhere/file.txt"},
			},
			entry: types.Entry{
				Name:         "file.txt",
				AbsolutePath: "/elsewhere/file.txt",
			},
			expected: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			configuration := filter.NewConfiguration(testCase.options)
			actual := configuration.ShouldExclude(testCase.entry, testRootDirectory)
			if actual != testCase.expected {
				t.Fatalf("ShouldExclude(%s) = %t, want %t", testCase.entry.RelativePath, actual, testCase.expected)
			}
		})
	}
}

func TestNewConfigurationAppendsGlobsAfterDefaults(t *testing.T) {
	configuration := filter.NewConfiguration(filter.Options{IgnoreGlobs: []string{"*.log", " ", "*.pyc"}})
	globs := configuration.Globs()
	defaults := filter.DefaultIgnoreGlobs()
	if len(globs) != len(defaults)+1 {
		t.Fatalf("unexpected globs: %v", globs)
	}
	for index, pattern := range defaults {
		if globs[index] != pattern {
			t.Fatalf("default glob %d: got %q want %q", index, globs[index], pattern)
		}
	}
	if globs[len(globs)-1] != "*.log" {
		t.Fatalf("expected caller glob last, got %v", globs)
	}
}

func TestValidateRejectsMalformedGlob(t *testing.T) {
	configuration := filter.NewConfiguration(filter.Options{IgnoreGlobs: []string{"[unterminated"}})
	if err := configuration.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
	if err := filter.NewConfiguration(filter.Options{}).Validate(); err != nil {
		t.Fatalf("default configuration should validate: %v", err)
	}
}

func TestDefaultsAreCopies(t *testing.T) {
	names := filter.DefaultIgnoreNames()
	names[0] = "mutated"
	if filter.DefaultIgnoreNames()[0] == "mutated" {
		t.Fatalf("default names must not be shared")
	}
}
