// Package types defines the cross-package data structures used by the dirtree CLI.
package types

const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
)

// Entry is one filesystem object encountered during traversal.
type Entry struct {
	Name         string
	AbsolutePath string
	// RelativePath is relative to the traversal root and uses forward slashes.
	RelativePath string
	IsDirectory  bool
	IsSymlink    bool
}

// ValidatedPath is an absolute root path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}
