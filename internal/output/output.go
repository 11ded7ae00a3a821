// Package output renders traversal events as plain-text or Markdown trees.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/tyemirov/dirtree/internal/commands"
	"github.com/tyemirov/dirtree/internal/types"
)

const (
	// ConnectorMiddle precedes an entry that has following siblings.
	ConnectorMiddle = "├── "
	// ConnectorLast precedes the final entry of a level.
	ConnectorLast = "└── "

	directorySuffix = "/"

	errorUnsupportedFormat = "unsupported output format '%s'"
)

// NewRenderer returns the visitor that renders format to writer.
func NewRenderer(format string, writer io.Writer) (commands.Visitor, error) {
	switch strings.ToLower(format) {
	case types.FormatPlain, "":
		return NewPlainTextRenderer(writer), nil
	case types.FormatMarkdown:
		return NewMarkdownRenderer(writer), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case types.FormatPlain, types.FormatMarkdown:
		return true
	default:
		return false
	}
}

func connectorFor(isLast bool) string {
	if isLast {
		return ConnectorLast
	}
	return ConnectorMiddle
}

// displayName appends a trailing slash to directories.
func displayName(entry types.Entry) string {
	if entry.IsDirectory {
		return strings.TrimSuffix(entry.Name, directorySuffix) + directorySuffix
	}
	return entry.Name
}
