// Package dirtree renders a directory hierarchy as a box-drawing tree or as a
// collapsible Markdown outline.
package dirtree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/tyemirov/dirtree/internal/commands"
	"github.com/tyemirov/dirtree/internal/filter"
	"github.com/tyemirov/dirtree/internal/output"
	"github.com/tyemirov/dirtree/internal/types"
)

// Format selects a renderer.
type Format string

const (
	// FormatPlain renders indented box-drawing lines.
	FormatPlain Format = types.FormatPlain
	// FormatMarkdown renders nested <details> blocks.
	FormatMarkdown Format = types.FormatMarkdown

	// DefaultMaxDepth shows the root, its children and its grandchildren.
	DefaultMaxDepth = 2
)

var (
	// ErrRootNotFound reports a root path that does not exist.
	ErrRootNotFound = commands.ErrRootNotFound
	// ErrRootNotDirectory reports a root path that is not a directory.
	ErrRootNotDirectory = commands.ErrRootNotDirectory
	// ErrNegativeDepth reports a negative depth bound.
	ErrNegativeDepth = errors.New("max depth must not be negative")
)

// Options configures a render call. The zero value renders files and directories
// in plain text with the default exclusion policy.
type Options struct {
	// IgnoreNames replaces the default exact-name set when non-nil.
	IgnoreNames []string
	// IgnoreGlobs are appended to the default glob patterns.
	IgnoreGlobs []string
	// IgnorePaths are exact paths relative to the root.
	IgnorePaths []string
	// DirectoriesOnly hides files, the inverse of including files.
	DirectoriesOnly bool
	Format          Format
	// Logger receives warnings about subtrees that could not be listed.
	Logger *zap.Logger
	// Warn, when set, also receives those warnings as plain messages.
	Warn func(message string)
	// FileSystem overrides the OS filesystem. It must be rooted at the root path.
	FileSystem billy.Filesystem
}

// DefaultIgnoreNames returns the exact names excluded unless IgnoreNames is set.
func DefaultIgnoreNames() []string {
	return filter.DefaultIgnoreNames()
}

// DefaultIgnoreGlobs returns the glob patterns that are always applied.
func DefaultIgnoreGlobs() []string {
	return filter.DefaultIgnoreGlobs()
}

// Render writes the tree of rootPath, descending at most maxDepth levels, to writer.
// A maxDepth of zero renders only the root header. Subdirectories that cannot be
// listed are skipped with a warning; a missing or non-directory root is an error.
func Render(writer io.Writer, rootPath string, maxDepth int, options Options) error {
	if maxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDepth, maxDepth)
	}

	filterConfiguration := filter.NewConfiguration(filter.Options{
		IgnoreNames: options.IgnoreNames,
		IgnoreGlobs: options.IgnoreGlobs,
		IgnorePaths: options.IgnorePaths,
	})
	if validationError := filterConfiguration.Validate(); validationError != nil {
		return validationError
	}

	renderer, rendererError := output.NewRenderer(string(options.Format), writer)
	if rendererError != nil {
		return rendererError
	}

	root := rootPath
	if options.FileSystem == nil {
		validatedRoot, rootError := commands.ResolveRootDirectory(rootPath)
		if rootError != nil {
			return rootError
		}
		root = validatedRoot.AbsolutePath
	}

	return commands.StreamTree(commands.TreeStreamOptions{
		Root:            root,
		FileSystem:      options.FileSystem,
		MaxDepth:        maxDepth,
		Filter:          filterConfiguration,
		DirectoriesOnly: options.DirectoriesOnly,
		Logger:          options.Logger,
		Warn:            options.Warn,
	}, renderer)
}

// RenderString returns the rendered tree as a string.
func RenderString(rootPath string, maxDepth int, options Options) (string, error) {
	var buffer bytes.Buffer
	if renderError := Render(&buffer, rootPath, maxDepth, options); renderError != nil {
		return "", renderError
	}
	return buffer.String(), nil
}
