// Package commands contains the traversal logic shared by every tree renderer.
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/tyemirov/dirtree/internal/filter"
	"github.com/tyemirov/dirtree/internal/types"
	"github.com/tyemirov/dirtree/internal/utils"
)

const (
	// PrefixContinuation extends the prefix below an entry that has following siblings.
	PrefixContinuation = "│   "
	// PrefixBlank extends the prefix below the last entry of a level.
	PrefixBlank = "    "

	rootListingPath = "."

	errorNilVisitor          = "tree visitor is nil"
	errorNegativeDepthFormat = "max depth must not be negative, got %d"
	errorReadRootFormat      = "reading root directory %s: %w"
	warningSkipSubdirMessage = "skipping unreadable directory"
)

// TreeEventKind identifies the stage of a traversal an event reports.
type TreeEventKind int

const (
	// TreeEventRoot is emitted once before any entry.
	TreeEventRoot TreeEventKind = iota
	// TreeEventEntry is emitted once per visible entry in traversal order.
	TreeEventEntry
	// TreeEventLeaveDirectory follows the subtree of every emitted directory entry.
	TreeEventLeaveDirectory
	// TreeEventDone is emitted once after the traversal completes.
	TreeEventDone
)

// TreeEvent describes one step of a traversal.
type TreeEvent struct {
	Kind  TreeEventKind
	Entry types.Entry
	// Depth is 0 for the root and 1 for its children.
	Depth  int
	IsLast bool
	// Prefix is the accumulated indentation that precedes the connector.
	Prefix string
}

// Visitor consumes traversal events.
type Visitor interface {
	Handle(event TreeEvent) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(event TreeEvent) error

// Handle calls the underlying function.
func (visitorFunc VisitorFunc) Handle(event TreeEvent) error {
	return visitorFunc(event)
}

// TreeStreamOptions configures a traversal.
type TreeStreamOptions struct {
	// Root is the absolute, cleaned root directory.
	Root string
	// FileSystem lists directories relative to Root. Defaults to the OS filesystem rooted at Root.
	FileSystem      billy.Filesystem
	MaxDepth        int
	Filter          filter.Configuration
	DirectoriesOnly bool
	Logger          *zap.Logger
	// Warn receives one message per subtree that could not be listed.
	Warn func(message string)
}

type treeStreamContext struct {
	options  TreeStreamOptions
	visitor  Visitor
	logger   *zap.Logger
	sortKeys cases.Caser
}

type listedEntry struct {
	entry   types.Entry
	sortKey string
}

// StreamTree walks options.Root depth first and reports every visible entry to visitor.
// Directories precede files at each level and names are ordered case-insensitively.
// The root itself is never filtered. Symbolic links are listed but never followed.
func StreamTree(options TreeStreamOptions, visitor Visitor) error {
	if visitor == nil {
		return errors.New(errorNilVisitor)
	}
	if options.MaxDepth < 0 {
		return fmt.Errorf(errorNegativeDepthFormat, options.MaxDepth)
	}
	if options.FileSystem == nil {
		options.FileSystem = osfs.New(options.Root)
	}

	ctx := treeStreamContext{
		options:  options,
		visitor:  visitor,
		logger:   utils.LoggerOrNop(options.Logger),
		sortKeys: cases.Fold(),
	}

	rootEntry := types.Entry{
		Name:         filepath.Base(options.Root),
		AbsolutePath: options.Root,
		RelativePath: rootListingPath,
		IsDirectory:  true,
	}
	if err := ctx.visitor.Handle(TreeEvent{Kind: TreeEventRoot, Entry: rootEntry}); err != nil {
		return err
	}

	if options.MaxDepth > 0 {
		children, readErr := ctx.listDirectory(rootListingPath)
		if readErr != nil {
			return fmt.Errorf(errorReadRootFormat, options.Root, readErr)
		}
		if err := ctx.emitChildren(children, "", 1); err != nil {
			return err
		}
	}

	return ctx.visitor.Handle(TreeEvent{Kind: TreeEventDone, Entry: rootEntry})
}

// emitChildren reports children at depth and descends into directories while depth allows.
func (ctx *treeStreamContext) emitChildren(children []types.Entry, prefix string, depth int) error {
	for index, child := range children {
		isLast := index == len(children)-1
		event := TreeEvent{
			Kind:   TreeEventEntry,
			Entry:  child,
			Depth:  depth,
			IsLast: isLast,
			Prefix: prefix,
		}
		if err := ctx.visitor.Handle(event); err != nil {
			return err
		}
		if !child.IsDirectory {
			continue
		}

		if depth < ctx.options.MaxDepth {
			childPrefix := prefix + PrefixContinuation
			if isLast {
				childPrefix = prefix + PrefixBlank
			}
			grandchildren, readErr := ctx.listDirectory(filepath.FromSlash(child.RelativePath))
			if readErr != nil {
				ctx.reportUnreadable(child, readErr)
			} else if err := ctx.emitChildren(grandchildren, childPrefix, depth+1); err != nil {
				return err
			}
		}

		event.Kind = TreeEventLeaveDirectory
		if err := ctx.visitor.Handle(event); err != nil {
			return err
		}
	}
	return nil
}

// listDirectory returns the visible, sorted children of a directory relative to the root.
// The listing is fully read before returning so no handle outlives this call.
func (ctx *treeStreamContext) listDirectory(listingPath string) ([]types.Entry, error) {
	fileInfos, readErr := ctx.options.FileSystem.ReadDir(listingPath)
	if readErr != nil {
		return nil, readErr
	}

	listed := make([]listedEntry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		childListingPath := ctx.options.FileSystem.Join(listingPath, fileInfo.Name())
		entry := types.Entry{
			Name:         fileInfo.Name(),
			AbsolutePath: filepath.Join(ctx.options.Root, childListingPath),
			RelativePath: utils.NormalizeRelativePath(filepath.ToSlash(childListingPath)),
			IsDirectory:  fileInfo.IsDir(),
			IsSymlink:    fileInfo.Mode()&os.ModeSymlink != 0,
		}
		if ctx.options.Filter.ShouldExclude(entry, ctx.options.Root) {
			continue
		}
		if ctx.options.DirectoriesOnly && !entry.IsDirectory {
			continue
		}
		listed = append(listed, listedEntry{entry: entry, sortKey: ctx.sortKeys.String(entry.Name)})
	}

	sort.SliceStable(listed, func(left, right int) bool {
		leftEntry, rightEntry := listed[left], listed[right]
		if leftEntry.entry.IsDirectory != rightEntry.entry.IsDirectory {
			return leftEntry.entry.IsDirectory
		}
		if leftEntry.sortKey != rightEntry.sortKey {
			return leftEntry.sortKey < rightEntry.sortKey
		}
		return leftEntry.entry.Name < rightEntry.entry.Name
	})

	entries := make([]types.Entry, len(listed))
	for index := range listed {
		entries[index] = listed[index].entry
	}
	return entries, nil
}

func (ctx *treeStreamContext) reportUnreadable(directory types.Entry, readErr error) {
	ctx.logger.Warn(warningSkipSubdirMessage,
		zap.String("path", directory.AbsolutePath),
		zap.Error(readErr),
	)
	if ctx.options.Warn != nil {
		ctx.options.Warn(fmt.Sprintf("%s %s: %v", warningSkipSubdirMessage, directory.AbsolutePath, readErr))
	}
}
