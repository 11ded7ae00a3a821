package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tyemirov/dirtree/internal/types"
)

var (
	// ErrRootNotFound reports a root path that does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDirectory reports a root path that is not a directory.
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootFormat wraps a root validation sentinel with the offending path.
	errorRootFormat = "%w: %s"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "stat failed for '%s': %w"
)

// ResolveRootDirectory converts rootPath to an absolute path with symbolic links
// resolved and verifies that it names a directory.
func ResolveRootDirectory(rootPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}

	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		if errors.Is(resolveError, os.ErrNotExist) {
			return types.ValidatedPath{}, fmt.Errorf(errorRootFormat, ErrRootNotFound, rootPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatRootFormat, rootPath, resolveError)
	}

	rootInfo, statError := os.Stat(resolvedPath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return types.ValidatedPath{}, fmt.Errorf(errorRootFormat, ErrRootNotFound, rootPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatRootFormat, rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorRootFormat, ErrRootNotDirectory, rootPath)
	}

	return types.ValidatedPath{AbsolutePath: filepath.Clean(resolvedPath), IsDir: true}, nil
}
