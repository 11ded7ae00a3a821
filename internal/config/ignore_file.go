package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/dirtree/internal/utils"
)

const commentPrefix = "#"

// LoadIgnoreFilePatterns reads glob patterns from an ignore file, one per line.
// Blank lines and lines starting with "#" are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string, logger *zap.Logger) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			utils.LoggerOrNop(logger).Warn("failed to close ignore file",
				zap.String("path", ignoreFilePath),
				zap.Error(closeError),
			)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadIgnoreFiles aggregates the patterns of every ignore file in order, without duplicates.
func LoadIgnoreFiles(ignoreFilePaths []string, logger *zap.Logger) ([]string, error) {
	var aggregatedPatterns []string
	for _, ignoreFilePath := range utils.TrimmedNonEmpty(ignoreFilePaths) {
		patterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath, logger)
		if loadError != nil {
			return nil, fmt.Errorf("loading ignore file %s: %w", ignoreFilePath, loadError)
		}
		aggregatedPatterns = append(aggregatedPatterns, patterns...)
	}
	return utils.DeduplicatePatterns(aggregatedPatterns), nil
}
