// Package config loads dirtree configuration files and ignore files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/tyemirov/dirtree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds defaults for a render invocation.
// Pointer fields distinguish "unset" from a zero value so files can be layered.
type ApplicationConfiguration struct {
	Depth        *int                `mapstructure:"depth"`
	Format       string              `mapstructure:"format"`
	IncludeFiles *bool               `mapstructure:"include_files"`
	Copy         *bool               `mapstructure:"copy"`
	Ignore       IgnoreConfiguration `mapstructure:"ignore"`
}

// IgnoreConfiguration configures the exclusion policy.
type IgnoreConfiguration struct {
	// Names replaces the default exact-name set when present, even if empty.
	Names *[]string `mapstructure:"names"`
	Globs []string  `mapstructure:"globs"`
	Paths []string  `mapstructure:"paths"`
	Files []string  `mapstructure:"files"`
}

// LoadApplicationConfiguration loads configuration from the global and local files.
// Values from the local file override the global ones field by field.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, homeDirectory)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, filepath.Dir(localPath))
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Ignore.Globs = utils.DeduplicatePatterns(merged.Ignore.Globs)
	merged.Ignore.Paths = utils.DeduplicatePatterns(merged.Ignore.Paths)
	merged.Ignore.Files = utils.DeduplicatePatterns(merged.Ignore.Files)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

// loadConfigurationFromPath reads one YAML file. Ignore-file paths are resolved
// against baseDirectory so they are independent of the caller's working directory.
func loadConfigurationFromPath(path string, baseDirectory string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	if reader.IsSet("ignore.names") && config.Ignore.Names == nil {
		emptyNames := []string{}
		config.Ignore.Names = &emptyNames
	}
	for index, ignoreFile := range config.Ignore.Files {
		if !filepath.IsAbs(ignoreFile) {
			config.Ignore.Files[index] = filepath.Join(baseDirectory, ignoreFile)
		}
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Depth = cloneInt(config.Depth)
	result.IncludeFiles = cloneBool(config.IncludeFiles)
	result.Copy = cloneBool(config.Copy)
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.IncludeFiles != nil {
		result.IncludeFiles = cloneBool(override.IncludeFiles)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Ignore = result.Ignore.merge(override.Ignore)
	return result
}

// merge replaces names and appends globs, paths and ignore files.
func (config IgnoreConfiguration) merge(override IgnoreConfiguration) IgnoreConfiguration {
	result := config
	result.Names = cloneNames(config.Names)
	if override.Names != nil {
		names := append([]string{}, *override.Names...)
		result.Names = &names
	}
	result.Globs = append(append([]string{}, config.Globs...), override.Globs...)
	result.Paths = append(append([]string{}, config.Paths...), override.Paths...)
	result.Files = append(append([]string{}, config.Files...), override.Files...)
	return result
}

// IgnoreNameList returns the configured names, or nil when defaults apply.
func (config IgnoreConfiguration) IgnoreNameList() []string {
	if config.Names == nil {
		return nil
	}
	return append([]string{}, *config.Names...)
}

func cloneNames(names *[]string) *[]string {
	if names == nil {
		return nil
	}
	cloned := append([]string{}, *names...)
	return &cloned
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
