// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/dirtree"
	"github.com/tyemirov/dirtree/internal/config"
	"github.com/tyemirov/dirtree/internal/filter"
	"github.com/tyemirov/dirtree/internal/output"
	"github.com/tyemirov/dirtree/internal/services/clipboard"
	"github.com/tyemirov/dirtree/internal/types"
	"github.com/tyemirov/dirtree/internal/utils"
)

const (
	markdownFlagName     = "md"
	directoriesOnlyFlag  = "dirs-only"
	ignoreNameFlagName   = "ignore-name"
	ignoreGlobFlagName   = "ignore-glob"
	ignorePathFlagName   = "ignore-path"
	ignoreFileFlagName   = "ignore-file"
	configFlagName       = "config"
	versionFlagName      = "version"
	copyFlagName         = "copy"
	initGlobalFlagName   = "global"
	initForceFlagName    = "force"
	versionTemplate      = "dirtree version: %s\n"
	initializedTemplate  = "configuration written to %s\n"
	defaultPath          = "."
	rootUse              = "dirtree [PATH] [DEPTH]"
	rootShortDescription = "print a directory tree"
	rootLongDescription  = `dirtree prints the directory hierarchy under PATH (default: current directory)
down to DEPTH levels (default: 2) using box-drawing characters.
Directories are listed before files and names are sorted case-insensitively.
Version control, cache, IDE and virtual environment directories are hidden by default.
Use --md to emit nested collapsible Markdown blocks instead.`
	rootUsageExample = `  # Print the current directory two levels deep
  dirtree

  # Print ./src three levels deep as Markdown
  dirtree src 3 --md

  # Hide build output and log files
  dirtree --ignore-glob 'build/**' --ignore-glob '*.log'`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + ` or, with --global,
to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + `.`

	markdownFlagDescription        = "render nested collapsible Markdown blocks"
	directoriesOnlyFlagDescription = "list directories only"
	ignoreNameFlagDescription      = "exact name to hide; replaces the default names (repeatable)"
	ignoreGlobFlagDescription      = "glob pattern matched against names and relative paths (repeatable); * stops at /, use ** for nested paths such as 'src/**/*.py'"
	ignorePathFlagDescription      = "path relative to PATH to hide (repeatable)"
	ignoreFileFlagDescription      = "file with one glob pattern per line (repeatable)"
	configFlagDescription          = "configuration file (default ./" + utils.ConfigFileName + ")"
	versionFlagDescription         = "display application version"
	copyFlagDescription            = "copy the rendered tree to the clipboard"
	initGlobalFlagDescription      = "write the global configuration file"
	initForceFlagDescription       = "overwrite an existing configuration file"

	invalidDepthMessageFormat  = "invalid DEPTH %q: must be a non-negative integer"
	invalidFormatMessageFormat = "invalid format value '%s' in configuration"
	copyFailedMessageFormat    = "copy to clipboard: %w"
	loadConfigurationFormat    = "load configuration: %w"
)

// UsageError reports malformed command line input.
type UsageError struct {
	Err error
}

func (usageError *UsageError) Error() string {
	return usageError.Err.Error()
}

func (usageError *UsageError) Unwrap() error {
	return usageError.Err
}

func newUsageError(format string, arguments ...any) error {
	return &UsageError{Err: fmt.Errorf(format, arguments...)}
}

// Exit codes returned by ExitCode.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
	ExitCodeUsage   = 2
)

// ExitCode maps an execution error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var usageError *UsageError
	if errors.As(err, &usageError) {
		return ExitCodeUsage
	}
	return ExitCodeFailure
}

// Dependencies are the collaborators of the command tree.
type Dependencies struct {
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	Copier           clipboard.Copier
	WorkingDirectory string
	HomeDirectory    string
}

// Execute runs the dirtree application with process defaults.
func Execute(logger *zap.Logger) error {
	return Run(Dependencies{Logger: logger}, os.Args[1:])
}

// Run executes the command tree against the provided arguments.
func Run(dependencies Dependencies, arguments []string) error {
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(normalizeCopyFlagArguments(arguments))
	return rootCommand.Execute()
}

// renderFlags stores the values of the render flags.
type renderFlags struct {
	markdown        bool
	directoriesOnly bool
	ignoreNames     []string
	ignoreGlobs     []string
	ignorePaths     []string
	ignoreFiles     []string
	configPath      string
	copyOutput      bool
	showVersion     bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = withDefaults(dependencies)
	var flags renderFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runRender(command, dependencies, flags, arguments)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.SetFlagErrorFunc(func(command *cobra.Command, flagError error) error {
		return &UsageError{Err: flagError}
	})

	flagSet := rootCommand.Flags()
	flagSet.BoolVar(&flags.markdown, markdownFlagName, false, markdownFlagDescription)
	flagSet.BoolVar(&flags.directoriesOnly, directoriesOnlyFlag, false, directoriesOnlyFlagDescription)
	flagSet.StringArrayVar(&flags.ignoreNames, ignoreNameFlagName, nil, ignoreNameFlagDescription)
	flagSet.StringArrayVar(&flags.ignoreGlobs, ignoreGlobFlagName, nil, ignoreGlobFlagDescription)
	flagSet.StringArrayVar(&flags.ignorePaths, ignorePathFlagName, nil, ignorePathFlagDescription)
	flagSet.StringArrayVar(&flags.ignoreFiles, ignoreFileFlagName, nil, ignoreFileFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)
	registerCopyFlag(flagSet, &flags.copyOutput)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	rootCommand.InitDefaultHelpCmd()
	return rootCommand
}

func withDefaults(dependencies Dependencies) Dependencies {
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	dependencies.Logger = utils.LoggerOrNop(dependencies.Logger)
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	return dependencies
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(dependencies.Stdout, initializedTemplate, writtenPath)
			return err
		},
	}
	initCommand.Flags().BoolVar(&global, initGlobalFlagName, false, initGlobalFlagDescription)
	initCommand.Flags().BoolVar(&force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}

// renderRequest is the fully resolved input of one render.
type renderRequest struct {
	rootPath   string
	maxDepth   int
	copyOutput bool
	options    dirtree.Options
}

// runRender resolves arguments, flags and configuration and renders the tree.
func runRender(command *cobra.Command, dependencies Dependencies, flags renderFlags, arguments []string) error {
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if loadError != nil {
		return fmt.Errorf(loadConfigurationFormat, loadError)
	}

	request, requestError := buildRenderRequest(command, dependencies, flags, configuration, arguments)
	if requestError != nil {
		return requestError
	}

	if !request.copyOutput {
		return dirtree.Render(dependencies.Stdout, request.rootPath, request.maxDepth, request.options)
	}

	teeWriter := clipboard.NewTeeWriter(dependencies.Stdout)
	if renderError := dirtree.Render(teeWriter, request.rootPath, request.maxDepth, request.options); renderError != nil {
		return renderError
	}
	if copyError := teeWriter.CopyTo(dependencies.Copier); copyError != nil {
		return fmt.Errorf(copyFailedMessageFormat, copyError)
	}
	return nil
}

// buildRenderRequest applies precedence: arguments and flags, then configuration, then defaults.
func buildRenderRequest(
	command *cobra.Command,
	dependencies Dependencies,
	flags renderFlags,
	configuration config.ApplicationConfiguration,
	arguments []string,
) (renderRequest, error) {
	request := renderRequest{
		rootPath: defaultPath,
		maxDepth: dirtree.DefaultMaxDepth,
	}
	if configuration.Depth != nil {
		request.maxDepth = *configuration.Depth
	}
	if len(arguments) > 0 {
		request.rootPath = arguments[0]
	}
	if len(arguments) > 1 {
		parsedDepth, parseError := strconv.Atoi(strings.TrimSpace(arguments[1]))
		if parseError != nil || parsedDepth < 0 {
			return renderRequest{}, newUsageError(invalidDepthMessageFormat, arguments[1])
		}
		request.maxDepth = parsedDepth
	}
	if request.maxDepth < 0 {
		return renderRequest{}, newUsageError(invalidDepthMessageFormat, strconv.Itoa(request.maxDepth))
	}

	format := strings.ToLower(configuration.Format)
	if format == "" {
		format = types.FormatPlain
	}
	if !output.IsSupportedFormat(format) {
		return renderRequest{}, fmt.Errorf(invalidFormatMessageFormat, configuration.Format)
	}
	if flags.markdown {
		format = types.FormatMarkdown
	}

	includeFiles := true
	if configuration.IncludeFiles != nil {
		includeFiles = *configuration.IncludeFiles
	}
	if flags.directoriesOnly {
		includeFiles = false
	}

	request.copyOutput = configuration.Copy != nil && *configuration.Copy
	if command.Flags().Changed(copyFlagName) {
		request.copyOutput = flags.copyOutput
	}

	ignoreNames := configuration.Ignore.IgnoreNameList()
	if command.Flags().Changed(ignoreNameFlagName) {
		ignoreNames = utils.TrimmedNonEmpty(flags.ignoreNames)
		if ignoreNames == nil {
			ignoreNames = []string{}
		}
	}

	ignoreFilePatterns, ignoreFileError := config.LoadIgnoreFiles(append(append([]string{}, configuration.Ignore.Files...), flags.ignoreFiles...), dependencies.Logger)
	if ignoreFileError != nil {
		return renderRequest{}, ignoreFileError
	}
	ignoreGlobs := append(append(append([]string{}, configuration.Ignore.Globs...), ignoreFilePatterns...), flags.ignoreGlobs...)
	ignorePaths := append(append([]string{}, configuration.Ignore.Paths...), flags.ignorePaths...)

	filterConfiguration := filter.NewConfiguration(filter.Options{
		IgnoreNames: ignoreNames,
		IgnoreGlobs: ignoreGlobs,
		IgnorePaths: ignorePaths,
	})
	if validationError := filterConfiguration.Validate(); validationError != nil {
		return renderRequest{}, &UsageError{Err: validationError}
	}

	request.options = dirtree.Options{
		IgnoreNames:     ignoreNames,
		IgnoreGlobs:     utils.DeduplicatePatterns(ignoreGlobs),
		IgnorePaths:     ignorePaths,
		DirectoriesOnly: !includeFiles,
		Format:          dirtree.Format(format),
		Logger:          dependencies.Logger,
	}
	return request, nil
}
