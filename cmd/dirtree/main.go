package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tyemirov/dirtree/internal/cli"
	"github.com/tyemirov/dirtree/internal/utils"
)

// main is the entry point for the dirtree command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	exitCode := run(loggerInstance, cli.Execute)
	_ = loggerInstance.Sync()
	os.Exit(exitCode)
}

// run executes the command tree and maps its outcome to a process exit code.
func run(loggerInstance *zap.Logger, execute func(*zap.Logger) error) int {
	applicationExecutionError := execute(loggerInstance)
	if applicationExecutionError != nil {
		loggerInstance.Error(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
	return cli.ExitCode(applicationExecutionError)
}
