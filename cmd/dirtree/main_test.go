package main

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/dirtree/internal/cli"
	"github.com/tyemirov/dirtree/internal/utils"
)

func TestRunMapsExecutionOutcomeToExitCode(t *testing.T) {
	testCases := []struct {
		name             string
		executionError   error
		expectedExitCode int
		expectedLogCount int
	}{
		{
			name:             "success",
			executionError:   nil,
			expectedExitCode: cli.ExitCodeSuccess,
		},
		{
			name:             "usage_error",
			executionError:   &cli.UsageError{Err: errors.New("invalid DEPTH")},
			expectedExitCode: cli.ExitCodeUsage,
			expectedLogCount: 1,
		},
		{
			name:             "runtime_error",
			executionError:   errors.New("root path does not exist"),
			expectedExitCode: cli.ExitCodeFailure,
			expectedLogCount: 1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.WarnLevel)
			exitCode := run(zap.New(core), func(*zap.Logger) error {
				return testCase.executionError
			})
			if exitCode != testCase.expectedExitCode {
				t.Fatalf("expected exit code %d, got %d", testCase.expectedExitCode, exitCode)
			}
			entries := recorded.FilterMessage(utils.ApplicationExecutionFailedMessage).All()
			if len(entries) != testCase.expectedLogCount {
				t.Fatalf("expected %d failure log entries, got %d", testCase.expectedLogCount, len(entries))
			}
		})
	}
}
