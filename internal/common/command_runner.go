package common

import (
	"context"
	"fmt"

	"resumatch/internal/errors"
)

// FileOperationFunc turns the contents of the command's input files into a report
type FileOperationFunc[Output any] func(ctx context.Context, contents []string) (Output, error)

// RunFileCommand reads the input files named by args, runs op on their contents and
// writes the formatted result.
func RunFileCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	op FileOperationFunc[Output],
) error {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}

	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	logger.Debug("Input files loaded", "files", args, "format", cmdConfig.OutputFormat)

	result, err := op(ctx, contents)
	if err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
