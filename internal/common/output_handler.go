package common

import (
	"fmt"
	"io"
	"os"

	"resumatch/internal/errors"
	"resumatch/internal/formatters"
)

// CommandConfig holds the output settings shared by commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	MaxFileSize  int64
	Registry     *formatters.Registry // nil means formatters.DefaultRegistry
	Stdout       io.Writer            // nil means the handler's writer
}

// OutputHandler formats reports and writes them to a file or stdout
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.Registry
	stdout        io.Writer
	logger        *errors.Logger
}

// NewOutputHandler creates an output handler writing to os.Stdout
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger, 0),
		registry:      formatters.DefaultRegistry,
		stdout:        os.Stdout,
		logger:        logger,
	}
}

// WithWriter redirects stdout output to w
func (oh *OutputHandler) WithWriter(w io.Writer) *OutputHandler {
	oh.stdout = w
	return oh
}

// HandleOutput formats data and writes it to the configured destination
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	registry := oh.registry
	if config.Registry != nil {
		registry = config.Registry
	}

	output, err := registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile == "" {
		stdout := oh.stdout
		if config.Stdout != nil {
			stdout = config.Stdout
		}
		_, err := io.WriteString(stdout, output)
		return err
	}

	if err := oh.fileProcessor.WriteFile(config.OutputFile, output); err != nil {
		return err
	}

	oh.logger.Info("Output written successfully",
		"file", config.OutputFile, "format", config.OutputFormat)
	return nil
}
