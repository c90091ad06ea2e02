package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"resumatch/internal/errors"
)

var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

// FileProcessor reads input documents and writes reports
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a file processor. maxFileSize <= 0 disables the size limit.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ValidateInputFile checks that filename names a readable regular file within the size limit
func (fp *FileProcessor) ValidateInputFile(filename string) error {
	if filename == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "filename cannot be empty", nil)
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", filename), err)
	}

	if info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}

	if fp.maxFileSize > 0 && info.Size() > fp.maxFileSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s is %s, limit is %s", filename, FormatFileSize(info.Size()), FormatFileSize(fp.maxFileSize)), nil).
			WithContext("size", info.Size()).
			WithContext("limit", fp.maxFileSize)
	}

	return nil
}

// ReadFile reads content from a file
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var reader io.Reader = file
	if fp.maxFileSize > 0 {
		// the file may grow between stat and read
		reader = io.LimitReader(file, fp.maxFileSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	if fp.maxFileSize > 0 && int64(len(content)) > fp.maxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s exceeds %s", filename, FormatFileSize(fp.maxFileSize)), nil)
	}

	return string(content), nil
}

// WriteFile writes content to a file, creating its directory
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads the input documents in order
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := fp.ValidateInputFile(filename); err != nil {
			return nil, err
		}

		if !IsTextFile(filename) {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}

	return contents, nil
}

// IsTextFile reports whether filename has a plain-text extension
func IsTextFile(filename string) bool {
	return slices.Contains(textExtensions, strings.ToLower(filepath.Ext(filename)))
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
