// Package validation checks input datasets and output locations before the
// pipeline touches them, so failures surface as typed errors with context
// instead of half-read files.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
)

// FileKind classifies a dataset file by extension
type FileKind string

const (
	FileKindCSV   FileKind = "csv"
	FileKindExcel FileKind = "excel"
)

// FileValidator provides file validation for dataset inputs and export
// targets
type FileValidator struct {
	logger  *slog.Logger
	maxSize int64
}

// NewFileValidator creates a new file validator. maxSizeBytes caps the
// input file size; zero means no cap.
func NewFileValidator(logger *slog.Logger, maxSizeBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:  logger,
		maxSize: maxSizeBytes,
	}
}

// ValidateFile checks that a file exists, is a regular readable file, is
// not empty, and is within the size cap.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("file does not exist",
			slog.String("file", path))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewValidationError(
			fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewValidationError(
			fmt.Sprintf("%s is a directory, not a file", path), nil)
	}
	if info.Size() == 0 {
		v.logger.Error("file is empty",
			slog.String("file", path))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is empty", path), nil)
	}
	if v.maxSize > 0 && info.Size() > v.maxSize {
		v.logger.Error("file exceeds size cap",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("max_size", v.maxSize))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s exceeds the %d byte size cap", path, v.maxSize), nil).
			WithContext("size", info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDatasetFile validates a dataset input and classifies it by
// extension. Unsupported extensions are a validation error.
func (v *FileValidator) ValidateDatasetFile(path string) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FileKindCSV, v.ValidateCSVFile(path)
	case ".xlsx", ".xlsm":
		return FileKindExcel, v.ValidateExcelFile(path)
	default:
		v.logger.Error("unsupported dataset file type",
			slog.String("file", path),
			slog.String("extension", ext))
		return "", apperrors.NewValidationError(
			fmt.Sprintf("file %s is not a supported dataset (.csv, .xlsx, .xlsm)", path), nil).
			WithContext("extension", ext)
	}
}

// ValidateCSVFile checks if a file is a valid CSV file
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("file is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext), nil)
	}

	return nil
}

// ValidateExcelFile checks if a file is a valid Excel file
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" {
		v.logger.Error("file is not an Excel file",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is not an Excel file (extension: %s)", path, ext), nil)
	}

	// Excel leaves ~$ lock files next to open workbooks.
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("skipping temporary Excel file",
			slog.String("file", path))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is a temporary Excel file", path), nil)
	}

	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewValidationError(
			fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewValidationError(
			fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("output directory validated",
		slog.String("directory", dir))
	return nil
}
