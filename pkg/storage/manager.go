package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	errs "inatexport/pkg/errors"
)

// PhotosDirName is the subdirectory of the output directory that holds
// downloaded photos. The review page references photos relative to the
// output directory, so the name is part of the output contract.
const PhotosDirName = "photos"

// Manager handles output directory layout and photo file operations
type Manager struct {
	outputDir string
	photosDir string
}

// NewManager creates a storage manager rooted at outputDir, creating the
// directory and its photos/ subdirectory. Directory creation failure is
// a filesystem error and fatal for the whole run, so it is surfaced here
// before any network activity.
func NewManager(outputDir string) (*Manager, error) {
	photosDir := filepath.Join(outputDir, PhotosDirName)

	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return nil, errs.Newf(errs.ErrorTypeFilesystem, 0,
			"failed to create output directory %s: %v", photosDir, err)
	}

	return &Manager{
		outputDir: outputDir,
		photosDir: photosDir,
	}, nil
}

// PhotoFileName returns the deterministic local filename for a photo:
// observation id and 1-based ordinal in API order.
func PhotoFileName(observationID, ordinal int, extension string) string {
	return fmt.Sprintf("%d_%d.%s", observationID, ordinal, extension)
}

// PhotoPath returns the absolute path for a photo filename
func (m *Manager) PhotoPath(filename string) string {
	return filepath.Join(m.photosDir, filename)
}

// PhotoRelPath returns the photo path relative to the output directory,
// as referenced from the review page.
func (m *Manager) PhotoRelPath(filename string) string {
	return filepath.ToSlash(filepath.Join(PhotosDirName, filename))
}

// PhotoExists reports whether a photo file was already downloaded
func (m *Manager) PhotoExists(filename string) bool {
	_, err := os.Stat(m.PhotoPath(filename))
	return err == nil
}

// SavePhoto writes photo data via a temporary file and atomic rename
func (m *Manager) SavePhoto(r io.Reader, filename string) error {
	path := m.PhotoPath(filename)
	tempPath := path + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to create temporary file: %v", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to save photo data: %v", err)
	}

	if closeErr != nil {
		os.Remove(tempPath)
		return errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to close file: %v", closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to rename temporary file: %v", err)
	}

	return nil
}

// WriteFile creates a file in the output directory and passes its writer
// to fn, used for the CSV and review page outputs. Returns the full path
// of the written file.
func (m *Manager) WriteFile(name string, fn func(io.Writer) error) (string, error) {
	path := filepath.Join(m.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to create %s: %v", path, err)
	}

	writeErr := fn(f)
	closeErr := f.Close()

	if writeErr != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return "", errs.Newf(errs.ErrorTypeFilesystem, 0, "failed to close %s: %v", path, closeErr)
	}

	return path, nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// PhotosDir returns the photos directory path
func (m *Manager) PhotosDir() string {
	return m.photosDir
}
