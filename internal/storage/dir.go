package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirTopics holds one directory per topic-partition
	DirTopics = "topics"
	// DirMetadata holds the topic metadata database
	DirMetadata = "metadata"
)

// StoragePaths holds the broker's on-disk directory layout.
type StoragePaths struct {
	BaseDir     string
	TopicsDir   string
	MetadataDir string
}

// InitDirectories creates and validates the storage directories.
func InitDirectories(baseDir string) (*StoragePaths, error) {
	baseDir = filepath.Clean(baseDir)

	paths := &StoragePaths{
		BaseDir:     baseDir,
		TopicsDir:   filepath.Join(baseDir, DirTopics),
		MetadataDir: filepath.Join(baseDir, DirMetadata),
	}

	for _, dir := range []string{paths.BaseDir, paths.TopicsDir, paths.MetadataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		if err := validateDirectory(dir); err != nil {
			return nil, fmt.Errorf("directory validation failed for %s: %w", dir, err)
		}
	}

	return paths, nil
}

// validateDirectory checks that a directory exists and is writable.
func validateDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory: %s", path)
	}

	// Probe write permission with a temp file
	testFile := filepath.Join(path, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	//nolint:errcheck // Best-effort probe cleanup
	_ = file.Close()
	//nolint:errcheck
	_ = os.Remove(testFile)

	return nil
}
