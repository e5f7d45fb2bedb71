package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePerm is the default permission for files the application creates.
const FilePerm os.FileMode = 0o644

// AtomicWriteFile writes data to a file atomically using a temp file and rename.
// If the target file already exists, its permissions are preserved; otherwise perm is used.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	// Preserve existing file permissions when overwriting.
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonpad-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
