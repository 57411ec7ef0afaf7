package file

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Ensure the parent directory of the given path exists.
func EnsureDirectoryExists(path string) error {
	directory := filepath.Dir(path)

	_, err := os.Stat(directory)

	if os.IsNotExist(err) {
		if err := os.MkdirAll(directory, 0750); err != nil {
			slog.Error("Failed to create directory", "directory", directory, "error", err)
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}
