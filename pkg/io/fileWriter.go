package io

import (
	"fmt"
	"os"
	"path/filepath"
)

// MakeDirForFile creates all missing parent directories of filePath, creator
// is only used in the error message (like "logger" or "NEF file").
func MakeDirForFile(filePath string, creator string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return fmt.Errorf("could not create dir for %s: %w", creator, err)
	}
	return nil
}
