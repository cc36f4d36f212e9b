package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFilename derives a stored filename from the uploaded one by
// inserting a short random suffix before the extension, so repeated uploads
// of the same file never collide.
func UniqueFilename(originalFilename string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		return fmt.Sprintf("%s_%s", originalFilename, suffix)
	}
	base := strings.TrimSuffix(originalFilename, ext)
	return fmt.Sprintf("%s_%s%s", base, suffix, ext)
}

// BaseFilename strips the directory and extension from a file name.
func BaseFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
