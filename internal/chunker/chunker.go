package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extract reads relPath under rootPath and returns the exact text spanning
// the 1-based inclusive line range [startLine, endLine]. Line numbers are
// clamped to the file's actual length so a stale span (the file shrank
// since indexing) still returns whatever overlap remains instead of
// erroring.
func Extract(rootPath, relPath string, startLine, endLine int) (string, error) {
	if startLine <= 0 || endLine <= 0 || startLine > endLine {
		return "", fmt.Errorf("chunker: invalid line range %d-%d", startLine, endLine)
	}

	path := filepath.Join(rootPath, relPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("chunker: read %s: %w", relPath, err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if startLine > len(lines) {
		return "", fmt.Errorf("chunker: start line %d past end of %s (%d lines)", startLine, relPath, len(lines))
	}

	end := endLine
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[startLine-1:end], "\n"), nil
}
