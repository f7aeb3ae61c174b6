package chunker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/chunker"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestExtractReturnsExactLineRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.rs", "line1\nline2\nline3\nline4\n")

	content, err := chunker.Extract(dir, "auth.rs", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "line2\nline3", content)
}

func TestExtractClampsEndLineToFileLength(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.rs", "line1\nline2\n")

	content, err := chunker.Extract(dir, "auth.rs", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", content)
}

func TestExtractRejectsInvertedRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.rs", "line1\n")

	_, err := chunker.Extract(dir, "auth.rs", 3, 1)
	assert.Error(t, err)
}

func TestExtractErrorsWhenStartLinePastEndOfFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.rs", "line1\n")

	_, err := chunker.Extract(dir, "auth.rs", 5, 6)
	assert.Error(t, err)
}

func TestExtractErrorsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := chunker.Extract(dir, "missing.rs", 1, 1)
	assert.Error(t, err)
}
