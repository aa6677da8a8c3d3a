// Package testutil holds test helpers for Markdown source and output trees.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// WriteTree writes files (slash-separated relative path to content) under dir.
func WriteTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
}

// FileAssertions asserts on the state of a generated output tree.
type FileAssertions struct {
	t       testing.TB
	baseDir string
}

// NewFileAssertions creates a new file assertions helper rooted at baseDir.
func NewFileAssertions(t testing.TB, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileNotExists validates that a file does not exist.
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileContains validates that a file contains every expected fragment.
func (fa *FileAssertions) AssertFileContains(rel string, expected ...string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	for _, e := range expected {
		assert.Contains(fa.t, string(content), e, "file %s", rel)
	}
	return fa
}

// AssertFileNotContains validates that a file contains none of the fragments.
func (fa *FileAssertions) AssertFileNotContains(rel string, unexpected ...string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	for _, u := range unexpected {
		assert.NotContains(fa.t, string(content), u, "file %s", rel)
	}
	return fa
}

// CountFiles returns the number of files below the base directory with the
// given extension, recursively. An empty ext counts every file.
func (fa *FileAssertions) CountFiles(ext string) int {
	fa.t.Helper()
	n := 0
	err := filepath.WalkDir(fa.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (ext == "" || strings.EqualFold(filepath.Ext(path), ext)) {
			n++
		}
		return nil
	})
	require.NoError(fa.t, err)
	return n
}
