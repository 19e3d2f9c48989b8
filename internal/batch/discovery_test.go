package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestDiscoverImageFilesSkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "readme.md"))

	files, err := discoverImageFiles([]string{dir}, false, fileFilter{})
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestDiscoverImageFilesRecursion(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.png"))
	touch(t, filepath.Join(dir, "sub", "nested.png"))

	flat, err := discoverImageFiles([]string{dir}, false, fileFilter{})
	require.NoError(t, err)
	require.Len(t, flat, 1)

	deep, err := discoverImageFiles([]string{dir}, true, fileFilter{})
	require.NoError(t, err)
	require.Len(t, deep, 2)
}

func TestDiscoverImageFilesPatterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "chip_01.png"))
	touch(t, filepath.Join(dir, "chip_02.png"))
	touch(t, filepath.Join(dir, "calib.png"))

	included, err := discoverImageFiles([]string{dir}, false, fileFilter{include: []string{"chip_*.png"}})
	require.NoError(t, err)
	require.Len(t, included, 2)

	excluded, err := discoverImageFiles([]string{dir}, false, fileFilter{exclude: []string{"calib.*"}})
	require.NoError(t, err)
	require.Len(t, excluded, 2)
}

func TestFileFilterAdmit(t *testing.T) {
	require.True(t, fileFilter{}.admit("x.png"))
	require.False(t, fileFilter{}.admit("x.txt"))
	require.False(t, fileFilter{exclude: []string{"x.png"}}.admit("x.png"))
	require.False(t, fileFilter{include: []string{"x.*"}}.admit("y.png"))
}
