package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "inatexport/pkg/errors"
)

func TestNewManagerCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	m, err := NewManager(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, PhotosDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, m.OutputDir())
}

func TestNewManagerUnwritableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, directory permissions are not enforced")
	}

	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0555))
	t.Cleanup(func() { _ = os.Chmod(parent, 0755) })

	_, err := NewManager(filepath.Join(parent, "out"))
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeFilesystem))
}

func TestPhotoFileName(t *testing.T) {
	assert.Equal(t, "12345_1.jpg", PhotoFileName(12345, 1, "jpg"))
	assert.Equal(t, "12345_3.png", PhotoFileName(12345, 3, "png"))
}

func TestSavePhotoAndExists(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	filename := PhotoFileName(100, 1, "jpg")
	assert.False(t, m.PhotoExists(filename))

	require.NoError(t, m.SavePhoto(strings.NewReader("photo-bytes"), filename))
	assert.True(t, m.PhotoExists(filename))

	data, err := os.ReadFile(m.PhotoPath(filename))
	require.NoError(t, err)
	assert.Equal(t, "photo-bytes", string(data))
}

func TestSavePhotoLeavesNoTempFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.SavePhoto(strings.NewReader("data"), "1_1.jpg"))

	entries, err := os.ReadDir(m.PhotosDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestPhotoRelPath(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "photos/100_1.jpg", m.PhotoRelPath("100_1.jpg"))
}

func TestWriteFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	path, err := m.WriteFile("observations.csv", func(w io.Writer) error {
		_, err := w.Write([]byte("header\n"))
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "header\n", string(data))
}
