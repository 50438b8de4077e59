package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderSave(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(root)

	loc, err := p.Save("990101350123", "photo_20260901_ab12.jpg",
		strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "990101350123/photo_20260901_ab12.jpg", loc)

	data, err := os.ReadFile(filepath.Join(root, "990101350123", "photo_20260901_ab12.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestLocalProviderSaveStripsPath(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(root)

	// имя файла не должно выводить запись за пределы каталога ИИН
	loc, err := p.Save("990101350123", "../../etc/passwd", strings.NewReader("x"), 1, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "990101350123/passwd", loc)

	_, err = os.Stat(filepath.Join(root, "990101350123", "passwd"))
	assert.NoError(t, err)
}

func TestLocalProviderRemove(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(root)

	loc, err := p.Save("990101350123", "iin.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)

	require.NoError(t, p.Remove(loc))
	_, err = os.Stat(filepath.Join(root, "990101350123", "iin.pdf"))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление — не ошибка
	assert.NoError(t, p.Remove(loc))
}
