package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider — файлы на диске под RootDir/<iin>/<name>.
type LocalProvider struct {
	RootDir string
}

func NewLocalProvider(rootDir string) *LocalProvider {
	return &LocalProvider{RootDir: filepath.Clean(rootDir)}
}

func (p *LocalProvider) Save(iin, name string, r io.Reader, size int64, contentType string) (string, error) {
	name = filepath.Base(name) // безопасность
	dir := filepath.Join(p.RootDir, iin)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	abs := filepath.Join(dir, name)
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(abs)
		return "", fmt.Errorf("write file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(iin, name)), nil
}

func (p *LocalProvider) Remove(location string) error {
	abs := filepath.Join(p.RootDir, filepath.FromSlash(location))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
