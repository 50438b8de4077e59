package storage

import (
	"fmt"
	"io"

	"zhasqoldau/internal/config"
)

// Provider — узкий интерфейс хранилища документов. Файлы группируются
// по ИИН заявителя; name уже содержит коллизионно-стойкий суффикс.
type Provider interface {
	Save(iin, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(location string) error
}

// NewProvider — выбор бэкенда по конфигу: локальный диск или MinIO.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Storage.Backend {
	case "local":
		return NewLocalProvider(cfg.Files.RootDir), nil
	case "minio":
		return NewMinioProvider(
			cfg.Storage.MinioEndpoint,
			cfg.Storage.MinioAccessKey,
			cfg.Storage.MinioSecretKey,
			cfg.Storage.MinioBucket,
			cfg.Storage.MinioUseSSL,
		)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
