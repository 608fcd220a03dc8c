package port

import (
	"context"
	"io"
)

// BlobStoragePort - хранилище файлов с публичными URL.
type BlobStoragePort interface {
	// Upload не перезаписывает существующий ключ: возвращает domain.ErrObjectExists.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Remove(ctx context.Context, keys []string) error
	// PublicURL - чистая функция от ключа.
	PublicURL(key string) string
}

// BlobReaderPort отдает сохраненный файл для раздачи по публичному URL.
type BlobReaderPort interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, int64, error)
}
