package domain

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultImageExtension   = "jpg"
	DefaultImageContentType = "image/jpeg"
	DefaultMaxImageSize     = 5 << 20

	propertyKeyPrefix = "property-"
	heroKeyPrefix     = "heroes/"
)

// допустимые типы изображений, image/jpg приводится к image/jpeg
var allowedImageTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
	"image/webp": "image/webp",
}

// ImageFile - загружаемый файл в том виде, в котором его прислал клиент.
type ImageFile struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PropertyImage - строка property_images.
type PropertyImage struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Path       string
	PublicURL  string
	CreatedAt  time.Time
}

// UploadedImage - результат загрузки файла.
type UploadedImage struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Path       string
	PublicURL  string
}

// ValidateImage проверяет объявленный тип и размер файла и возвращает тип для записи.
func ValidateImage(file ImageFile, maxSize int64) (string, error) {
	contentType, err := NormalizeImageContentType(file.ContentType)
	if err != nil {
		return "", err
	}
	if file.Body == nil || file.Size <= 0 {
		return "", NewValidationError("file", "file is empty")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	if file.Size > maxSize {
		return "", NewValidationError("file", fmt.Sprintf("file is too large (max %d MB)", maxSize>>20))
	}
	return contentType, nil
}

// NormalizeImageContentType разрешает только JPEG, PNG и WebP.
func NormalizeImageContentType(declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", NewValidationError("file", "file type is missing; allowed: jpeg, png, webp")
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", NewValidationError("file", fmt.Sprintf("unsupported file type %q; allowed: jpeg, png, webp", declared))
	}
	normalized, ok := allowedImageTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", NewValidationError("file", fmt.Sprintf("unsupported file type %q; allowed: jpeg, png, webp", declared))
	}
	return normalized, nil
}

// ImageExtension возвращает расширение файла в нижнем регистре без точки.
// Пустое расширение или расширение с посторонними символами заменяется на jpg.
func ImageExtension(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(fileName)), "."))
	if ext == "" || len(ext) > 10 {
		return DefaultImageExtension
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return DefaultImageExtension
		}
	}
	return ext
}

// PropertyImageKey строит ключ вида property-<id>/<uuid>.<ext>.
func PropertyImageKey(propertyID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s%s/%s.%s", propertyKeyPrefix, propertyID, uuid.New(), ImageExtension(fileName))
}

// HeroImageKey строит ключ вида heroes/<uuid>.<ext>.
func HeroImageKey(fileName string) string {
	return fmt.Sprintf("%s%s.%s", heroKeyPrefix, uuid.New(), ImageExtension(fileName))
}
