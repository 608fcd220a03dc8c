package gridfs_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/constants"
	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const metadataContentType = "contentType"

// GridFSBlobStorage хранит изображения в GridFS. Ключ объекта - имя файла в бакете.
// Бакет открывается на каждую операцию: дедлайны чтения и записи задаются на сам бакет.
type GridFSBlobStorage struct {
	db            *mongo.Database
	bucketName    string
	publicBaseURL string
}

func NewGridFSBlobStorage(db *mongo.Database, bucketName, publicBaseURL string) (*GridFSBlobStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo.Database cannot be nil")
	}
	if bucketName == "" {
		bucketName = constants.DefaultImageBucket
	}
	return &GridFSBlobStorage{
		db:            db,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *GridFSBlobStorage) openBucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket %q: %w", s.bucketName, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set write deadline: %w", err)
		}
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	return bucket, nil
}

// PublicURL не обращается к хранилищу.
func (s *GridFSBlobStorage) PublicURL(key string) string {
	return PublicURL(s.publicBaseURL, key)
}

// PublicURL строит адрес раздачи файла через /media/.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + constants.MediaPathPrefix + strings.TrimLeft(key, "/")
}

// Upload пишет файл, если ключ свободен. Перезаписи нет.
func (s *GridFSBlobStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GridFSBlobStorage",
		"method":    "Upload",
		"key":       key,
	})

	bucket, err := s.openBucket(ctx)
	if err != nil {
		return err
	}

	exists, err := s.exists(ctx, bucket, key)
	if err != nil {
		logger.Error("Failed to check object existence", err, nil)
		return fmt.Errorf("failed to check object existence: %w", err)
	}
	if exists {
		logger.Warn("Object key already taken", nil)
		return domain.ErrObjectExists
	}

	uploadOpts := options.GridFSUpload().SetMetadata(bson.D{{Key: metadataContentType, Value: contentType}})
	fileID, err := bucket.UploadFromStream(key, body, uploadOpts)
	if err != nil {
		logger.Error("Failed to upload object", err, nil)
		return fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Debug("Object uploaded", port.Fields{"file_id": fileID.Hex()})
	return nil
}

// Remove удаляет все версии файлов с указанными ключами. Отсутствующий ключ не ошибка.
func (s *GridFSBlobStorage) Remove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GridFSBlobStorage",
		"method":    "Remove",
		"keys":      keys,
	})

	bucket, err := s.openBucket(ctx)
	if err != nil {
		return err
	}

	ids, err := fileIDs(ctx, bucket, bson.M{"filename": bson.M{"$in": keys}})
	if err != nil {
		logger.Error("Failed to find objects to remove", err, nil)
		return fmt.Errorf("failed to find objects to remove: %w", err)
	}

	for _, id := range ids {
		if err := bucket.DeleteContext(ctx, id); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			logger.Error("Failed to remove object", err, port.Fields{"file_id": id.Hex()})
			return fmt.Errorf("failed to remove object: %w", err)
		}
	}

	logger.Debug("Objects removed", port.Fields{"removed": len(ids)})
	return nil
}

// Open открывает последнюю версию файла для чтения.
func (s *GridFSBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	bucket, err := s.openBucket(ctx)
	if err != nil {
		return nil, "", 0, err
	}

	stream, err := bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", 0, domain.ErrObjectNotFound
		}
		return nil, "", 0, fmt.Errorf("failed to open object: %w", err)
	}

	file := stream.GetFile()
	contentType := domain.DefaultImageContentType
	if len(file.Metadata) > 0 {
		if v, ok := file.Metadata.Lookup(metadataContentType).StringValueOK(); ok && v != "" {
			contentType = v
		}
	}
	return stream, contentType, file.Length, nil
}

func (s *GridFSBlobStorage) exists(ctx context.Context, bucket *gridfs.Bucket, key string) (bool, error) {
	ids, err := fileIDs(ctx, bucket, bson.M{"filename": key})
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func fileIDs(ctx context.Context, bucket *gridfs.Bucket, filter interface{}) ([]primitive.ObjectID, error) {
	cursor, err := bucket.FindContext(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	return ids, nil
}
