package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dcode-github/rishstay/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gridFSBucket = "propertyImages"
	ImageRoute   = "/api/property/image/"
)

type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFS(db *mongo.Database, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(gridFSBucket))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (g *GridFS) Upload(ctx context.Context, u Upload) (models.Image, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": u.ContentType})
	id, err := g.bucket.UploadFromStream(objectName(u.Filename, u.ContentType), u.Body, opts)
	if err != nil {
		return models.Image{}, fmt.Errorf("gridfs upload %s: %w", u.Filename, err)
	}
	return models.Image{URL: g.baseURL + ImageRoute + id.Hex(), PublicID: id.Hex()}, nil
}

func (g *GridFS) Delete(ctx context.Context, publicID string) error {
	id, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return fmt.Errorf("gridfs delete %s: %w", publicID, ErrImageNotFound)
	}
	if err := g.bucket.Delete(id); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("gridfs delete %s: %w", publicID, err)
	}
	return nil
}

func (g *GridFS) Open(ctx context.Context, publicID string) (io.ReadCloser, string, error) {
	id, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return nil, "", ErrImageNotFound
	}

	stream, err := g.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", fmt.Errorf("gridfs open %s: %w", publicID, err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && len(file.Metadata) > 0 {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			contentType = ct
		}
	}
	return stream, contentType, nil
}
