// Package dao is the data access layer of the investor deck:
// object storage, the order ledger sidecar, and the access-code table.
package dao

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/minio/minio-go/v7"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Storage is the capability set the deck needs from a blob store.
// One implementation is selected at startup; services never talk to
// the backing client directly.
type Storage interface {
	// List returns the objects directly under folder. A missing or
	// empty folder yields an empty slice, not an error.
	List(ctx context.Context, folder string) ([]ObjectInfo, error)
	// Upload stores data at path. With overwrite it is an upsert;
	// without, an existing object rejects the upload.
	Upload(ctx context.Context, path string, data []byte, contentType string, overwrite bool) error
	// Download returns the object content, model.ErrNotFound when absent.
	Download(ctx context.Context, path string) ([]byte, error)
	// Remove deletes the given paths; missing paths are not errors.
	Remove(ctx context.Context, paths ...string) error
	// PublicURL derives the public address of path. Pure, no network
	// call, and no caching: callers append their own cache-busting
	// query parameter.
	PublicURL(path string) string
}

// S3Storage implements Storage against one bucket of an S3-compatible store.
type S3Storage struct {
	cli        *minio.Client
	bucket     string
	publicBase string
}

func NewS3Storage(cli *minio.Client, bucket, publicBase string) *S3Storage {
	return &S3Storage{
		cli:        cli,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

func (s *S3Storage) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"

	var infos []ObjectInfo
	for obj := range s.cli.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrapf(model.ErrStoreUnavailable,
				"list %q: %s", folder, obj.Err)
		}

		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" { // folder marker object
			continue
		}

		infos = append(infos, ObjectInfo{
			Name:         name,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return infos, nil
}

func (s *S3Storage) Upload(ctx context.Context,
	path string, data []byte, contentType string, overwrite bool) error {
	if !overwrite {
		if _, err := s.cli.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err == nil {
			return errors.Wrapf(model.ErrUploadRejected, "object %q already exists", path)
		}
	}

	_, err := s.cli.PutObject(ctx, s.bucket, path,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "EntityTooLarge" ||
			resp.Code == "QuotaExceeded" {
			return errors.Wrapf(model.ErrUploadRejected, "put %q: %s", path, err)
		}

		return errors.Wrapf(model.ErrStoreUnavailable, "put %q: %s", path, err)
	}

	return nil
}

func (s *S3Storage) Download(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(model.ErrStoreUnavailable, "get %q: %s", path, err)
	}
	defer obj.Close()

	cnt, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Wrapf(model.ErrNotFound, "object %q", path)
		}

		return nil, errors.Wrapf(model.ErrStoreUnavailable, "read %q: %s", path, err)
	}

	return cnt, nil
}

func (s *S3Storage) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		// S3 delete is idempotent, a missing key answers success
		err := s.cli.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{})
		if err != nil {
			return errors.Wrapf(model.ErrStoreUnavailable, "remove %q: %s", p, err)
		}
	}

	return nil
}

func (s *S3Storage) PublicURL(path string) string {
	return s.publicBase + "/" + strings.TrimPrefix(path, "/")
}
