// Package s3 creates the shared client for the S3-compatible object store.
package s3

import (
	"github.com/pixelforge-games/studio-api/library/log"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DialInfo defines the object-store connection information.
type DialInfo struct {
	Endpoint,
	AccessKey,
	SecretKey string
	Secure bool
}

// New dials the object store. The minio client is lazy, so the only
// failure mode here is malformed endpoint configuration.
func New(dialInfo DialInfo) (*minio.Client, error) {
	cli, err := minio.New(dialInfo.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(dialInfo.AccessKey, dialInfo.SecretKey, ""),
		Secure: dialInfo.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new s3 client")
	}

	log.Logger.Info("connect to object store",
		zap.String("endpoint", dialInfo.Endpoint))
	return cli, nil
}
