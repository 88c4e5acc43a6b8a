package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioStore stores artifacts in a single bucket of an S3-compatible
// service. Public URLs are built from STORAGE_PUBLIC_URL so a CDN or
// the service's public endpoint can front the bucket.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewMinioStore(client *minio.Client) *MinioStore {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "videos"
	}
	publicBase := os.Getenv("STORAGE_PUBLIC_URL")
	if publicBase == "" {
		scheme := "http"
		if os.Getenv("STORAGE_USE_SSL") == "true" {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, client.EndpointURL().Host)
	}
	return &MinioStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *MinioStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	return err
}

func (s *MinioStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key)
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Rename is a server-side copy followed by a remove; S3 has no native
// rename primitive.
func (s *MinioStore) Rename(ctx context.Context, oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: newKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: oldKey},
	)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, oldKey, minio.RemoveObjectOptions{})
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}
