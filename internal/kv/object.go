// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Object stores each key as a JSON object <key>.json in an S3-compatible bucket.
type Object struct {
	client *minio.Client
	bucket string
}

var _ Backend = (*Object)(nil)

// OpenObject connects to the endpoint in cfg and creates the bucket if it
// does not exist.
func OpenObject(ctx context.Context, cfg types.StoreConfig) (*Object, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, eris.New("object store: endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "object store: create client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, eris.Wrapf(err, "object store: check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, eris.Wrapf(err, "object store: create bucket %s", cfg.Bucket)
		}
	}

	return &Object{client: client, bucket: cfg.Bucket}, nil
}

func objectName(key string) string {
	return key + ".json"
}

// isNoSuchKey reports whether err is the S3 "object does not exist" response.
func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// Get implements Backend.
func (o *Object) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	obj, err := o.client.GetObject(ctx, o.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, eris.Wrapf(err, "object store: get %s", key)
	}
	defer obj.Close()

	// GetObject is lazy; a missing object surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, eris.Wrapf(err, "object store: read %s", key)
	}
	return string(data), true, nil
}

// Set implements Backend.
func (o *Object) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := o.client.PutObject(ctx, o.bucket, objectName(key),
		strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return eris.Wrapf(err, "object store: put %s", key)
	}
	return nil
}

// Delete implements Backend.
func (o *Object) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := o.client.RemoveObject(ctx, o.bucket, objectName(key), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return eris.Wrapf(err, "object store: delete %s", key)
	}
	return nil
}

// Close implements Backend.
func (o *Object) Close() error { return nil }
