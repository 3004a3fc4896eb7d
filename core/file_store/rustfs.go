package file_store

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type RustfsConfig struct {
	Client     *minio.Client
	BucketName string // rustfs:///prefix 形式的根路径使用的默认 bucket
}

// InitRustFS 创建 RustFS（S3 兼容）客户端，默认 bucket 不存在时创建
func InitRustFS(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, ssl bool) (*RustfsConfig, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create MinIO client")
	}

	if bucketName == "" {
		return &RustfsConfig{Client: client}, nil
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSourceUnavailable, err, "failed to check if bucket exists")
	}
	if !exists {
		if err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(errors.ErrSourceUnavailable, err, "failed to create bucket")
		}
		g.Log().Infof(ctx, "Created bucket '%s'", bucketName)
	}

	return &RustfsConfig{Client: client, BucketName: bucketName}, nil
}

// RustfsSource 对象存储来源，根路径形如 rustfs://bucket/prefix 或 rustfs:///prefix
type RustfsSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// ParseRustfsURI 拆分 rustfs://bucket/prefix，bucket 为空时使用 defaultBucket
func ParseRustfsURI(uri, defaultBucket string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, rustfsScheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		bucket = defaultBucket
	}
	if bucket == "" {
		return "", "", errors.Newf(errors.ErrInvalidParameter, "missing bucket in %s", uri)
	}
	return bucket, prefix, nil
}

// NewRustfsSource bucket 必须已存在
func NewRustfsSource(ctx context.Context, client *minio.Client, uri, defaultBucket string) (*RustfsSource, error) {
	bucket, prefix, err := ParseRustfsURI(uri, defaultBucket)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, err, "check bucket %s", bucket)
	}
	if !exists {
		return nil, errors.Newf(errors.ErrInvalidParameter, "bucket not found: %s", bucket)
	}
	return &RustfsSource{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *RustfsSource) Type() StorageType { return StorageTypeRustFS }

func (s *RustfsSource) Root() string { return rustfsScheme + path.Join(s.bucket, s.prefix) }

// Walk 先列出全部对象再排序，保证一次运行内顺序确定
func (s *RustfsSource) Walk(ctx context.Context, fn func(entry Entry) error) error {
	keys, err := s.listKeys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		entry := Entry{
			Key:     key,
			Locator: rustfsScheme + s.bucket + "/" + key,
			Name:    path.Base(key),
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// listKeys 提前返回时取消 ctx，ListObjects 的后台 goroutine 才会退出
func (s *RustfsSource) listKeys(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrapf(errors.ErrSourceUnavailable, obj.Err, "list objects in %s", s.Root())
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RustfsSource) Open(ctx context.Context, entry Entry) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, entry.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDocumentParseFailed, err, "get object %s", entry.Locator)
	}
	return obj, nil
}
