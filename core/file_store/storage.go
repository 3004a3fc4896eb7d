package file_store

import (
	"context"
	"io"
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
)

// StorageType 文档来源类型
type StorageType string

const (
	StorageTypeRustFS StorageType = "rustfs"
	StorageTypeLocal  StorageType = "local"

	rustfsScheme = "rustfs://"
)

// Entry 来源中的一个文件
type Entry struct {
	Key     string // 存储内部定位（本地绝对路径或对象 key）
	Locator string // 对外展示的来源定位，写入 source_path
	Name    string // 文件名，作为文档标题
}

// Source 可遍历的文档来源。Walk 在一次调用内按确定的字典序返回文件。
type Source interface {
	Type() StorageType
	Root() string
	Walk(ctx context.Context, fn func(entry Entry) error) error
	Open(ctx context.Context, entry Entry) (io.ReadCloser, error)
}

// Open 根据根路径选择来源：rustfs://bucket/prefix 走对象存储（bucket 可省略，
// 使用配置的默认 bucket），其余按本地目录处理
func Open(ctx context.Context, root string, rustfs *RustfsConfig) (Source, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "source path is required")
	}
	if strings.HasPrefix(root, rustfsScheme) {
		if rustfs == nil || rustfs.Client == nil {
			return nil, errors.Newf(errors.ErrInvalidParameter, "rustfs is not configured, cannot ingest %s", root)
		}
		return NewRustfsSource(ctx, rustfs.Client, root, rustfs.BucketName)
	}
	return NewLocalSource(root)
}
