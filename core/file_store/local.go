package file_store

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Malowking/quoterisk/core/errors"
)

// LocalSource 本地目录来源
type LocalSource struct {
	root string
}

// NewLocalSource 根目录必须存在且是目录
func NewLocalSource(root string) (*LocalSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidParameter, err, "invalid source path %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidParameter, "path not found or not a directory: %s", root)
	}
	return &LocalSource{root: abs}, nil
}

func (s *LocalSource) Type() StorageType { return StorageTypeLocal }

func (s *LocalSource) Root() string { return s.root }

// Walk filepath.WalkDir 按字典序遍历，跳过目录和非普通文件
func (s *LocalSource) Walk(ctx context.Context, fn func(entry Entry) error) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(errors.ErrSourceUnavailable, err, "walk %s", path)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return fn(Entry{Key: path, Locator: path, Name: d.Name()})
	})
}

func (s *LocalSource) Open(ctx context.Context, entry Entry) (io.ReadCloser, error) {
	f, err := os.Open(entry.Key)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDocumentParseFailed, err, "open %s", entry.Key)
	}
	return f, nil
}
