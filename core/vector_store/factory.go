package vector_store

import (
	"github.com/Malowking/quoterisk/core/errors"
)

// NewVectorStore 根据配置创建向量存储实例
func NewVectorStore(config *VectorStoreConfig) (VectorStore, error) {
	if config == nil {
		return nil, errors.New(errors.ErrConfigInvalid, "config cannot be nil")
	}

	switch config.Type {
	case VectorStoreTypePostgreSQL:
		store, err := NewPostgresStore(config)
		if err != nil {
			return nil, err
		}
		return store, nil
	case VectorStoreTypeMemory:
		if store, ok := config.Client.(*MemoryStore); ok {
			return store, nil
		}
		return NewMemoryStore(config.Dimension), nil
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unsupported vector store type: %s", config.Type)
	}
}
