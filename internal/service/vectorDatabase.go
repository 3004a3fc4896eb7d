package service

import (
	"context"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/internal/dao"
	"github.com/gogf/gf/v2/frame/g"
)

// stores 检索与文档持久化两个边界，memory 模式下是同一个实例
type stores struct {
	vector    vector_store.VectorStore
	documents vector_store.DocumentStore
	closeDB   func() error
}

// initializeStores 根据 vectorStore.type 创建存储
func initializeStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	dimension := cfg.Embedding.Dimension
	g.Log().Infof(ctx, "Initializing vector store with type: %s", cfg.VectorStore.Type)

	switch vector_store.VectorStoreType(cfg.VectorStore.Type) {
	case vector_store.VectorStoreTypePostgreSQL:
		// gorm 负责建表与迁移，必须先于列宽校验
		db, err := dao.InitDB(ctx, cfg.Database, dimension)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to get database instance")
		}

		store, err := vector_store.InitializePostgresStore(ctx, dao.BuildDSN(cfg.Database), dimension)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		g.Log().Info(ctx, "PostgreSQL vector store initialized successfully")
		return &stores{
			vector:    store,
			documents: dao.NewDocumentDAO(db),
			closeDB:   sqlDB.Close,
		}, nil

	case vector_store.VectorStoreTypeMemory:
		mem := vector_store.NewMemoryStore(dimension)
		store, err := vector_store.NewVectorStore(&vector_store.VectorStoreConfig{
			Type:      vector_store.VectorStoreTypeMemory,
			Client:    mem,
			Dimension: dimension,
		})
		if err != nil {
			return nil, err
		}
		g.Log().Warning(ctx, "Memory vector store initialized, data is lost on restart")
		return &stores{vector: store, documents: mem}, nil

	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unsupported vector database type: %s. Supported types: pgvector, memory", cfg.VectorStore.Type)
	}
}

func (s *stores) close() {
	s.vector.Close()
	if s.closeDB != nil {
		_ = s.closeDB()
	}
}
