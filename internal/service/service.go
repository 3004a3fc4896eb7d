package service

import (
	"context"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/extractor"
	"github.com/Malowking/quoterisk/core/file_store"
	"github.com/Malowking/quoterisk/core/indexer"
	"github.com/Malowking/quoterisk/core/model"
	"github.com/Malowking/quoterisk/core/report"
	"github.com/Malowking/quoterisk/core/retriever"
	"github.com/Malowking/quoterisk/internal/logic/analyze"
	"github.com/Malowking/quoterisk/internal/logic/knowledge"
	"github.com/gogf/gf/v2/frame/g"
)

// Services 进程内共享的组件，启动时按配置构建一次
type Services struct {
	Config    *config.Config
	Pipeline  *indexer.Pipeline
	Analyzer  *analyze.Service
	Knowledge *knowledge.Service

	stores *stores
}

// New 构建全部组件，任一步失败时释放已创建的连接
func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	embedder, err := model.NewEmbedderFromConfig(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	chatModel, err := model.NewChatModel(ctx, cfg.Chat)
	if err != nil {
		return nil, err
	}
	generator := model.NewGenerator(chatModel, cfg.Chat.Model, cfg.Chat.Timeout, &model.SingleModelRetryConfig{
		MaxRetries: cfg.Chat.MaxRetries,
		RetryDelay: cfg.Chat.RetryDelay,
	})

	extractors, err := extractor.NewDefaultRegistry(ctx)
	if err != nil {
		return nil, err
	}

	// rustfs 为可选来源，未配置 endpoint 时只支持本地目录
	var rustfs *file_store.RustfsConfig
	if cfg.RustFS.Endpoint != "" {
		rustfs, err = file_store.InitRustFS(ctx, cfg.RustFS.Endpoint, cfg.RustFS.AccessKey, cfg.RustFS.SecretKey, cfg.RustFS.BucketName, cfg.RustFS.SSL)
		if err != nil {
			return nil, err
		}
	}

	st, err := initializeStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := &Services{
		Config:    cfg,
		Pipeline:  indexer.NewPipeline(st.documents, embedder, extractors, rustfs, cfg.Chunk),
		Analyzer:  analyze.NewService(embedder, retriever.New(st.vector, cfg.Retriever.TopK), report.NewSynthesizer(generator)),
		Knowledge: knowledge.NewService(st.documents),
		stores:    st,
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
	return svc, nil
}

// Close 释放数据库连接
func (s *Services) Close() {
	if s.stores != nil {
		s.stores.close()
	}
}
