package model

import (
	"context"
	"strings"
	"time"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/gogf/gf/v2/frame/g"
)

// Embedder 在 eino embedding.Embedder 之上增加超时、数量与维度校验
type Embedder struct {
	emb       embedding.Embedder
	model     string
	dimension int
	timeout   time.Duration
}

// NewEmbedder 包装任意 eino Embedder
func NewEmbedder(emb embedding.Embedder, modelName string, dimension int, timeout time.Duration) *Embedder {
	return &Embedder{emb: emb, model: modelName, dimension: dimension, timeout: timeout}
}

// NewEmbedderFromConfig 按 provider 创建 embedding 客户端
func NewEmbedderFromConfig(ctx context.Context, cfg config.EmbeddingConfig) (*Embedder, error) {
	var (
		emb embedding.Embedder
		err error
	)
	switch cfg.Provider {
	case "openai":
		conf := &openai.EmbeddingConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}
		// 只有 text-embedding-3 系列支持指定维度
		if strings.HasPrefix(cfg.Model, "text-embedding-3") {
			dim := cfg.Dimension
			conf.Dimensions = &dim
		}
		emb, err = openai.NewEmbedder(ctx, conf)
	case "compatible":
		emb = NewCompatibleEmbedder(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, err, "failed to create embedder")
	}

	g.Log().Infof(ctx, "Embedding model initialized: provider=%s, model=%s, dimension=%d", cfg.Provider, cfg.Model, cfg.Dimension)
	return NewEmbedder(emb, cfg.Model, cfg.Dimension, cfg.Timeout), nil
}

// Dimension 系统统一的向量维度
func (e *Embedder) Dimension() int {
	return e.dimension
}

// EmbedDocuments 一次批量请求，返回顺序与输入一致
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vectors, err := e.emb.EmbedStrings(callCtx, texts)
	if err != nil {
		if callCtx.Err() != nil {
			err = callCtx.Err()
		}
		return nil, errors.WrapService(errors.ErrEmbeddingFailed, err, "embedding request failed")
	}
	if len(vectors) != len(texts) {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != e.dimension {
			return nil, errors.Newf(errors.ErrConfigInvalid, "embedding model %s returned dimension %d, expected %d", e.model, len(v), e.dimension)
		}
		out[i] = float64ToFloat32(v)
	}
	return out, nil
}

// EmbedQuery 单条查询文本
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func float64ToFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
