package model

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/sashabaranov/go-openai"
)

// CompatibleEmbedder 面向 OpenAI 兼容网关（vLLM、Ollama、DashScope 等）的 embedding 客户端，
// 不发送 dimensions 参数
type CompatibleEmbedder struct {
	client *openai.Client
	model  string
}

// NewCompatibleEmbedder 创建兼容模式 embedding 客户端
func NewCompatibleEmbedder(apiKey, baseURL, modelName string) *CompatibleEmbedder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &CompatibleEmbedder{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

// EmbedStrings 实现 eino embedding.Embedder，按响应中的 index 还原输入顺序
func (c *CompatibleEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	out := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vec := make([]float64, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float64(v)
		}
		out[item.Index] = vec
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return out, nil
}
