package config

import (
	"context"
	"testing"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/gogf/gf/v2/os/gcfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, content string) *gcfg.Config {
	t.Helper()
	adapter, err := gcfg.NewAdapterContent(content)
	require.NoError(t, err)
	return gcfg.NewWithAdapter(adapter)
}

func TestLoadFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("默认值", func(t *testing.T) {
		c := newTestConfig(t, `
vectorStore:
  type: memory
embedding:
  apiKey: sk-test
`)
		cfg, err := LoadFrom(ctx, c)
		require.NoError(t, err)

		assert.Equal(t, 1800, cfg.Chunk.ChunkChars)
		assert.Equal(t, 250, cfg.Chunk.Overlap)
		assert.Equal(t, 12, cfg.Retriever.TopK)
		assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
		assert.Equal(t, 1536, cfg.Embedding.Dimension)
		assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
		assert.InDelta(t, 0.2, cfg.Chat.Temperature, 1e-6)
		assert.Equal(t, 60*time.Second, cfg.Chat.Timeout)
		assert.Equal(t, "openai", cfg.Chat.Provider)
		assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	})

	t.Run("完整配置", func(t *testing.T) {
		c := newTestConfig(t, `
server:
  address: ":9000"
database:
  default:
    host: "127.0.0.1"
    port: "5433"
    user: "quote"
    pass: "secret"
    name: "quoterisk"
embedding:
  provider: compatible
  model: bge-m3
  dimension: 1024
  timeout: 5
chat:
  provider: qwen
  model: qwen-plus
  maxRetries: 3
chunk:
  chars: 800
  overlap: 100
retriever:
  topK: 8
`)
		cfg, err := LoadFrom(ctx, c)
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.Server.Address)
		assert.Equal(t, "pgvector", cfg.VectorStore.Type)
		assert.Equal(t, "5433", cfg.Database.Port)
		assert.Equal(t, "quoterisk", cfg.Database.Name)
		assert.Equal(t, 1024, cfg.Embedding.Dimension)
		assert.Equal(t, 5*time.Second, cfg.Embedding.Timeout)
		assert.Equal(t, "qwen", cfg.Chat.Provider)
		assert.Equal(t, 3, cfg.Chat.MaxRetries)
		assert.Equal(t, 800, cfg.Chunk.ChunkChars)
		assert.Equal(t, 8, cfg.Retriever.TopK)
	})

	t.Run("非法配置一次性报告", func(t *testing.T) {
		c := newTestConfig(t, `
vectorStore:
  type: pgvector
chunk:
  chars: 100
  overlap: 100
retriever:
  topK: 0
chat:
  provider: claude
`)
		_, err := LoadFrom(ctx, c)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrConfigInvalid))
		msg := err.Error()
		assert.Contains(t, msg, "chunk overlap")
		assert.Contains(t, msg, "retriever.topK")
		assert.Contains(t, msg, "chat.provider")
		assert.Contains(t, msg, "database.default.host")
	})
}
