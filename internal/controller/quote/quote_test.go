package quote

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Malowking/quoterisk/api/quote/v1"
	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/extractor"
	"github.com/Malowking/quoterisk/core/indexer"
	"github.com/Malowking/quoterisk/core/splitter"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/internal/logic/knowledge"
	"github.com/Malowking/quoterisk/internal/service"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func newTestController(t *testing.T) (*ControllerV1, *vector_store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	mem := vector_store.NewMemoryStore(2)
	extractors, err := extractor.NewDefaultRegistry(ctx)
	require.NoError(t, err)

	cfg := &config.Config{Chunk: splitter.Config{ChunkChars: 40, Overlap: 10}}
	svc := &service.Services{
		Config:    cfg,
		Pipeline:  indexer.NewPipeline(mem, fakeEmbedder{}, extractors, nil, cfg.Chunk),
		Knowledge: knowledge.NewService(mem),
	}
	return &ControllerV1{svc: svc}, mem
}

func TestChunkConfig(t *testing.T) {
	def := splitter.Config{ChunkChars: 1800, Overlap: 250}

	t.Run("未指定时使用默认值", func(t *testing.T) {
		assert.Nil(t, chunkConfig(def, nil, nil))
	})

	t.Run("部分覆盖", func(t *testing.T) {
		cfg := chunkConfig(def, common.Of(500), nil)
		require.NotNil(t, cfg)
		assert.Equal(t, splitter.Config{ChunkChars: 500, Overlap: 250}, *cfg)

		cfg = chunkConfig(def, nil, common.Of(0))
		assert.Equal(t, splitter.Config{ChunkChars: 1800, Overlap: 0}, *cfg)
	})
}

func TestControllerV1(t *testing.T) {
	ctx := context.Background()

	t.Run("健康检查", func(t *testing.T) {
		c, _ := newTestController(t)
		res, err := c.Health(ctx, &v1.HealthReq{})
		require.NoError(t, err)
		assert.True(t, res.Ok)
	})

	t.Run("导入 查看 删除", func(t *testing.T) {
		c, mem := newTestController(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "matrix.txt"),
			[]byte("Controller C-200 requires firmware 5.2 or later for 100G cabling."), 0o644))

		res, err := c.Ingest(ctx, &v1.IngestReq{Path: dir, ProductLine: "storage", EffectiveDate: "2025-01-15", ChunkChars: common.Of(30), ChunkOverlap: common.Of(5)})
		require.NoError(t, err)
		assert.Equal(t, 1, res.DocumentsAdded)
		assert.Equal(t, 0, res.DocumentsSkipped)
		assert.Greater(t, res.ChunksAdded, 1)

		again, err := c.Ingest(ctx, &v1.IngestReq{Path: dir})
		require.NoError(t, err)
		assert.Equal(t, 0, again.DocumentsAdded)
		assert.Equal(t, 1, again.DocumentsSkipped)

		hits, err := mem.Search(ctx, []float32{1, 0}, 1, vector_store.Filter{})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		docID := hits[0].Document.ID

		src, err := c.SourceGet(ctx, &v1.SourceGetReq{DocId: docID})
		require.NoError(t, err)
		assert.Equal(t, "matrix.txt", src.Document.Title)
		assert.Equal(t, docID, src.Document.DocId)
		require.NotNil(t, src.Document.EffectiveDate)
		assert.Equal(t, "2025-01-15", *src.Document.EffectiveDate)
		assert.Equal(t, "storage", *src.Document.ProductLine)
		assert.Nil(t, src.Document.Region)

		body, err := sonic.Marshal(src)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"effective_date":"2025-01-15"`)
		assert.Len(t, src.Chunks, res.ChunksAdded)
		for i, chunk := range src.Chunks {
			assert.Equal(t, i, chunk.ChunkIndex)
		}

		_, err = c.DocumentsDelete(ctx, &v1.DocumentsDeleteReq{DocumentId: docID})
		require.NoError(t, err)

		_, err = c.SourceGet(ctx, &v1.SourceGetReq{DocId: docID})
		assert.True(t, errors.HasCode(err, errors.ErrDocumentNotFound))
	})

	t.Run("参数错误不写入", func(t *testing.T) {
		c, mem := newTestController(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("nas support"), 0o644))

		_, err := c.Ingest(ctx, &v1.IngestReq{Path: dir, EffectiveDate: "2024/01/01"})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))

		_, err = c.Ingest(ctx, &v1.IngestReq{Path: dir, ChunkChars: common.Of(10), ChunkOverlap: common.Of(10)})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))

		hits, err := mem.Search(ctx, []float32{1, 0}, 5, vector_store.Filter{})
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
