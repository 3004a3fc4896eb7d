package knowledge

import (
	"context"
	"testing"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	store := vector_store.NewMemoryStore(2)
	err := store.WithTransaction(ctx, func(w vector_store.DocumentWriter) error {
		doc := &schema.Document{ID: "d1", Title: "terms.txt", ContentHash: "h1"}
		if err := w.CreateDocument(ctx, doc); err != nil {
			return err
		}
		return w.CreateChunks(ctx, []*schema.Chunk{
			{ID: "c0", DocumentID: "d1", ChunkIndex: 0, Text: "first", Embedding: []float32{1, 0}},
			{ID: "c1", DocumentID: "d1", ChunkIndex: 1, Text: "second", Embedding: []float32{0, 1}},
		})
	})
	require.NoError(t, err)
	svc := NewService(store)

	t.Run("查看来源", func(t *testing.T) {
		detail, err := svc.GetSource(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "terms.txt", detail.Document.Title)
		require.Len(t, detail.Chunks, 2)
		assert.Equal(t, "first", detail.Chunks[0].Text)
	})

	t.Run("来源不存在", func(t *testing.T) {
		_, err := svc.GetSource(ctx, "missing")
		assert.True(t, errors.HasCode(err, errors.ErrDocumentNotFound))
		_, err = svc.GetSource(ctx, " ")
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))
	})

	t.Run("删除后内容可重新导入", func(t *testing.T) {
		require.NoError(t, svc.DeleteDocument(ctx, "d1"))
		exists, err := store.ExistsByContentHash(ctx, "h1")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.True(t, errors.HasCode(svc.DeleteDocument(ctx, "d1"), errors.ErrDocumentNotFound))
	})
}
