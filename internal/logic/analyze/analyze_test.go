package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/report"
	"github.com/Malowking/quoterisk/core/retriever"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	query string
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.query = text
	return []float32{1, 0}, nil
}

type fakeGenerator struct {
	user string
}

func (f *fakeGenerator) Generate(_ context.Context, _, userPrompt string) (string, error) {
	f.user = userPrompt
	return `{"summary": "Insufficient evidence", "risks": []}`, nil
}

func newTestService(t *testing.T) (*Service, *fakeEmbedder, *fakeGenerator) {
	t.Helper()
	ctx := context.Background()
	store := vector_store.NewMemoryStore(2)
	doc := &schema.Document{ID: "doc-1", Title: "matrix.csv", ProductLine: common.Of("storage"), ContentHash: "h"}
	err := store.WithTransaction(ctx, func(w vector_store.DocumentWriter) error {
		if err := w.CreateDocument(ctx, doc); err != nil {
			return err
		}
		return w.CreateChunks(ctx, []*schema.Chunk{
			{ID: "c0", DocumentID: "doc-1", ChunkIndex: 0, Text: "NAS controller needs firmware 5", Embedding: []float32{1, 0}},
			{ID: "c1", DocumentID: "doc-1", ChunkIndex: 1, Text: "Support is sold per year", Embedding: []float32{0, 1}},
		})
	})
	require.NoError(t, err)

	emb := &fakeEmbedder{}
	gen := &fakeGenerator{}
	svc := NewService(emb, retriever.New(store, 12), report.NewSynthesizer(gen))
	return svc, emb, gen
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("完整流程", func(t *testing.T) {
		svc, emb, gen := newTestService(t)
		rep, err := svc.Analyze(ctx, Input{BOMText: "  ABC123456 2x nas controller  ", ProductLine: "storage"})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(emb.query, "ABC123456 2x nas controller\n\nPart numbers:\nABC123456"))
		assert.Contains(t, emb.query, "\n\nKeywords:\ncontroller, nas")
		assert.Contains(t, gen.user, `- quantities: {"ABC123456":2}`)
		assert.Equal(t, "Insufficient evidence", rep.Summary)
		assert.Equal(t, []string{"doc-1"}, rep.RetrievalDiagnostics.TopSources)
		assert.Equal(t, []string{"c0", "c1"}, rep.RetrievalDiagnostics.RetrievedChunkIDs)
	})

	t.Run("topK 覆盖默认值", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		topK := 1
		rep, err := svc.Analyze(ctx, Input{BOMText: "nas", TopK: &topK})
		require.NoError(t, err)
		assert.Equal(t, []string{"c0"}, rep.RetrievalDiagnostics.RetrievedChunkIDs)
	})

	t.Run("检索为空", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Analyze(ctx, Input{BOMText: "nas", Region: "APAC"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrNoRetrievalResult))
	})

	t.Run("参数错误", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Analyze(ctx, Input{BOMText: " \n "})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))

		topK := 0
		_, err = svc.Analyze(ctx, Input{BOMText: "nas", TopK: &topK})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))
	})
}
