package retriever

import (
	"context"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Retriever 向量相似度检索
type Retriever struct {
	store       vector_store.VectorStore
	defaultTopK int
}

// New defaultTopK 为请求未指定 TopK 时的取值
func New(store vector_store.VectorStore, defaultTopK int) *Retriever {
	return &Retriever{store: store, defaultTopK: defaultTopK}
}

// Retrieve 按余弦距离升序返回至多 topK 条结果。
// 没有满足过滤条件的分片时返回空切片和 nil，调用方需要与检索失败区分。
func (r *Retriever) Retrieve(ctx context.Context, req *RetrieveReq) ([]*schema.Hit, error) {
	if req == nil || len(req.Embedding) == 0 {
		return nil, errors.New(errors.ErrInvalidParameter, "query embedding is required")
	}

	topK := r.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "top_k must be positive, got %d", topK)
	}

	start := time.Now()
	hits, err := r.store.Search(ctx, req.Embedding, topK, req.filter())
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.WrapService(errors.ErrRetrievalFailed, err, "vector search failed")
	}
	if hits == nil {
		hits = []*schema.Hit{}
	}

	g.Log().Debugf(ctx, "Retrieved %d chunks in %v, topK=%d, product_line=%q, region=%q",
		len(hits), time.Since(start), topK, req.ProductLine, req.Region)
	return hits, nil
}
