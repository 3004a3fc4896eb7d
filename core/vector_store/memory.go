package vector_store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/pkg/schema"
)

// MemoryStore 进程内存储，同时实现 VectorStore 与 DocumentStore。
// 用于测试和 vectorStore.type=memory 的本地演示，重启后数据丢失。
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	docs      map[string]*schema.Document
	byHash    map[string]string // content_hash -> doc id，模拟唯一约束
	chunks    map[string][]*schema.Chunk
}

// NewMemoryStore dimension <= 0 时不校验向量维度
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		dimension: dimension,
		docs:      make(map[string]*schema.Document),
		byHash:    make(map[string]string),
		chunks:    make(map[string][]*schema.Chunk),
	}
}

// ExistsByContentHash 实现 DocumentStore
func (m *MemoryStore) ExistsByContentHash(_ context.Context, hash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byHash[hash]
	return ok, nil
}

// memoryTx 暂存事务内的写入，提交前对外不可见
type memoryTx struct {
	store  *MemoryStore
	docs   []*schema.Document
	chunks []*schema.Chunk
}

func (tx *memoryTx) CreateDocument(_ context.Context, doc *schema.Document) error {
	if _, ok := tx.store.byHash[doc.ContentHash]; ok {
		return errors.Newf(errors.ErrDuplicateContent, "document with content hash %s already exists", doc.ContentHash)
	}
	for _, d := range tx.docs {
		if d.ContentHash == doc.ContentHash {
			return errors.Newf(errors.ErrDuplicateContent, "document with content hash %s already exists", doc.ContentHash)
		}
	}
	cp := *doc
	tx.docs = append(tx.docs, &cp)
	return nil
}

func (tx *memoryTx) CreateChunks(_ context.Context, chunks []*schema.Chunk) error {
	for _, c := range chunks {
		if tx.store.dimension > 0 && len(c.Embedding) != tx.store.dimension {
			return errors.Newf(errors.ErrConfigInvalid, "chunk embedding dimension %d does not match store dimension %d", len(c.Embedding), tx.store.dimension)
		}
		if !tx.hasDocument(c.DocumentID) {
			return errors.Newf(errors.ErrDatabaseInsert, "chunk %s references unknown document %s", c.ID, c.DocumentID)
		}
		tx.chunks = append(tx.chunks, cloneChunk(c))
	}
	return nil
}

func (tx *memoryTx) hasDocument(id string) bool {
	if _, ok := tx.store.docs[id]; ok {
		return true
	}
	for _, d := range tx.docs {
		if d.ID == id {
			return true
		}
	}
	return false
}

// WithTransaction 持有写锁执行 fn，成功后一次性提交
func (m *MemoryStore) WithTransaction(ctx context.Context, fn func(w DocumentWriter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrTransactionFailed, err, "transaction aborted")
	}

	for _, d := range tx.docs {
		m.docs[d.ID] = d
		m.byHash[d.ContentHash] = d.ID
	}
	for _, c := range tx.chunks {
		m.chunks[c.DocumentID] = append(m.chunks[c.DocumentID], c)
	}
	for _, d := range tx.docs {
		list := m.chunks[d.ID]
		sort.SliceStable(list, func(i, j int) bool { return list[i].ChunkIndex < list[j].ChunkIndex })
	}
	return nil
}

// GetDocument 实现 DocumentStore
func (m *MemoryStore) GetDocument(_ context.Context, id string) (*schema.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.Newf(errors.ErrDocumentNotFound, "document %s not found", id)
	}
	cp := *doc
	return &cp, nil
}

// ListChunks 实现 DocumentStore
func (m *MemoryStore) ListChunks(_ context.Context, documentID string) ([]*schema.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.docs[documentID]; !ok {
		return nil, errors.Newf(errors.ErrDocumentNotFound, "document %s not found", documentID)
	}
	list := m.chunks[documentID]
	out := make([]*schema.Chunk, 0, len(list))
	for _, c := range list {
		out = append(out, cloneChunk(c))
	}
	return out, nil
}

// DeleteDocument 先删分片再删文档
func (m *MemoryStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return errors.Newf(errors.ErrDocumentNotFound, "document %s not found", id)
	}
	delete(m.chunks, id)
	delete(m.byHash, doc.ContentHash)
	delete(m.docs, id)
	return nil
}

// Search 暴力计算余弦距离
func (m *MemoryStore) Search(_ context.Context, query []float32, topK int, filter Filter) ([]*schema.Hit, error) {
	if topK <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "topK must be positive, got %d", topK)
	}
	if m.dimension > 0 && len(query) != m.dimension {
		return nil, errors.Newf(errors.ErrConfigInvalid, "query embedding dimension %d does not match store dimension %d", len(query), m.dimension)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]*schema.Hit, 0)
	for docID, list := range m.chunks {
		doc := m.docs[docID]
		if !matchFilter(doc, filter) {
			continue
		}
		for _, c := range list {
			if c.Embedding == nil {
				continue
			}
			docCopy := *doc
			hits = append(hits, &schema.Hit{
				Chunk:    cloneChunk(c),
				Document: &docCopy,
				Distance: CosineDistance(query, c.Embedding),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Document.ID != b.Document.ID {
			return a.Document.ID < b.Document.ID
		}
		return a.Chunk.ChunkIndex < b.Chunk.ChunkIndex
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Close 无需释放资源
func (m *MemoryStore) Close() {}

func matchFilter(doc *schema.Document, filter Filter) bool {
	if filter.ProductLine != "" && (doc.ProductLine == nil || *doc.ProductLine != filter.ProductLine) {
		return false
	}
	if filter.Region != "" && (doc.Region == nil || *doc.Region != filter.Region) {
		return false
	}
	return true
}

// CosineDistance 1 - cos(a, b)，取值 [0, 2]；任一向量为零向量时返回 1（与 pgvector 的 NaN 不同，这里按无关处理）
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	// 浮点误差
	if d < 0 {
		return 0
	}
	if d > 2 {
		return 2
	}
	return d
}

func cloneChunk(c *schema.Chunk) *schema.Chunk {
	cp := *c
	if c.Embedding != nil {
		cp.Embedding = append([]float32(nil), c.Embedding...)
	}
	if c.Metadata != nil {
		cp.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
