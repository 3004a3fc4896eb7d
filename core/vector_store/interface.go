package vector_store

import (
	"context"

	"github.com/Malowking/quoterisk/pkg/schema"
)

// VectorStoreType 向量存储类型
type VectorStoreType string

const (
	VectorStoreTypePostgreSQL VectorStoreType = "pgvector"
	VectorStoreTypeMemory     VectorStoreType = "memory"
)

// VectorStoreConfig 向量存储配置
type VectorStoreConfig struct {
	Type      VectorStoreType // 向量存储类型
	Client    interface{}     // 客户端实例（pgvector 为 *pgxpool.Pool）
	Dimension int             // 向量维度，必须与 embedding 列宽度一致
}

// Filter 文档分类字段的等值过滤，空字符串表示不过滤
type Filter struct {
	ProductLine string
	Region      string
}

// VectorStore 相似度检索
type VectorStore interface {
	// Search 按余弦距离升序返回至多 topK 条结果；无匹配时返回空切片
	Search(ctx context.Context, query []float32, topK int, filter Filter) ([]*schema.Hit, error)

	// Close 释放底层连接
	Close()
}

// DocumentWriter 事务内的写操作
type DocumentWriter interface {
	// CreateDocument 内容指纹重复时返回 ErrDuplicateContent
	CreateDocument(ctx context.Context, doc *schema.Document) error

	// CreateChunks 按 chunk_index 顺序批量写入
	CreateChunks(ctx context.Context, chunks []*schema.Chunk) error
}

// DocumentStore 文档与分片的持久化
type DocumentStore interface {
	// ExistsByContentHash 去重快速路径，存储层唯一约束才是最终保证
	ExistsByContentHash(ctx context.Context, hash string) (bool, error)

	// WithTransaction fn 返回错误时回滚，所有写入对外不可见
	WithTransaction(ctx context.Context, fn func(w DocumentWriter) error) error

	// GetDocument 不存在时返回 ErrDocumentNotFound
	GetDocument(ctx context.Context, id string) (*schema.Document, error)

	// ListChunks 按 chunk_index 升序
	ListChunks(ctx context.Context, documentID string) ([]*schema.Chunk, error)

	// DeleteDocument 在同一事务内先删除分片再删除文档
	DeleteDocument(ctx context.Context, id string) error
}
