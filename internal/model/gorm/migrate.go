package gorm

import (
	"context"
	"fmt"

	"github.com/gogf/gf/v2/os/glog"
	"gorm.io/gorm"
)

const (
	TableQuoteDocuments = "quote_documents"
	TableQuoteChunks    = "quote_chunks"
)

// Migrate 数据库迁移：安装 pgvector 扩展、建表、固定 embedding 列宽度并建立余弦索引
func Migrate(db *gorm.DB, dimension int) error {
	ctx := context.Background()

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		glog.Error(ctx, "创建 pgvector 扩展失败:", err)
		return fmt.Errorf("failed to create pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&QuoteDocuments{}, &QuoteChunks{}); err != nil {
		glog.Error(ctx, "数据库迁移失败:", err)
		return err
	}

	width, err := EmbeddingWidth(db)
	if err != nil {
		return err
	}
	switch {
	case width == dimension:
	case width <= 0:
		// 新建的列没有宽度
		sql := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN embedding TYPE vector(%d)", TableQuoteChunks, dimension)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to set embedding dimension: %w", err)
		}
	default:
		return fmt.Errorf("column %s.embedding has dimension %d, configured embedding dimension is %d", TableQuoteChunks, width, dimension)
	}

	sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_quote_chunks_embedding ON %s USING hnsw (embedding vector_cosine_ops)", TableQuoteChunks)
	if err := db.Exec(sql).Error; err != nil {
		glog.Warningf(ctx, "创建向量索引失败，检索将退化为顺序扫描: %v", err)
	}

	glog.Info(ctx, "数据库迁移成功")
	return nil
}

// EmbeddingWidth 读取 embedding 列声明的维度，未声明时返回 -1
func EmbeddingWidth(db *gorm.DB) (int, error) {
	var width int
	err := db.Raw(
		"SELECT atttypmod FROM pg_attribute WHERE attrelid = ?::regclass AND attname = 'embedding'",
		TableQuoteChunks,
	).Scan(&width).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read embedding dimension: %w", err)
	}
	return width, nil
}
