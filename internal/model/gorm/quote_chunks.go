package gorm

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// QuoteChunks 文档分片。embedding 列宽度在 Migrate 时按配置的维度设置
type QuoteChunks struct {
	ID         string            `gorm:"primaryKey;column:id;type:varchar(64)"`
	DocumentID string            `gorm:"column:document_id;type:varchar(64);not null;index;uniqueIndex:uq_quote_chunks_doc_index,priority:1"`
	ChunkIndex int               `gorm:"column:chunk_index;not null;uniqueIndex:uq_quote_chunks_doc_index,priority:2"`
	Text       string            `gorm:"column:text;type:text;not null"`
	CharCount  int               `gorm:"column:char_count;not null"`
	Embedding  *pgvector.Vector  `gorm:"column:embedding;type:vector"`
	Metadata   datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`

	Document QuoteDocuments `gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:RESTRICT"`
}

// TableName 设置表名
func (QuoteChunks) TableName() string {
	return TableQuoteChunks
}
