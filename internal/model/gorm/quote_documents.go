package gorm

import (
	"time"
)

// QuoteDocuments 来源文档，content_hash 唯一约束是去重的最终保证
type QuoteDocuments struct {
	ID            string     `gorm:"primaryKey;column:id;type:varchar(64)"`
	Title         string     `gorm:"column:title;type:varchar(512);not null"`
	SourcePath    string     `gorm:"column:source_path;type:text;not null"`
	DocType       string     `gorm:"column:doc_type;type:varchar(64);not null"`
	ProductLine   *string    `gorm:"column:product_line;type:varchar(255);index"`
	Region        *string    `gorm:"column:region;type:varchar(255);index"`
	EffectiveDate *time.Time `gorm:"column:effective_date;type:date"`
	ContentHash   string     `gorm:"column:content_hash;type:char(64);not null;uniqueIndex:uq_quote_documents_content_hash"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName 设置表名
func (QuoteDocuments) TableName() string {
	return TableQuoteDocuments
}
