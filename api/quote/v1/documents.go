package v1

import (
	"time"

	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// SourceGetReq 查看报告中引用的文档
type SourceGetReq struct {
	g.Meta `path:"/v1/sources/{doc_id}" method:"get" tags:"documents" summary:"Get a source document with its chunks"`
	DocId  string `p:"doc_id" in:"path" dc:"Document ID" v:"required"`
}

type SourceGetRes struct {
	g.Meta   `mime:"application/json"`
	Document *SourceDocument `json:"document"`
	Chunks   []*schema.Chunk `json:"chunks"`
}

// SourceDocument 文档信息，effective_date 为 YYYY-MM-DD
type SourceDocument struct {
	DocId         string    `json:"doc_id"`
	Title         string    `json:"title"`
	SourcePath    string    `json:"source_path"`
	DocType       string    `json:"doc_type"`
	ProductLine   *string   `json:"product_line"`
	Region        *string   `json:"region"`
	EffectiveDate *string   `json:"effective_date"`
	ContentHash   string    `json:"content_hash"`
	CreatedAt     time.Time `json:"created_at"`
}

type DocumentsDeleteReq struct {
	g.Meta     `path:"/v1/documents" method:"delete" tags:"documents" summary:"Delete a document and its chunks"`
	DocumentId string `p:"document_id" dc:"document id" v:"required"`
}

type DocumentsDeleteRes struct {
	g.Meta `mime:"application/json"`
}
