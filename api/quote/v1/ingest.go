package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// IngestReq 导入目录下的文档，path 为本地目录或 rustfs://bucket/prefix
type IngestReq struct {
	g.Meta        `path:"/v1/ingest" method:"post" tags:"ingest" summary:"Ingest a document directory"`
	Path          string `json:"path" dc:"Local directory or rustfs://bucket/prefix" v:"required"`
	ProductLine   string `json:"product_line" dc:"Product line tag for new documents"`
	Region        string `json:"region" dc:"Region tag for new documents"`
	DocType       string `json:"doc_type" dc:"Overrides the type inferred from the file extension"`
	EffectiveDate string `json:"effective_date" dc:"YYYY-MM-DD"`
	ChunkChars    *int   `json:"chunk_chars" dc:"Chunk size in characters, default from config"`
	ChunkOverlap  *int   `json:"chunk_overlap" dc:"Overlap between chunks, default from config"`
}

type IngestRes struct {
	g.Meta             `mime:"application/json"`
	DocumentsAdded     int `json:"documents_added" dc:"New documents stored"`
	DocumentsSkipped   int `json:"documents_skipped" dc:"Duplicates or documents without chunks"`
	ChunksAdded        int `json:"chunks_added" dc:"Chunks stored"`
	ExtractionFailures int `json:"extraction_failures" dc:"Files whose text could not be extracted"`
}
