package schema

import "time"

// Chunk 元数据快照中的字段名
const (
	MetaSourcePath    = "source_path"
	MetaTitle         = "title"
	MetaDocType       = "doc_type"
	MetaProductLine   = "product_line"
	MetaRegion        = "region"
	MetaEffectiveDate = "effective_date"
)

// DateLayout 生效日期格式（ISO 日历日期）
const DateLayout = "2006-01-02"

// Document 一份去重后的来源文档
type Document struct {
	ID            string     `json:"doc_id"`
	Title         string     `json:"title"`
	SourcePath    string     `json:"source_path"`
	DocType       string     `json:"doc_type"`
	ProductLine   *string    `json:"product_line"`
	Region        *string    `json:"region"`
	EffectiveDate *time.Time `json:"effective_date"`
	ContentHash   string     `json:"content_hash"`
	CreatedAt     time.Time  `json:"created_at"`
}

// EffectiveDateString 生效日期的 YYYY-MM-DD 表示，未设置时为 nil
func (d *Document) EffectiveDateString() *string {
	if d.EffectiveDate == nil {
		return nil
	}
	s := d.EffectiveDate.Format(DateLayout)
	return &s
}

// MetadataSnapshot 创建 chunk 时复制的文档分类字段，之后不再同步
func (d *Document) MetadataSnapshot() map[string]any {
	return map[string]any{
		MetaSourcePath:    d.SourcePath,
		MetaTitle:         d.Title,
		MetaDocType:       d.DocType,
		MetaProductLine:   nullable(d.ProductLine),
		MetaRegion:        nullable(d.Region),
		MetaEffectiveDate: nullable(d.EffectiveDateString()),
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Chunk 文档中连续的一段文本，检索的基本单位
type Chunk struct {
	ID         string         `json:"chunk_id"`
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Text       string         `json:"text"`
	CharCount  int            `json:"char_count"`
	Embedding  []float32      `json:"-"`
	Metadata   map[string]any `json:"metadata"`
}

// Hit 一条检索结果，Distance 为余弦距离，越小越相关
type Hit struct {
	Chunk    *Chunk    `json:"chunk"`
	Document *Document `json:"document"`
	Distance float64   `json:"distance"`
}
