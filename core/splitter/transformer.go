package splitter

import (
	"context"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// MetaChunkIndex 切分后写入 chunk 元数据的序号字段
const MetaChunkIndex = "_chunk_index"

// NewTransformer 创建基于固定窗口切分的 eino 文档转换器
func NewTransformer(cfg Config) (document.Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &transformer{cfg: cfg}, nil
}

type transformer struct {
	cfg Config
}

// Transform 每个输入文档单独切分，序号在单个文档内从 0 开始连续编号
func (x *transformer) Transform(ctx context.Context, docs []*schema.Document, opts ...document.TransformerOption) ([]*schema.Document, error) {
	var out []*schema.Document
	for _, doc := range docs {
		for i, chunk := range Split(doc.Content, x.cfg) {
			meta := make(map[string]any, len(doc.MetaData)+1)
			for k, v := range doc.MetaData {
				meta[k] = v
			}
			meta[MetaChunkIndex] = i
			out = append(out, &schema.Document{
				ID:       doc.ID,
				Content:  chunk,
				MetaData: meta,
			})
		}
	}
	return out, nil
}
