package analyze

import (
	"context"
	"strings"

	"github.com/Malowking/quoterisk/core/bom"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/report"
	"github.com/Malowking/quoterisk/core/retriever"
	"github.com/gogf/gf/v2/frame/g"
)

// QueryEmbedder 单条查询文本向量化
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Input 分析请求
type Input struct {
	BOMText     string
	ProductLine string
	Region      string
	TopK        *int // nil 时使用配置的默认值
}

// Service BOM 风险分析：解析 → 构造检索文本 → 向量化 → 检索 → 生成报告
type Service struct {
	embedder    QueryEmbedder
	retriever   *retriever.Retriever
	synthesizer *report.Synthesizer
}

// NewService 创建分析服务
func NewService(embedder QueryEmbedder, r *retriever.Retriever, s *report.Synthesizer) *Service {
	return &Service{embedder: embedder, retriever: r, synthesizer: s}
}

// Analyze 检索为空时返回 ErrNoRetrievalResult，与检索失败区分
func (s *Service) Analyze(ctx context.Context, in Input) (*report.Report, error) {
	bomText := strings.TrimSpace(in.BOMText)
	if bomText == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "bom_text is required")
	}
	if in.TopK != nil && *in.TopK <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "top_k must be positive, got %d", *in.TopK)
	}

	parsed := bom.Parse(bomText)
	g.Log().Debugf(ctx, "BOM parsed: parts=%d, keywords=%v", len(parsed.PartNumbers), parsed.Keywords)

	queryVector, err := s.embedder.EmbedQuery(ctx, bom.QueryText(bomText, parsed))
	if err != nil {
		return nil, err
	}

	hits, err := s.retriever.Retrieve(ctx, &retriever.RetrieveReq{
		Embedding:   queryVector,
		TopK:        in.TopK,
		ProductLine: strings.TrimSpace(in.ProductLine),
		Region:      strings.TrimSpace(in.Region),
	})
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, errors.New(errors.ErrNoRetrievalResult, "no documents/chunks retrieved, ingest documents first")
	}

	rep, err := s.synthesizer.Synthesize(ctx, report.SynthesisInput{
		BOMText:     bomText,
		Parsed:      parsed,
		Hits:        hits,
		ProductLine: strings.TrimSpace(in.ProductLine),
		Region:      strings.TrimSpace(in.Region),
	})
	if err != nil {
		return nil, err
	}

	g.Log().Infof(ctx, "Analysis completed: chunks=%d, sources=%d, risks=%d",
		len(hits), len(rep.RetrievalDiagnostics.TopSources), len(rep.Risks))
	return rep, nil
}
