package quote

import (
	"context"

	"github.com/Malowking/quoterisk/api/quote/v1"
	"github.com/Malowking/quoterisk/core/indexer"
	"github.com/Malowking/quoterisk/core/splitter"
	"github.com/gogf/gf/v2/frame/g"
)

func (c *ControllerV1) Ingest(ctx context.Context, req *v1.IngestReq) (res *v1.IngestRes, err error) {
	g.Log().Infof(ctx, "Ingest request received - Path: %s, ProductLine: %s, Region: %s, DocType: %s, EffectiveDate: %s",
		req.Path, req.ProductLine, req.Region, req.DocType, req.EffectiveDate)

	result, err := c.svc.Pipeline.Ingest(ctx, indexer.IngestRequest{
		Root:          req.Path,
		ProductLine:   req.ProductLine,
		Region:        req.Region,
		DocType:       req.DocType,
		EffectiveDate: req.EffectiveDate,
		ChunkConfig:   chunkConfig(c.svc.Config.Chunk, req.ChunkChars, req.ChunkOverlap),
	})
	if err != nil {
		return nil, err
	}

	return &v1.IngestRes{
		DocumentsAdded:     result.DocumentsAdded,
		DocumentsSkipped:   result.DocumentsSkipped,
		ChunksAdded:        result.ChunksAdded,
		ExtractionFailures: result.ExtractionFailures,
	}, nil
}

// chunkConfig 请求未指定时沿用配置值，两项都未指定返回 nil
func chunkConfig(def splitter.Config, chars, overlap *int) *splitter.Config {
	if chars == nil && overlap == nil {
		return nil
	}
	cfg := def
	if chars != nil {
		cfg.ChunkChars = *chars
	}
	if overlap != nil {
		cfg.Overlap = *overlap
	}
	return &cfg
}
