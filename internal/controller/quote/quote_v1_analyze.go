package quote

import (
	"context"

	"github.com/Malowking/quoterisk/api/quote/v1"
	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/internal/logic/analyze"
	"github.com/gogf/gf/v2/frame/g"
)

func (c *ControllerV1) Analyze(ctx context.Context, req *v1.AnalyzeReq) (res *v1.AnalyzeRes, err error) {
	g.Log().Infof(ctx, "Analyze request received - BOMChars: %d, ProductLine: %s, Region: %s, TopK: %d",
		len([]rune(req.BOMText)), req.ProductLine, req.Region, common.Deref(req.TopK))

	rep, err := c.svc.Analyzer.Analyze(ctx, analyze.Input{
		BOMText:     req.BOMText,
		ProductLine: req.ProductLine,
		Region:      req.Region,
		TopK:        req.TopK,
	})
	if err != nil {
		return nil, err
	}
	return &v1.AnalyzeRes{Report: rep}, nil
}
