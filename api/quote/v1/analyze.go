package v1

import (
	"github.com/Malowking/quoterisk/core/report"
	"github.com/gogf/gf/v2/frame/g"
)

// AnalyzeReq BOM / 报价文本风险分析
type AnalyzeReq struct {
	g.Meta      `path:"/v1/analyze" method:"post" tags:"analyze" summary:"Analyze a BOM or quote"`
	BOMText     string `json:"bom_text" dc:"Free-form BOM or quote text" v:"required"`
	ProductLine string `json:"product_line" dc:"Only retrieve documents with this product line"`
	Region      string `json:"region" dc:"Only retrieve documents with this region"`
	TopK        *int   `json:"top_k" dc:"Number of chunks to retrieve, default from config"`
}

type AnalyzeRes struct {
	g.Meta `mime:"application/json"`
	*report.Report
}
