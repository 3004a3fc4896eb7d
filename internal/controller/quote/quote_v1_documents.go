package quote

import (
	"context"

	"github.com/Malowking/quoterisk/api/quote/v1"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

func (c *ControllerV1) SourceGet(ctx context.Context, req *v1.SourceGetReq) (res *v1.SourceGetRes, err error) {
	detail, err := c.svc.Knowledge.GetSource(ctx, req.DocId)
	if err != nil {
		return nil, err
	}
	return &v1.SourceGetRes{Document: sourceDocument(detail.Document), Chunks: detail.Chunks}, nil
}

func sourceDocument(doc *schema.Document) *v1.SourceDocument {
	return &v1.SourceDocument{
		DocId:         doc.ID,
		Title:         doc.Title,
		SourcePath:    doc.SourcePath,
		DocType:       doc.DocType,
		ProductLine:   doc.ProductLine,
		Region:        doc.Region,
		EffectiveDate: doc.EffectiveDateString(),
		ContentHash:   doc.ContentHash,
		CreatedAt:     doc.CreatedAt,
	}
}

func (c *ControllerV1) DocumentsDelete(ctx context.Context, req *v1.DocumentsDeleteReq) (res *v1.DocumentsDeleteRes, err error) {
	if err = c.svc.Knowledge.DeleteDocument(ctx, req.DocumentId); err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "DocumentsDelete: document %s deleted", req.DocumentId)
	return &v1.DocumentsDeleteRes{}, nil
}
