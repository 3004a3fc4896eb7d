package knowledge

import (
	"context"
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// SourceDetail 文档及其按序排列的分片
type SourceDetail struct {
	Document *schema.Document
	Chunks   []*schema.Chunk
}

// Service 已导入文档的查询与删除
type Service struct {
	store vector_store.DocumentStore
}

// NewService 创建文档服务
func NewService(store vector_store.DocumentStore) *Service {
	return &Service{store: store}
}

// GetSource 查看报告引用的来源文档，不存在时返回 ErrDocumentNotFound
func (s *Service) GetSource(ctx context.Context, docID string) (*SourceDetail, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "doc_id is required")
	}

	doc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.ListChunks(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &SourceDetail{Document: doc, Chunks: chunks}, nil
}

// DeleteDocument 删除文档及其全部分片，删除后相同内容可以重新导入
func (s *Service) DeleteDocument(ctx context.Context, docID string) error {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return errors.New(errors.ErrInvalidParameter, "document_id is required")
	}
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		g.Log().Errorf(ctx, "DeleteDocument failed, docId=%s, err=%v", docID, err)
		return err
	}
	return nil
}
