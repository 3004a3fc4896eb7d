package dao

import (
	"context"
	stdErrors "errors"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/vector_store"
	gormModel "github.com/Malowking/quoterisk/internal/model/gorm"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// chunkBatchSize 单条 INSERT 的最大行数
const chunkBatchSize = 200

// DocumentDAO 基于 gorm 的文档与分片存储
type DocumentDAO struct {
	db *gorm.DB
}

var _ vector_store.DocumentStore = (*DocumentDAO)(nil)

// NewDocumentDAO 创建文档 DAO
func NewDocumentDAO(db *gorm.DB) *DocumentDAO {
	return &DocumentDAO{db: db}
}

// ExistsByContentHash 去重快速路径
func (d *DocumentDAO) ExistsByContentHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&gormModel.QuoteDocuments{}).
		Where("content_hash = ?", hash).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to check content hash")
	}
	return count > 0, nil
}

// WithTransaction fn 返回错误时整体回滚
func (d *DocumentDAO) WithTransaction(ctx context.Context, fn func(w vector_store.DocumentWriter) error) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&documentWriter{tx: tx})
	})
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.Wrap(errors.ErrTransactionFailed, err, "transaction failed")
}

type documentWriter struct {
	tx *gorm.DB
}

func (w *documentWriter) CreateDocument(ctx context.Context, doc *schema.Document) error {
	row := toDocumentModel(doc)
	if err := w.tx.WithContext(ctx).Create(row).Error; err != nil {
		if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Wrapf(errors.ErrDuplicateContent, err, "document with content hash %s already exists", doc.ContentHash)
		}
		return errors.Wrap(errors.ErrDatabaseInsert, err, "failed to insert document")
	}
	doc.CreatedAt = row.CreatedAt
	return nil
}

func (w *documentWriter) CreateChunks(ctx context.Context, chunks []*schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]*gormModel.QuoteChunks, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, toChunkModel(c))
	}
	err := w.tx.WithContext(ctx).
		Omit(clause.Associations).
		CreateInBatches(rows, chunkBatchSize).Error
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseInsert, err, "failed to insert chunks")
	}
	return nil
}

// GetDocument 不存在时返回 ErrDocumentNotFound
func (d *DocumentDAO) GetDocument(ctx context.Context, id string) (*schema.Document, error) {
	var row gormModel.QuoteDocuments
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf(errors.ErrDocumentNotFound, "document %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to get document")
	}
	return toDocument(&row), nil
}

// ListChunks 按 chunk_index 升序，不返回向量
func (d *DocumentDAO) ListChunks(ctx context.Context, documentID string) ([]*schema.Chunk, error) {
	if _, err := d.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	var rows []gormModel.QuoteChunks
	err := d.db.WithContext(ctx).
		Select("id", "document_id", "chunk_index", "text", "char_count", "metadata").
		Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to list chunks")
	}

	chunks := make([]*schema.Chunk, 0, len(rows))
	for i := range rows {
		chunks = append(chunks, toChunk(&rows[i]))
	}
	return chunks, nil
}

// DeleteDocument 同一事务内先显式删除分片，再删除文档
func (d *DocumentDAO) DeleteDocument(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("document_id = ?", id).Delete(&gormModel.QuoteChunks{})
		if res.Error != nil {
			return errors.Wrap(errors.ErrDatabaseDelete, res.Error, "failed to delete chunks")
		}
		chunkCount := res.RowsAffected

		res = tx.Where("id = ?", id).Delete(&gormModel.QuoteDocuments{})
		if res.Error != nil {
			return errors.Wrap(errors.ErrDatabaseDelete, res.Error, "failed to delete document")
		}
		if res.RowsAffected == 0 {
			return errors.Newf(errors.ErrDocumentNotFound, "document %s not found", id)
		}

		g.Log().Infof(ctx, "Deleted document %s with %d chunks", id, chunkCount)
		return nil
	})
}

func toDocumentModel(doc *schema.Document) *gormModel.QuoteDocuments {
	return &gormModel.QuoteDocuments{
		ID:            doc.ID,
		Title:         doc.Title,
		SourcePath:    doc.SourcePath,
		DocType:       doc.DocType,
		ProductLine:   doc.ProductLine,
		Region:        doc.Region,
		EffectiveDate: doc.EffectiveDate,
		ContentHash:   doc.ContentHash,
	}
}

func toDocument(row *gormModel.QuoteDocuments) *schema.Document {
	return &schema.Document{
		ID:            row.ID,
		Title:         row.Title,
		SourcePath:    row.SourcePath,
		DocType:       row.DocType,
		ProductLine:   row.ProductLine,
		Region:        row.Region,
		EffectiveDate: row.EffectiveDate,
		ContentHash:   row.ContentHash,
		CreatedAt:     row.CreatedAt,
	}
}

func toChunkModel(c *schema.Chunk) *gormModel.QuoteChunks {
	row := &gormModel.QuoteChunks{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		CharCount:  c.CharCount,
		Metadata:   datatypes.JSONMap(c.Metadata),
	}
	if c.Embedding != nil {
		vec := pgvector.NewVector(c.Embedding)
		row.Embedding = &vec
	}
	return row
}

func toChunk(row *gormModel.QuoteChunks) *schema.Chunk {
	c := &schema.Chunk{
		ID:         row.ID,
		DocumentID: row.DocumentID,
		ChunkIndex: row.ChunkIndex,
		Text:       row.Text,
		CharCount:  row.CharCount,
		Metadata:   map[string]any(row.Metadata),
	}
	if row.Embedding != nil {
		c.Embedding = row.Embedding.Slice()
	}
	return c
}
