package vector_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	gormModel "github.com/Malowking/quoterisk/internal/model/gorm"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore pgvector 相似度检索，表结构由 gorm 迁移维护
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// InitializePostgresStore 创建连接池并校验 embedding 列维度
func InitializePostgresStore(ctx context.Context, connStr string, dimension int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to create postgres connection pool")
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to ping postgres")
	}

	store, err := NewPostgresStore(&VectorStoreConfig{
		Type:      VectorStoreTypePostgreSQL,
		Client:    pool,
		Dimension: dimension,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := store.VerifyDimension(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore 创建PostgreSQL向量存储实例
func NewPostgresStore(config *VectorStoreConfig) (*PostgresStore, error) {
	if config == nil {
		return nil, errors.New(errors.ErrConfigInvalid, "config cannot be nil")
	}

	pool, ok := config.Client.(*pgxpool.Pool)
	if !ok {
		return nil, errors.New(errors.ErrConfigInvalid, "client must be *pgxpool.Pool")
	}
	if config.Dimension <= 0 {
		return nil, errors.Newf(errors.ErrConfigInvalid, "invalid embedding dimension %d", config.Dimension)
	}

	return &PostgresStore{pool: pool, dimension: config.Dimension}, nil
}

// VerifyDimension embedding 列宽度必须与配置的维度一致
func (p *PostgresStore) VerifyDimension(ctx context.Context) error {
	var width int32
	err := p.pool.QueryRow(ctx,
		"SELECT atttypmod FROM pg_attribute WHERE attrelid = $1::regclass AND attname = 'embedding'",
		gormModel.TableQuoteChunks,
	).Scan(&width)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, err, "failed to read embedding column dimension")
	}
	if int(width) != p.dimension {
		return errors.Newf(errors.ErrConfigInvalid,
			"column %s.embedding has dimension %d, configured embedding dimension is %d",
			gormModel.TableQuoteChunks, width, p.dimension)
	}
	g.Log().Infof(ctx, "pgvector store ready, dimension=%d", p.dimension)
	return nil
}

// Search 关联文档表做等值过滤，按余弦距离升序返回
func (p *PostgresStore) Search(ctx context.Context, query []float32, topK int, filter Filter) ([]*schema.Hit, error) {
	if topK <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "topK must be positive, got %d", topK)
	}
	if len(query) != p.dimension {
		return nil, errors.Newf(errors.ErrConfigInvalid, "query embedding dimension %d does not match store dimension %d", len(query), p.dimension)
	}

	args := []any{pgvector.NewVector(query), topK}
	conds := []string{"c.embedding IS NOT NULL"}
	if filter.ProductLine != "" {
		args = append(args, filter.ProductLine)
		conds = append(conds, fmt.Sprintf("d.product_line = $%d", len(args)))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		conds = append(conds, fmt.Sprintf("d.region = $%d", len(args)))
	}

	searchSQL := fmt.Sprintf(`
		SELECT c.id, c.chunk_index, c.text, c.char_count, c.metadata,
		       d.id, d.title, d.source_path, d.doc_type, d.product_line, d.region,
		       d.effective_date, d.content_hash, d.created_at,
		       c.embedding <=> $1 AS distance
		FROM %s c
		JOIN %s d ON d.id = c.document_id
		WHERE %s
		ORDER BY distance, d.id, c.chunk_index
		LIMIT $2
	`, gormModel.TableQuoteChunks, gormModel.TableQuoteDocuments, strings.Join(conds, " AND "))

	rows, err := p.pool.Query(ctx, searchSQL, args...)
	if err != nil {
		return nil, errors.WrapService(errors.ErrRetrievalFailed, err, "failed to execute vector search")
	}
	defer rows.Close()

	hits := make([]*schema.Hit, 0, topK)
	for rows.Next() {
		var (
			chunk         schema.Chunk
			doc           schema.Document
			metadataBytes []byte
			effective     *time.Time
			distance      float64
		)
		err := rows.Scan(
			&chunk.ID, &chunk.ChunkIndex, &chunk.Text, &chunk.CharCount, &metadataBytes,
			&doc.ID, &doc.Title, &doc.SourcePath, &doc.DocType, &doc.ProductLine, &doc.Region,
			&effective, &doc.ContentHash, &doc.CreatedAt,
			&distance,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrRetrievalFailed, err, "failed to scan row")
		}
		doc.EffectiveDate = effective
		chunk.DocumentID = doc.ID

		// 解析metadata
		if len(metadataBytes) > 0 {
			var metadata map[string]any
			if err := sonic.Unmarshal(metadataBytes, &metadata); err != nil {
				g.Log().Warningf(ctx, "chunk %s has malformed metadata: %v", chunk.ID, err)
			} else {
				chunk.Metadata = metadata
			}
		}

		hits = append(hits, &schema.Hit{Chunk: &chunk, Document: &doc, Distance: distance})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrRetrievalFailed, err, "error iterating over rows")
	}
	return hits, nil
}

// Close 关闭连接池
func (p *PostgresStore) Close() {
	p.pool.Close()
}
