package indexer

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/extractor"
	"github.com/Malowking/quoterisk/core/file_store"
	"github.com/Malowking/quoterisk/core/splitter"
	"github.com/Malowking/quoterisk/core/vector_store"
	"github.com/Malowking/quoterisk/pkg/schema"
	einoSchema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
)

// Embedder 批量向量化，返回顺序与输入一致
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestRequest 一次目录导入的参数，分类字段原样写入每个新文档
type IngestRequest struct {
	Root          string // 本地目录或 rustfs://bucket/prefix
	ProductLine   string
	Region        string
	DocType       string // 为空时按扩展名推断
	EffectiveDate string // YYYY-MM-DD，可为空
	ChunkConfig   *splitter.Config
}

// IngestResult 导入统计
type IngestResult struct {
	DocumentsAdded     int `json:"documents_added"`
	DocumentsSkipped   int `json:"documents_skipped"`
	ChunksAdded        int `json:"chunks_added"`
	ExtractionFailures int `json:"extraction_failures"`
}

// Pipeline 文档导入流水线：逐个文件 提取 → 清洗 → 指纹去重 → 切分 → 向量化 → 入库
type Pipeline struct {
	store        vector_store.DocumentStore
	embedder     Embedder
	extractors   *extractor.Registry
	rustfs       *file_store.RustfsConfig
	defaultChunk splitter.Config

	// 同一实例上的导入串行执行，去重检查只能看到已提交的数据
	mu sync.Mutex
}

// NewPipeline rustfs 为 nil 时不支持 rustfs:// 来源
func NewPipeline(store vector_store.DocumentStore, embedder Embedder, extractors *extractor.Registry, rustfs *file_store.RustfsConfig, defaultChunk splitter.Config) *Pipeline {
	return &Pipeline{
		store:        store,
		embedder:     embedder,
		extractors:   extractors,
		rustfs:       rustfs,
		defaultChunk: defaultChunk,
	}
}

// errNoChunks 切分结果为空，用于回滚已创建的文档
var errNoChunks = stdErrors.New("document produced no chunks")

// fileContext 单个文件在各步骤之间传递的数据
type fileContext struct {
	ctx    context.Context
	source file_store.Source
	entry  file_store.Entry
	req    *ingestParams
	result *IngestResult
	raw    string // 去掉首尾空白的提取文本，指纹按字节计算
	text   string // 清洗后用于切分的文本
	hash   string
	done   bool // 已计入统计或被忽略，后续步骤不再执行
}

// ingestParams 校验后的请求参数
type ingestParams struct {
	productLine   *string
	region        *string
	docType       string
	effectiveDate *time.Time
	chunkConfig   splitter.Config
}

// Ingest 导入目录下所有支持的文件。
// 参数错误在任何写入前返回；单个文件提取失败计数后继续；向量化或存储失败回滚当前文件并中止本次导入，
// 已提交的文件保留。
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	var result IngestResult

	params, err := p.validate(req)
	if err != nil {
		return result, err
	}

	source, err := file_store.Open(ctx, req.Root, p.rustfs)
	if err != nil {
		return result, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	g.Log().Infof(ctx, "Ingest started: root=%s, type=%s, chunk=%d/%d",
		source.Root(), source.Type(), params.chunkConfig.ChunkChars, params.chunkConfig.Overlap)

	err = source.Walk(ctx, func(entry file_store.Entry) error {
		fc := &fileContext{
			ctx:    ctx,
			source: source,
			entry:  entry,
			req:    params,
			result: &result,
		}
		if err := p.ingestFile(fc); err != nil {
			return fmt.Errorf("ingest %s: %w", entry.Locator, err)
		}
		return nil
	})
	if err != nil {
		g.Log().Errorf(ctx, "Ingest aborted: %v, added=%d, skipped=%d, chunks=%d",
			err, result.DocumentsAdded, result.DocumentsSkipped, result.ChunksAdded)
		return result, err
	}

	g.Log().Infof(ctx, "Ingest completed: added=%d, skipped=%d, chunks=%d, extraction_failures=%d",
		result.DocumentsAdded, result.DocumentsSkipped, result.ChunksAdded, result.ExtractionFailures)
	return result, nil
}

func (p *Pipeline) validate(req IngestRequest) (*ingestParams, error) {
	cfg := p.defaultChunk
	if req.ChunkConfig != nil {
		cfg = *req.ChunkConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := &ingestParams{
		productLine: common.NilIfEmpty(strings.TrimSpace(req.ProductLine)),
		region:      common.NilIfEmpty(strings.TrimSpace(req.Region)),
		docType:     strings.TrimSpace(req.DocType),
		chunkConfig: cfg,
	}

	if s := strings.TrimSpace(req.EffectiveDate); s != "" {
		t, err := time.Parse(schema.DateLayout, s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidParameter, err, "effective_date must be YYYY-MM-DD, got %q", req.EffectiveDate)
		}
		params.effectiveDate = &t
	}
	return params, nil
}

func (p *Pipeline) ingestFile(fc *fileContext) error {
	steps := []struct {
		name string
		fn   func(*fileContext) error
	}{
		{"Extract text", p.stepExtract},
		{"Fingerprint", p.stepFingerprint},
		{"Check duplicate", p.stepCheckDuplicate},
		{"Store document", p.stepStore},
	}

	for _, step := range steps {
		if fc.done {
			break
		}
		g.Log().Debugf(fc.ctx, "Executing step: %s, file=%s", step.name, fc.entry.Locator)
		if err := step.fn(fc); err != nil {
			return fmt.Errorf("%s failed: %w", step.name, err)
		}
	}
	return nil
}

// stepExtract 提取并清洗文本。不支持的扩展名或空文本直接忽略，提取失败计数后跳过。
// 清洗只影响切分出的 chunk，指纹仍基于原始文本。
func (p *Pipeline) stepExtract(fc *fileContext) error {
	if !p.extractors.Supports(fc.entry.Name) {
		g.Log().Debugf(fc.ctx, "Unsupported file ignored: %s", fc.entry.Locator)
		fc.done = true
		return nil
	}

	text, err := p.readText(fc)
	if err != nil {
		if ctxErr := fc.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		fc.result.ExtractionFailures++
		g.Log().Warningf(fc.ctx, "Extraction failed, file skipped: %s, err=%v", fc.entry.Locator, err)
		fc.done = true
		return nil
	}

	fc.raw = strings.TrimSpace(text)
	fc.text = strings.TrimSpace(common.CleanExtractedText(fc.raw))
	if fc.text == "" {
		g.Log().Debugf(fc.ctx, "Empty text ignored: %s", fc.entry.Locator)
		fc.done = true
	}
	return nil
}

func (p *Pipeline) readText(fc *fileContext) (string, error) {
	reader, err := fc.source.Open(fc.ctx, fc.entry)
	if err != nil {
		return "", err
	}
	defer reader.Close()
	return p.extractors.Extract(fc.ctx, fc.entry.Name, reader)
}

func (p *Pipeline) stepFingerprint(fc *fileContext) error {
	fc.hash = common.Fingerprint(fc.raw)
	return nil
}

// stepCheckDuplicate 快速路径，唯一约束才是最终保证
func (p *Pipeline) stepCheckDuplicate(fc *fileContext) error {
	exists, err := p.store.ExistsByContentHash(fc.ctx, fc.hash)
	if err != nil {
		return err
	}
	if exists {
		g.Log().Infof(fc.ctx, "Duplicate content skipped: %s, hash=%s", fc.entry.Locator, fc.hash)
		fc.result.DocumentsSkipped++
		fc.done = true
	}
	return nil
}

// stepStore 在一个事务内创建文档、切分、向量化并写入分片
func (p *Pipeline) stepStore(fc *fileContext) error {
	doc := &schema.Document{
		ID:            uuid.NewString(),
		Title:         fc.entry.Name,
		SourcePath:    fc.entry.Locator,
		DocType:       fc.req.docType,
		ProductLine:   fc.req.productLine,
		Region:        fc.req.region,
		EffectiveDate: fc.req.effectiveDate,
		ContentHash:   fc.hash,
	}
	if doc.DocType == "" {
		doc.DocType = extractor.DocType(fc.entry.Name)
	}

	var chunkCount int
	err := p.store.WithTransaction(fc.ctx, func(w vector_store.DocumentWriter) error {
		if err := w.CreateDocument(fc.ctx, doc); err != nil {
			return err
		}

		texts, err := p.split(fc.ctx, fc.text, fc.req.chunkConfig)
		if err != nil {
			return err
		}
		if len(texts) == 0 {
			return errNoChunks
		}

		vectors, err := p.embedder.EmbedDocuments(fc.ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return errors.Newf(errors.ErrEmbeddingFailed, "embedding service returned %d vectors for %d chunks", len(vectors), len(texts))
		}

		chunks := make([]*schema.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = &schema.Chunk{
				ID:         uuid.NewString(),
				DocumentID: doc.ID,
				ChunkIndex: i,
				Text:       text,
				CharCount:  utf8.RuneCountInString(text),
				Embedding:  vectors[i],
				Metadata:   doc.MetadataSnapshot(),
			}
		}
		if err := w.CreateChunks(fc.ctx, chunks); err != nil {
			return err
		}
		chunkCount = len(chunks)
		return nil
	})

	switch {
	case err == nil:
		fc.result.DocumentsAdded++
		fc.result.ChunksAdded += chunkCount
		g.Log().Infof(fc.ctx, "Document ingested: %s, docId=%s, chunks=%d", fc.entry.Locator, doc.ID, chunkCount)
		return nil
	case stdErrors.Is(err, errNoChunks):
		fc.result.DocumentsSkipped++
		g.Log().Warningf(fc.ctx, "Document produced no chunks, rolled back: %s", fc.entry.Locator)
		return nil
	case errors.HasCode(err, errors.ErrDuplicateContent):
		fc.result.DocumentsSkipped++
		g.Log().Infof(fc.ctx, "Duplicate content rejected by storage: %s, hash=%s", fc.entry.Locator, fc.hash)
		return nil
	default:
		return err
	}
}

// split 通过 eino Transformer 切分，返回按位置排序的分片文本
func (p *Pipeline) split(ctx context.Context, text string, cfg splitter.Config) ([]string, error) {
	transformer, err := splitter.NewTransformer(cfg)
	if err != nil {
		return nil, err
	}
	docs, err := transformer.Transform(ctx, []*einoSchema.Document{{Content: text}})
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	return texts, nil
}
