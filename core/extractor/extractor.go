package extractor

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/parser/xlsx"
	"github.com/cloudwego/eino/components/document/parser"
)

// Registry 按扩展名选择文本提取器，未注册的扩展名视为无可提取内容
type Registry struct {
	parsers map[string]parser.Parser
}

// NewRegistry 创建空的提取器注册表
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]parser.Parser)}
}

// NewDefaultRegistry 注册纯文本、PDF、DOCX、HTML、XLSX 提取器
func NewDefaultRegistry(ctx context.Context) (*Registry, error) {
	r := NewRegistry()

	text := &parser.TextParser{}
	r.Register(text, ".txt", ".md", ".csv", ".log")
	r.Register(NewDocxParser(), ".docx")

	pdfParser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create pdf parser")
	}
	r.Register(pdfParser, ".pdf")

	htmlParser, err := html.NewParser(ctx, &html.Config{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create html parser")
	}
	r.Register(htmlParser, ".html", ".htm")

	// 价格表和 BOM 导出通常没有表头约定，每一行都当作正文
	xlsxParser, err := xlsx.NewXlsxParser(ctx, &xlsx.Config{NoHeader: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create xlsx parser")
	}
	r.Register(xlsxParser, ".xlsx")

	return r, nil
}

// Register 为一个或多个扩展名注册提取器，扩展名不区分大小写
func (r *Registry) Register(p parser.Parser, exts ...string) {
	for _, ext := range exts {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// Supports 判断文件名的扩展名是否有对应提取器
func (r *Registry) Supports(name string) bool {
	_, ok := r.parsers[Ext(name)]
	return ok
}

// Extract 提取文件的扁平文本。不支持的扩展名返回空字符串和 nil。
func (r *Registry) Extract(ctx context.Context, name string, reader io.Reader) (text string, err error) {
	p, ok := r.parsers[Ext(name)]
	if !ok {
		return "", nil
	}
	defer common.RecoverAsError(ctx, "extract "+name, errors.ErrDocumentParseFailed, &err)

	docs, err := p.Parse(ctx, reader, parser.WithURI(name))
	if err != nil {
		return "", errors.Wrapf(errors.ErrDocumentParseFailed, err, "failed to extract text from %s", name)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n"), nil
}

// Ext 返回小写扩展名（含点）
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// DocType 由扩展名推断文档类型，如 "pdf"；无扩展名时为 "unknown"
func DocType(name string) string {
	ext := strings.TrimPrefix(Ext(name), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
