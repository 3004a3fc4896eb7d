package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
)

// DocxParser 从 word/document.xml 中按段落提取文本
type DocxParser struct{}

// NewDocxParser 创建 DOCX 解析器
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

// Parse 实现 eino parser.Parser
func (p *DocxParser) Parse(ctx context.Context, reader io.Reader, opts ...parser.Option) ([]*schema.Document, error) {
	options := parser.GetCommonOptions(&parser.Options{}, opts...)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	content, err := documentText(zr)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]any, len(options.ExtraMeta)+1)
	for k, v := range options.ExtraMeta {
		meta[k] = v
	}
	meta["_source"] = options.URI

	return []*schema.Document{{Content: content, MetaData: meta}}, nil
}

func documentText(zr *zip.Reader) (string, error) {
	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open word/document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read word/document.xml: %w", err)
		}
		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("word/document.xml not found")
}

// tableFrame 记录当前表格的行和单元格，嵌套表格入栈
type tableFrame struct {
	cells []string
	parts []string
}

// parseDocumentXML 按文档顺序输出 w:body 的子元素：段落之间用换行连接，
// 表格按行输出、单元格以制表符分隔。嵌套表格的行并入外层单元格。
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		lines  []string
		tables []*tableFrame
		para   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tbl":
				tables = append(tables, &tableFrame{})
			case "tr":
				if len(tables) > 0 {
					tables[len(tables)-1].cells = nil
				}
			case "tc":
				if len(tables) > 0 {
					tables[len(tables)-1].parts = nil
				}
			}
		case xml.CharData:
			if inText {
				para.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if len(tables) > 0 {
					top := tables[len(tables)-1]
					top.parts = append(top.parts, para.String())
				} else {
					lines = append(lines, para.String())
				}
				para.Reset()
			case "tc":
				if len(tables) > 0 {
					top := tables[len(tables)-1]
					top.cells = append(top.cells, strings.Join(top.parts, " "))
				}
			case "tr":
				if len(tables) == 0 {
					continue
				}
				row := strings.Join(tables[len(tables)-1].cells, "\t")
				if len(tables) > 1 {
					parent := tables[len(tables)-2]
					parent.parts = append(parent.parts, row)
				} else {
					lines = append(lines, row)
				}
			case "tbl":
				if len(tables) > 0 {
					tables = tables[:len(tables)-1]
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
