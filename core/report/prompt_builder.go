package report

import (
	"fmt"
	"strings"

	"github.com/Malowking/quoterisk/core/bom"
	"github.com/Malowking/quoterisk/pkg/schema"
	"github.com/bytedance/sonic"
)

// SynthesisInput 生成报告所需的全部输入
type SynthesisInput struct {
	BOMText     string
	Parsed      bom.ParsedBOM
	Hits        []*schema.Hit
	ProductLine string
	Region      string
}

// BuildUserPrompt 渲染用户提示词，每条检索结果一个带标签的上下文块
func BuildUserPrompt(in SynthesisInput) string {
	return fmt.Sprintf(userTemplate,
		in.BOMText,
		renderJSON(nonNilStrings(in.Parsed.PartNumbers)),
		renderJSON(nonNilStrings(in.Parsed.Keywords)),
		renderJSON(nonNilQuantities(in.Parsed.Quantities)),
		renderOptional(in.ProductLine),
		renderOptional(in.Region),
		FormatContextSnippets(in.Hits),
	)
}

// FormatContextSnippets 上下文块：doc_title、doc_id、chunk_id、text
func FormatContextSnippets(hits []*schema.Hit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		blocks = append(blocks, fmt.Sprintf("- doc_title: %s\n  doc_id: %s\n  chunk_id: %s\n  text: %s\n",
			hit.Document.Title, hit.Document.ID, hit.Chunk.ID, hit.Chunk.Text))
	}
	return strings.Join(blocks, "\n")
}

// renderJSON map 的 key 按字典序输出，保证提示词稳定
func renderJSON(v any) string {
	s, err := sonic.ConfigStd.MarshalToString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func renderOptional(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilQuantities(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
