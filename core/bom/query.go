package bom

import "strings"

const (
	maxQueryBOMChars   = 4000
	maxQueryPartTokens = 50
	maxQueryKeywords   = 50
)

// QueryText 构造检索用的查询文本：BOM 前 4000 字符 + 料号 + 关键词
func QueryText(bomText string, parsed ParsedBOM) string {
	var sb strings.Builder

	runes := []rune(bomText)
	if len(runes) > maxQueryBOMChars {
		runes = runes[:maxQueryBOMChars]
	}
	sb.WriteString(string(runes))

	if len(parsed.PartNumbers) > 0 {
		sb.WriteString("\n\nPart numbers:\n")
		sb.WriteString(strings.Join(head(parsed.PartNumbers, maxQueryPartTokens), "\n"))
	}
	if len(parsed.Keywords) > 0 {
		sb.WriteString("\n\nKeywords:\n")
		sb.WriteString(strings.Join(head(parsed.Keywords, maxQueryKeywords), ", "))
	}
	return sb.String()
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
