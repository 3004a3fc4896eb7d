package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanExtractedText 清洗提取出的文档文本，结果可直接写入 PostgreSQL text 列。
// 丢弃非法 UTF-8 字节、NULL 和控制字符（保留 \n \t \r）、零宽字符，
// Unicode 空格类（NBSP、全角空格等）转为普通空格，并做 NFC 归一化。
func CleanExtractedText(s string) string {
	s = strings.ToValidUTF8(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			// 控制字符（含 NULL）
		case isZeroWidth(r):
		case unicode.Is(unicode.Zs, r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return norm.NFC.String(b.String())
}

// isZeroWidth ZWSP/ZWNJ/ZWJ、BOM、Word Joiner、蒙古文元音分隔符
func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u2060', '\u180E':
		return true
	}
	return false
}
