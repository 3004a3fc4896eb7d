package bom

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	partRe = regexp.MustCompile(`\b[A-Z0-9][A-Z0-9_-]{5,}\b`)
	qtyRe  = regexp.MustCompile(`(?i)\b(qty|quantity)\s*[:=]?\s*(\d+)\b|\b(\d+)\s*[xX]\b`)
)

// Keywords 受控领域词表，输出顺序与此一致
var Keywords = []string{
	"object storage",
	"controller",
	"firmware",
	"cabling",
	"license",
	"support",
	"data protection",
	"backup",
	"nas",
	"throughput",
	"25g",
	"100g",
}

// ParsedBOM BOM 文本的提取结果
type ParsedBOM struct {
	PartNumbers []string       `json:"part_numbers"`
	Quantities  map[string]int `json:"quantities"`
	Keywords    []string       `json:"keywords"`
}

// Parse 从自由文本中提取料号、数量和关键词
func Parse(text string) ParsedBOM {
	parsed := ParsedBOM{
		PartNumbers: []string{},
		Quantities:  make(map[string]int),
		Keywords:    []string{},
	}

	seen := make(map[string]bool)
	for _, p := range partRe.FindAllString(text, -1) {
		if !seen[p] {
			seen[p] = true
			parsed.PartNumbers = append(parsed.PartNumbers, p)
		}
	}
	sort.Strings(parsed.PartNumbers)

	for _, line := range splitLines(text) {
		parts := partRe.FindAllString(line, -1)
		if len(parts) == 0 {
			continue
		}
		qty, found := lineQuantity(line)
		for _, p := range parts {
			if found {
				parsed.Quantities[p] = qty
			} else if _, ok := parsed.Quantities[p]; !ok {
				parsed.Quantities[p] = 1
			}
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range Keywords {
		if strings.Contains(lower, kw) {
			parsed.Keywords = append(parsed.Keywords, kw)
		}
	}

	return parsed
}

// lineQuantity 行内最后一个数量标记生效
func lineQuantity(line string) (int, bool) {
	matches := qtyRe.FindAllStringSubmatch(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		raw := m[2]
		if raw == "" {
			raw = m[3]
		}
		if n, err := strconv.Atoi(raw); err == nil {
			return n, true
		}
	}
	return 0, false
}

// lineBreaks 把各类行分隔符统一为 \n
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\x1c", "\n",
	"\x1d", "\n",
	"\x1e", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

func splitLines(text string) []string {
	return strings.Split(lineBreaks.Replace(text), "\n")
}
