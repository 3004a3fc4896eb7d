package report

import (
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/bytedance/sonic"
)

// parseOutcome 两阶段解析的结果
type parseOutcome int

const (
	parsedStrict parseOutcome = iota
	parsedRecovered
)

// ParseModelOutput 先严格解析整个输出；失败时截取第一个 '{' 到最后一个 '}' 之间的内容再解析；
// 仍失败返回 ErrGenerationFormat。结果必须是 JSON 对象。
func ParseModelOutput(content string) (map[string]any, error) {
	obj, _, err := parseModelOutput(content)
	return obj, err
}

func parseModelOutput(content string) (map[string]any, parseOutcome, error) {
	content = strings.TrimSpace(content)

	if obj, ok := decodeObject(content); ok {
		return obj, parsedStrict, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		if obj, ok := decodeObject(content[start : end+1]); ok {
			return obj, parsedRecovered, nil
		}
	}

	return nil, 0, errors.Newf(errors.ErrGenerationFormat, "model did not return valid JSON: %s", preview(content, 200))
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var v any
	if err := sonic.UnmarshalString(s, &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
