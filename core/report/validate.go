package report

import (
	"fmt"
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
)

// findingRule 每类结论的必填字符串字段
type findingRule struct {
	key    string
	fields []string
}

var findingRules = []findingRule{
	{key: "risks", fields: []string{"title", "severity", "description", "recommended_action"}},
	{key: "missing_parts", fields: []string{"item", "reason"}},
	{key: "suggested_upsells", fields: []string{"item", "why"}},
	{key: "required_approvals", fields: []string{"type", "trigger"}},
}

var evidenceFields = []string{"source_title", "doc_id", "chunk_id", "quote"}

// Validate 在注入诊断信息之后对报告做结构校验，并就地规范化：
// 缺失或为 null 的结论列表置为空数组，severity 转为小写。
// 所有问题一次性报告，错误码为 ErrGenerationFormat。
func Validate(report map[string]any) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, ok := report["summary"].(string); !ok {
		addf("summary must be a string")
	}

	for _, rule := range findingRules {
		raw, exists := report[rule.key]
		if !exists || raw == nil {
			report[rule.key] = []any{}
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			addf("%s must be an array", rule.key)
			continue
		}
		for i, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				addf("%s[%d] must be an object", rule.key, i)
				continue
			}
			for _, field := range rule.fields {
				if _, ok := obj[field].(string); !ok {
					addf("%s[%d].%s must be a string", rule.key, i, field)
				}
			}
			if rule.key == "risks" {
				if sev, ok := obj["severity"].(string); ok {
					sev = strings.ToLower(strings.TrimSpace(sev))
					if sev != SeverityLow && sev != SeverityMedium && sev != SeverityHigh {
						addf("%s[%d].severity must be one of low|medium|high, got %q", rule.key, i, obj["severity"])
					} else {
						obj["severity"] = sev
					}
				}
			}
			validateEvidence(obj["evidence"], fmt.Sprintf("%s[%d].evidence", rule.key, i), addf)
		}
	}

	validateDiagnostics(report[keyDiagnostics], addf)

	if len(problems) > 0 {
		return errors.Newf(errors.ErrGenerationFormat, "report failed validation: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validateEvidence(raw any, path string, addf func(string, ...any)) {
	list, ok := raw.([]any)
	if !ok {
		addf("%s must be an array", path)
		return
	}
	if len(list) == 0 {
		addf("%s must contain at least one citation", path)
		return
	}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			addf("%s[%d] must be an object", path, i)
			continue
		}
		for _, field := range evidenceFields {
			if _, ok := obj[field].(string); !ok {
				addf("%s[%d].%s must be a string", path, i, field)
			}
		}
	}
}

func validateDiagnostics(raw any, addf func(string, ...any)) {
	diag, ok := raw.(map[string]any)
	if !ok {
		addf("%s must be an object", keyDiagnostics)
		return
	}
	for _, key := range []string{keyTopSources, keyRetrievedChunkIDs} {
		list, ok := diag[key].([]any)
		if !ok {
			addf("%s.%s must be an array of strings", keyDiagnostics, key)
			continue
		}
		for i, v := range list {
			if _, ok := v.(string); !ok {
				addf("%s.%s[%d] must be a string", keyDiagnostics, key, i)
			}
		}
	}
	if notes := diag[keyNotes]; notes != nil {
		if _, ok := notes.(string); !ok {
			addf("%s.%s must be a string or null", keyDiagnostics, keyNotes)
		}
	}
}
