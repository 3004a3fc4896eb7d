package report

import (
	"context"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
)

// Generator 文本生成服务：system + user 提示词，返回模型输出
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Synthesizer 基于检索结果生成带引用的风险报告
type Synthesizer struct {
	gen Generator
}

// NewSynthesizer 创建报告生成器
func NewSynthesizer(gen Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize 调用生成服务并解析、补齐诊断信息、校验结构。格式错误不重试。
func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (*Report, error) {
	userPrompt := BuildUserPrompt(in)

	start := time.Now()
	content, err := s.gen.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.WrapService(errors.ErrLLMCallFailed, err, "generation service call failed")
	}
	g.Log().Debugf(ctx, "Generation completed in %v, output length=%d", time.Since(start), len(content))

	obj, outcome, err := parseModelOutput(content)
	if err != nil {
		g.Log().Warningf(ctx, "Generation output is not JSON: %v", err)
		return nil, err
	}
	if outcome == parsedRecovered {
		g.Log().Infof(ctx, "Generation output wrapped in prose, JSON object recovered")
	}

	InjectDiagnostics(obj, in.Hits)
	if err := Validate(obj); err != nil {
		g.Log().Warningf(ctx, "Generation output failed validation: %v", err)
		return nil, err
	}

	return decodeReport(obj)
}

// decodeReport 校验通过后转换为强类型报告
func decodeReport(obj map[string]any) (*Report, error) {
	raw, err := sonic.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(errors.ErrGenerationFormat, err, "failed to encode report")
	}
	var report Report
	if err := sonic.Unmarshal(raw, &report); err != nil {
		return nil, errors.Wrap(errors.ErrGenerationFormat, err, "failed to decode report")
	}
	return &report, nil
}
