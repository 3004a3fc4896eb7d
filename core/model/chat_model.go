package model

import (
	"context"
	"time"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// NewChatModel 按 provider 创建生成模型
func NewChatModel(ctx context.Context, cfg config.ChatConfig) (einoModel.BaseChatModel, error) {
	temperature := cfg.Temperature

	var (
		cm  einoModel.BaseChatModel
		err error
	)
	switch cfg.Provider {
	case "openai":
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
	case "qwen":
		cm, err = qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unsupported chat provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, err, "failed to create chat model")
	}

	g.Log().Infof(ctx, "Chat model initialized: provider=%s, model=%s", cfg.Provider, cfg.Model)
	return cm, nil
}

// Generator 一问一答的文本生成，带超时与同模型重试
type Generator struct {
	cm      einoModel.BaseChatModel
	model   string
	timeout time.Duration
	retry   *SingleModelRetryConfig
}

// NewGenerator retry 为 nil 时不重试
func NewGenerator(cm einoModel.BaseChatModel, modelName string, timeout time.Duration, retry *SingleModelRetryConfig) *Generator {
	return &Generator{cm: cm, model: modelName, timeout: timeout, retry: retry}
}

// Generate 发送 system + user 两条消息，返回模型输出文本
func (x *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	return RetryWithSameModel(ctx, x.model, x.retry, func(ctx context.Context) (string, error) {
		callCtx := ctx
		if x.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, x.timeout)
			defer cancel()
		}

		msg, err := x.cm.Generate(callCtx, messages)
		if err != nil {
			if callCtx.Err() != nil {
				return "", callCtx.Err()
			}
			return "", err
		}
		if msg == nil {
			return "", nil
		}
		return msg.Content, nil
	})
}
