package model

import (
	"context"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/gogf/gf/v2/frame/g"
)

// SingleModelRetryConfig 单个模型重试配置
type SingleModelRetryConfig struct {
	MaxRetries int           // 最大尝试次数，1 表示不重试
	RetryDelay time.Duration // 重试延迟
}

// DefaultSingleModelRetryConfig 默认只调用一次
func DefaultSingleModelRetryConfig() *SingleModelRetryConfig {
	return &SingleModelRetryConfig{
		MaxRetries: 1,
		RetryDelay: 500 * time.Millisecond,
	}
}

// RetryWithSameModel 使用同一个模型重试传输层失败。
// 上层 ctx 结束后不再重试；最终错误中超时映射为 ErrServiceTimeout。
func RetryWithSameModel[T any](ctx context.Context, modelName string, config *SingleModelRetryConfig, callFunc func(context.Context) (T, error)) (T, error) {
	if config == nil {
		config = DefaultSingleModelRetryConfig()
	}
	attempts := config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			g.Log().Infof(ctx, "[模型重试] 尝试 %d/%d: 重试模型 %s", attempt+1, attempts, modelName)
		}

		result, err := callFunc(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		g.Log().Warningf(ctx, "[模型重试] 失败: 模型 %s, 尝试 %d/%d, 错误: %v", modelName, attempt+1, attempts, err)

		if ctx.Err() != nil || attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(config.RetryDelay):
		}
	}

	return zero, errors.WrapService(errors.ErrLLMCallFailed, lastErr, "model "+modelName+" call failed")
}
