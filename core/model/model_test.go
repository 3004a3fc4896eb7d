package model

import (
	"context"
	"testing"
	"time"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	"github.com/cloudwego/eino/components/embedding"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	dim   int
	calls int
	delay time.Duration
	err   error
	drop  bool // 少返回一条
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.drop {
		n--
	}
	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, f.dim)
		v[0] = float64(len(texts[i]))
		out[i] = v
	}
	return out, nil
}

type fakeChatModel struct {
	replies []string
	errs    []error
	calls   int
	got     []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einoModel.Option) (*schema.Message, error) {
	i := f.calls
	f.calls++
	f.got = input
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	reply := ""
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return schema.AssistantMessage(reply, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New(errors.ErrInternalError, "stream not supported")
}

func TestEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("批量向量化保持顺序", func(t *testing.T) {
		fake := &fakeEmbedder{dim: 4}
		e := NewEmbedder(fake, "test", 4, time.Second)

		vectors, err := e.EmbedDocuments(ctx, []string{"a", "bb", "ccc"})
		require.NoError(t, err)
		require.Len(t, vectors, 3)
		assert.Equal(t, float32(1), vectors[0][0])
		assert.Equal(t, float32(3), vectors[2][0])
		assert.Equal(t, 1, fake.calls)
	})

	t.Run("空输入不请求服务", func(t *testing.T) {
		fake := &fakeEmbedder{dim: 4}
		e := NewEmbedder(fake, "test", 4, 0)

		vectors, err := e.EmbedDocuments(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
		assert.Equal(t, 0, fake.calls)
	})

	t.Run("维度不一致", func(t *testing.T) {
		e := NewEmbedder(&fakeEmbedder{dim: 8}, "test", 4, 0)

		_, err := e.EmbedQuery(ctx, "hello")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrConfigInvalid))
	})

	t.Run("返回数量不一致", func(t *testing.T) {
		e := NewEmbedder(&fakeEmbedder{dim: 4, drop: true}, "test", 4, 0)

		_, err := e.EmbedDocuments(ctx, []string{"a", "b"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrEmbeddingFailed))
	})

	t.Run("服务错误", func(t *testing.T) {
		e := NewEmbedder(&fakeEmbedder{dim: 4, err: assert.AnError}, "test", 4, 0)

		_, err := e.EmbedQuery(ctx, "hello")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrEmbeddingFailed))
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("超时", func(t *testing.T) {
		e := NewEmbedder(&fakeEmbedder{dim: 4, delay: time.Second}, "test", 4, 20*time.Millisecond)

		_, err := e.EmbedQuery(ctx, "hello")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrServiceTimeout))
	})
}

func TestNewEmbedderFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("兼容模式", func(t *testing.T) {
		e, err := NewEmbedderFromConfig(ctx, config.EmbeddingConfig{
			Provider:  "compatible",
			APIKey:    "sk-test",
			BaseURL:   "http://127.0.0.1:1/v1",
			Model:     "bge-m3",
			Dimension: 1024,
		})
		require.NoError(t, err)
		assert.Equal(t, 1024, e.Dimension())
	})

	t.Run("未知 provider", func(t *testing.T) {
		_, err := NewEmbedderFromConfig(ctx, config.EmbeddingConfig{Provider: "cohere"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrConfigInvalid))
	})
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("发送 system 与 user 消息", func(t *testing.T) {
		cm := &fakeChatModel{replies: []string{`{"summary":"ok"}`}}
		gen := NewGenerator(cm, "test", time.Second, nil)

		out, err := gen.Generate(ctx, "sys", "usr")
		require.NoError(t, err)
		assert.Equal(t, `{"summary":"ok"}`, out)
		require.Len(t, cm.got, 2)
		assert.Equal(t, schema.System, cm.got[0].Role)
		assert.Equal(t, "sys", cm.got[0].Content)
		assert.Equal(t, schema.User, cm.got[1].Role)
		assert.Equal(t, "usr", cm.got[1].Content)
	})

	t.Run("默认不重试", func(t *testing.T) {
		cm := &fakeChatModel{errs: []error{assert.AnError}, replies: []string{"", "second"}}
		gen := NewGenerator(cm, "test", 0, nil)

		_, err := gen.Generate(ctx, "sys", "usr")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrLLMCallFailed))
		assert.Equal(t, 1, cm.calls)
	})

	t.Run("重试后成功", func(t *testing.T) {
		cm := &fakeChatModel{errs: []error{assert.AnError}, replies: []string{"", "second"}}
		gen := NewGenerator(cm, "test", 0, &SingleModelRetryConfig{MaxRetries: 2, RetryDelay: time.Millisecond})

		out, err := gen.Generate(ctx, "sys", "usr")
		require.NoError(t, err)
		assert.Equal(t, "second", out)
		assert.Equal(t, 2, cm.calls)
	})
}

func TestRetryWithSameModel(t *testing.T) {
	t.Run("上层取消后不再重试", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := RetryWithSameModel(ctx, "test", &SingleModelRetryConfig{MaxRetries: 5, RetryDelay: time.Millisecond},
			func(context.Context) (int, error) {
				calls++
				cancel()
				return 0, assert.AnError
			})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("超时映射", func(t *testing.T) {
		_, err := RetryWithSameModel(context.Background(), "test", nil, func(context.Context) (string, error) {
			return "", context.DeadlineExceeded
		})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrServiceTimeout))
	})
}
