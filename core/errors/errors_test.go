package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("错误信息包含错误码", func(t *testing.T) {
		err := Newf(ErrInvalidParameter, "topK must be positive, got %d", 0)
		assert.Equal(t, "[1001] topK must be positive, got 0", err.Error())
	})

	t.Run("包装后仍可按错误码识别", func(t *testing.T) {
		cause := stderrors.New("connection reset")
		err := fmt.Errorf("embed step failed: %w", Wrap(ErrEmbeddingFailed, cause, "embedding request failed"))

		assert.True(t, IsAppError(err))
		assert.True(t, HasCode(err, ErrEmbeddingFailed))
		assert.False(t, HasCode(err, ErrServiceTimeout))
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, New(ErrEmbeddingFailed, ""))
		assert.Equal(t, ErrEmbeddingFailed, GetAppError(err).Code)
	})

	t.Run("超时映射为独立错误码", func(t *testing.T) {
		err := WrapService(ErrLLMCallFailed, context.DeadlineExceeded, "generate")
		assert.Equal(t, ErrServiceTimeout, err.Code)
		assert.Equal(t, 504, err.Code.HTTPStatusCode())

		err = WrapService(ErrLLMCallFailed, stderrors.New("boom"), "generate")
		assert.Equal(t, ErrLLMCallFailed, err.Code)
	})

	t.Run("非业务错误", func(t *testing.T) {
		assert.False(t, IsAppError(stderrors.New("plain")))
		assert.Nil(t, GetAppError(stderrors.New("plain")))
	})
}

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrCode]int{
		ErrInvalidParameter:  400,
		ErrNotFound:          404,
		ErrNoRetrievalResult: 404,
		ErrGenerationFormat:  502,
		ErrServiceTimeout:    504,
		ErrDatabaseQuery:     500,
		ErrEmbeddingFailed:   500,
	}
	for code, status := range cases {
		assert.Equal(t, status, code.HTTPStatusCode(), "code %d", code)
	}
}
