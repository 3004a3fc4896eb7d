package common

import (
	"context"
	"testing"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAsError(t *testing.T) {
	ctx := context.Background()

	run := func(fn func()) (err error) {
		defer RecoverAsError(ctx, "test-task", errors.ErrDocumentParseFailed, &err)
		fn()
		return nil
	}

	t.Run("正常执行不修改错误", func(t *testing.T) {
		assert.NoError(t, run(func() {}))
	})

	t.Run("panic转换为错误", func(t *testing.T) {
		err := run(func() { panic("malformed xref table") })
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrDocumentParseFailed))
		assert.Contains(t, err.Error(), "malformed xref table")
	})
}
