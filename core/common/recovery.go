package common

import (
	"context"
	"runtime/debug"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/gogf/gf/v2/frame/g"
)

// RecoverAsError 在 defer 中调用，捕获 panic 并记录完整堆栈，转换为带错误码的错误写入 *errp。
// 第三方解析器遇到损坏的文件时可能 panic。
func RecoverAsError(ctx context.Context, taskName string, code errors.ErrCode, errp *error) {
	if r := recover(); r != nil {
		stack := debug.Stack()
		g.Log().Criticalf(ctx,
			"[PANIC RECOVERED] Task: %s\nError: %v\nStack Trace:\n%s",
			taskName, r, string(stack))

		*errp = errors.Newf(code, "panic in %s: %v", taskName, r)
	}
}
