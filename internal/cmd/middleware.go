package cmd

import (
	"net/http"
	"reflect"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/util/gmeta"
)

// MiddlewareHandlerResponse 统一响应格式 {code, message, data}，业务错误码映射为 HTTP 状态码
func MiddlewareHandlerResponse(r *ghttp.Request) {
	r.Middleware.Next()

	// There's custom buffer content, it then exits current handler.
	if r.Response.BufferLength() > 0 || r.Response.Writer.BytesWritten() > 0 {
		return
	}

	var (
		msg  string
		err  = r.GetError()
		res  = r.GetHandlerResponse()
		code int
	)
	if err != nil {
		var status int
		status, code = errorStatus(err)
		msg = err.Error()
		if status >= http.StatusInternalServerError {
			g.Log().Errorf(r.Context(), "%s %s failed: %v", r.Method, r.URL.Path, err)
		}
		r.Response.WriteHeader(status)
		res = nil
	} else {
		if r.Response.Status > 0 && r.Response.Status != http.StatusOK {
			status := r.Response.Status
			code = int(errors.ErrInternalError)
			if status == http.StatusNotFound {
				code = int(errors.ErrNotFound)
			}
			msg = http.StatusText(status)
			// It creates an error as it can be retrieved by other middlewares.
			r.SetError(gerror.NewCode(gcode.CodeUnknown, msg))
		} else {
			code = gcode.CodeOK.Code()
			msg = gcode.CodeOK.Message()
		}
	}
	if noWrapResp(r) {
		r.Response.WriteJson(res)
		return
	}
	r.Response.WriteJson(ghttp.DefaultHandlerResponse{
		Code:    code,
		Message: msg,
		Data:    res,
	})
}

// errorStatus 返回 HTTP 状态码和响应中的业务错误码。
// 参数校验失败（gf 的 v 标签）按 ErrInvalidParameter 处理。
func errorStatus(err error) (int, int) {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Code.HTTPStatusCode(), int(appErr.Code)
	}
	switch gerror.Code(err) {
	case gcode.CodeValidationFailed, gcode.CodeInvalidParameter, gcode.CodeMissingParameter:
		return http.StatusBadRequest, int(errors.ErrInvalidParameter)
	}
	return http.StatusInternalServerError, int(errors.ErrInternalError)
}

// 中间件中判断
func noWrapResp(r *ghttp.Request) bool {
	handler := r.GetServeHandler().Handler
	if handler.Info.Type != nil && handler.Info.Type.NumIn() == 2 {
		var objectReq = reflect.New(handler.Info.Type.In(1))
		if v := gmeta.Get(objectReq, "no_wrap_resp"); !v.IsEmpty() {
			return v.Bool()
		}
	}
	return false
}
