package errcode

import "net/http"

type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(code int, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// NewCustomErr 自定义错误，按参数错误处理
func NewCustomErr(msg string) *Err {
	return NewErr(CodeValidation, msg)
}

const (
	CodeValidation      = 4000
	CodeInvalidState    = 4001
	CodeAuth            = 4010
	CodePaymentRequired = 4020
	CodeNotFound        = 4040
	CodeUpstream        = 5000
	CodePersistence     = 5001
)

var (
	ErrValidation      = NewErr(CodeValidation, "invalid request")
	ErrInvalidState    = NewErr(CodeInvalidState, "operation not allowed in current status")
	ErrAuth            = NewErr(CodeAuth, "unauthorized")
	ErrPaymentRequired = NewErr(CodePaymentRequired, "no credits remaining, please upgrade your plan")
	ErrNotFound        = NewErr(CodeNotFound, "resource not found")
	ErrUpstream        = NewErr(CodeUpstream, "upstream service error")
	ErrPersistence     = NewErr(CodePersistence, "storage error")
)

// HTTPStatus 错误码到HTTP状态码的映射
func HTTPStatus(code int) int {
	switch code {
	case CodeValidation, CodeInvalidState:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodePaymentRequired:
		return http.StatusPaymentRequired
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
