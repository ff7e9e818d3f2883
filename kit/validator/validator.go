package validator

import validate "github.com/go-playground/validator/v10"

var v = validate.New()

// Verify 校验请求结构体
func Verify(req interface{}) error {
	return v.Struct(req)
}
