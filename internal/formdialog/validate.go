package formdialog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors 字段路径 -> 错误信息
type FieldErrors map[string]string

// Error 实现 error
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// checkField 校验单个可见字段
func checkField(f FieldSpec, v any, staged bool) string {
	if f.Kind == KindImage && staged {
		return ""
	}
	if isEmpty(v) {
		if f.Required {
			return f.Label + "不能为空"
		}
		return ""
	}
	if f.Kind == KindNumber {
		if _, ok := toFloat(v); !ok {
			return f.Label + "必须是数字"
		}
	}
	if f.Rules == "" || f.Kind == KindArray {
		return ""
	}
	if err := validate.Var(v, f.Rules); err != nil {
		return ruleMessage(f.Label, err)
	}
	return ""
}

func ruleMessage(label string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return label + "格式不正确"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "gte", "min":
		return fmt.Sprintf("%s不能小于%s", label, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s不能大于%s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", label, fe.Param())
	case "lt":
		return fmt.Sprintf("%s必须小于%s", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s长度必须为%s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s必须是[%s]之一", label, fe.Param())
	case "email":
		return label + "不是有效的邮箱"
	case "url":
		return label + "不是有效的链接"
	}
	return label + "格式不正确"
}
