package formdialog

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/duke-git/lancet/v2/convertor"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Op 条件运算
type Op string

const (
	OpEq     Op = "eq"
	OpNeq    Op = "neq"
	OpTruthy Op = "truthy"
	OpFalsy  Op = "falsy"
)

// Condition 字段显示条件
// Expr 非空时按表达式求值（可引用任意字段，如 `status == "rejected" && amount > 0`），否则按 Field/Op/Value 判断
type Condition struct {
	Field string `json:"field,omitempty"`
	Op    Op     `json:"op,omitempty"`
	Value any    `json:"value,omitempty"`
	Expr  string `json:"expr,omitempty"`
}

// Eq 字段等于
func Eq(field string, value any) *Condition {
	return &Condition{Field: field, Op: OpEq, Value: value}
}

// Neq 字段不等于
func Neq(field string, value any) *Condition {
	return &Condition{Field: field, Op: OpNeq, Value: value}
}

// Truthy 字段为真值
func Truthy(field string) *Condition {
	return &Condition{Field: field, Op: OpTruthy}
}

// Falsy 字段为假值
func Falsy(field string) *Condition {
	return &Condition{Field: field, Op: OpFalsy}
}

// When 表达式条件
func When(src string) *Condition {
	return &Condition{Expr: src}
}

var programs sync.Map // string -> *vm.Program

func compile(src string) (*vm.Program, error) {
	if p, ok := programs.Load(src); ok {
		return p.(*vm.Program), nil
	}
	p, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, err
	}
	programs.Store(src, p)
	return p, nil
}

// Check 校验条件本身是否合法
func (c *Condition) Check() error {
	if c == nil {
		return nil
	}
	if c.Expr != "" {
		if _, err := compile(c.Expr); err != nil {
			return fmt.Errorf("invalid showWhen expression %q: %w", c.Expr, err)
		}
		return nil
	}
	switch c.Op {
	case OpEq, OpNeq, OpTruthy, OpFalsy:
	default:
		return fmt.Errorf("unknown showWhen op %q", c.Op)
	}
	if c.Field == "" {
		return fmt.Errorf("showWhen op %q without field", c.Op)
	}
	return nil
}

// Eval 基于当前值求值，nil 条件恒为真；表达式运行失败视为不显示
func (c *Condition) Eval(values map[string]any) bool {
	if c == nil {
		return true
	}
	if c.Expr != "" {
		p, err := compile(c.Expr)
		if err != nil {
			return false
		}
		out, err := expr.Run(p, values)
		if err != nil {
			return false
		}
		b, _ := out.(bool)
		return b
	}

	v := values[c.Field]
	switch c.Op {
	case OpEq:
		return looseEqual(v, c.Value)
	case OpNeq:
		return !looseEqual(v, c.Value)
	case OpTruthy:
		return truthy(v)
	case OpFalsy:
		return !truthy(v)
	}
	return false
}

// looseEqual 数字按数值比较，其余按字符串形式比较
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return convertor.ToString(a) == convertor.ToString(b)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}
