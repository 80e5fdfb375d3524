package formdialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition_Eval(t *testing.T) {
	values := Values{"status": "rejected", "hasLawyer": true, "amount": float64(3), "tags": []string{}}

	tests := []struct {
		name string
		cond *Condition
		want bool
	}{
		{"nil 恒为真", nil, true},
		{"eq", Eq("status", "rejected"), true},
		{"eq 数字宽松比较", Eq("amount", 3), true},
		{"eq 字符串与数字", Eq("amount", "3"), true},
		{"neq", Neq("status", "approved"), true},
		{"truthy", Truthy("hasLawyer"), true},
		{"truthy 空切片", Truthy("tags"), false},
		{"falsy 缺失字段", Falsy("missing"), true},
		{"expr", When(`status == "rejected" && amount > 2`), true},
		{"expr 未定义变量", When(`lawyerName != nil`), false},
		{"expr 运行错误视为隐藏", When(`amount / status > 1`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Eval(values))
		})
	}
}

func TestCondition_Check(t *testing.T) {
	assert.NoError(t, Eq("status", "x").Check())
	assert.NoError(t, (*Condition)(nil).Check())
	assert.Error(t, (&Condition{Field: "a", Op: "contains"}).Check())
	assert.Error(t, (&Condition{Op: OpEq}).Check())
	assert.Error(t, When("status ==").Check())
}

func TestParseNumber(t *testing.T) {
	for _, raw := range []string{"", "-", ".", "1.", "-0.", "1e5", "abc", "--1"} {
		_, ok := ParseNumber(raw)
		assert.False(t, ok, raw)
	}
	n, ok := ParseNumber("-0.5")
	assert.True(t, ok)
	assert.Equal(t, -0.5, n)

	for raw, want := range map[string]float64{".5": 0.5, "-.25": -0.25} {
		n, ok := ParseNumber(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, n, raw)
	}
}
