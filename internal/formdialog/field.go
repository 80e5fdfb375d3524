package formdialog

import "strings"

// FieldKind 字段类型
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindCombobox FieldKind = "combobox"
	KindRichText FieldKind = "richtext"
	KindArray    FieldKind = "array"
	KindImage    FieldKind = "image"
)

// Option 下拉选项
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// FieldSpec 表单字段描述，每种对话框构造一次，渲染时只读
type FieldSpec struct {
	Name         string      `json:"name"`
	Label        string      `json:"label"`
	Kind         FieldKind   `json:"kind"`
	Required     bool        `json:"required"`
	Rules        string      `json:"rules,omitempty"` // validator 标签，如 "gte=0,lte=100"
	Placeholder  string      `json:"placeholder,omitempty"`
	ShowWhen     *Condition  `json:"showWhen,omitempty"`
	Options      []Option    `json:"options,omitempty"`
	OptionSource string      `json:"optionSource,omitempty"` // combobox 远程选项来源
	Fields       []FieldSpec `json:"fields,omitempty"`       // array 子字段
}

// ItemDefaults 数组子项默认值：数字与日期为未设置(nil)，其余为空串
func ItemDefaults(fields []FieldSpec) map[string]any {
	item := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case KindNumber, KindDate, KindDateTime:
			item[f.Name] = nil
		default:
			item[f.Name] = ""
		}
	}
	return item
}

// fieldDefault 顶层字段的初始值
func fieldDefault(f FieldSpec) any {
	switch f.Kind {
	case KindNumber, KindDate, KindDateTime, KindImage:
		return nil
	case KindCheckbox:
		return false
	case KindArray:
		return []map[string]any{}
	default:
		return ""
	}
}

// lookupField 按路径查找字段，路径形如 "collateral.0.amount"
func lookupField(fields []FieldSpec, path string) (FieldSpec, bool) {
	name, rest, nested := strings.Cut(path, ".")
	for _, f := range fields {
		if f.Name != name {
			continue
		}
		if !nested {
			return f, true
		}
		_, sub, ok := strings.Cut(rest, ".")
		if !ok || f.Kind != KindArray {
			return FieldSpec{}, false
		}
		return lookupField(f.Fields, sub)
	}
	return FieldSpec{}, false
}
