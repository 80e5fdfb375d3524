package feature

import (
	"opsadmin/internal/formdialog"
	"opsadmin/internal/urlstate"

	"github.com/duke-git/lancet/v2/convertor"
	"github.com/duke-git/lancet/v2/slice"
)

// Text 文本筛选
func Text(id, label string, op Op) Filter {
	return Filter{
		ColumnFilterSpec: urlstate.ColumnFilterSpec{ColumnID: id},
		Label:            label,
		Op:               op,
	}
}

// Select 单选筛选，URL 中不在选项内的值被忽略
func Select(id, label string, options []formdialog.Option) Filter {
	return Filter{
		ColumnFilterSpec: urlstate.ColumnFilterSpec{
			ColumnID: id,
			Deserialize: func(raw []string) (any, bool) {
				if len(raw) == 0 || !hasOption(options, raw[0]) {
					return nil, false
				}
				return raw[0], true
			},
		},
		Label:   label,
		Options: options,
	}
}

// MultiSelect 多选筛选，URL 中以逗号连接
func MultiSelect(id, label string, options []formdialog.Option) Filter {
	return Filter{
		ColumnFilterSpec: urlstate.ColumnFilterSpec{
			ColumnID: id,
			Kind:     urlstate.KindArray,
			Deserialize: func(raw []string) (any, bool) {
				vals := slice.Filter(raw, func(_ int, v string) bool { return hasOption(options, v) })
				if len(vals) == 0 {
					return nil, false
				}
				return vals, true
			},
		},
		Label:   label,
		Options: options,
	}
}

// Number 数值筛选，column 为比较的数据库列
func Number(id, label, column string, op Op) Filter {
	return Filter{
		ColumnFilterSpec: urlstate.ColumnFilterSpec{
			ColumnID: id,
			Serialize: func(v any) []string {
				return []string{convertor.ToString(v)}
			},
			Deserialize: func(raw []string) (any, bool) {
				if len(raw) == 0 {
					return nil, false
				}
				n, ok := formdialog.ParseNumber(raw[0])
				if !ok {
					return nil, false
				}
				return n, true
			},
		},
		Label:  label,
		Column: column,
		Op:     op,
	}
}

func hasOption(options []formdialog.Option, v string) bool {
	for _, o := range options {
		if convertor.ToString(o.Value) == v {
			return true
		}
	}
	return false
}

// Label 选项值对应的显示文本，找不到时原样返回
func Label(options []formdialog.Option, v any) string {
	s := convertor.ToString(v)
	for _, o := range options {
		if convertor.ToString(o.Value) == s {
			return o.Label
		}
	}
	return s
}
