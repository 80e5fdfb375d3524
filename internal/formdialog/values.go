package formdialog

import (
	"strconv"
	"strings"
)

// Values 表单值，array 字段为 []map[string]any
type Values = map[string]any

type fieldPath struct {
	name   string
	index  int
	sub    string
	nested bool
}

// parsePath 解析 "name" 或 "name.index.sub"
func parsePath(path string) (fieldPath, bool) {
	name, rest, nested := strings.Cut(path, ".")
	if !nested {
		return fieldPath{name: name}, name != ""
	}
	idx, sub, ok := strings.Cut(rest, ".")
	if !ok || sub == "" || strings.Contains(sub, ".") {
		return fieldPath{}, false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return fieldPath{}, false
	}
	return fieldPath{name: name, index: i, sub: sub, nested: true}, true
}

func itemPath(name string, index int, sub string) string {
	return name + "." + strconv.Itoa(index) + "." + sub
}

func items(values Values, name string) []map[string]any {
	list, _ := values[name].([]map[string]any)
	return list
}

func getValue(values Values, path string) (any, bool) {
	p, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	if !p.nested {
		v, ok := values[p.name]
		return v, ok
	}
	list := items(values, p.name)
	if p.index >= len(list) {
		return nil, false
	}
	v, ok := list[p.index][p.sub]
	return v, ok
}

func setValue(values Values, path string, v any) bool {
	p, ok := parsePath(path)
	if !ok {
		return false
	}
	if !p.nested {
		values[p.name] = v
		return true
	}
	list := items(values, p.name)
	if p.index >= len(list) {
		return false
	}
	list[p.index][p.sub] = v
	return true
}

// normalize 补齐缺省值，并把 []any 形式的数组子项转换为 []map[string]any
func normalize(fields []FieldSpec, values Values) Values {
	out := deepCopy(values)
	for _, f := range fields {
		v, ok := out[f.Name]
		if f.Kind != KindArray {
			if !ok {
				out[f.Name] = fieldDefault(f)
			}
			continue
		}

		var list []map[string]any
		switch raw := v.(type) {
		case []map[string]any:
			list = raw
		case []any:
			for _, it := range raw {
				if m, ok := it.(map[string]any); ok {
					list = append(list, m)
				}
			}
		}
		for i, item := range list {
			merged := ItemDefaults(f.Fields)
			for k, val := range item {
				merged[k] = val
			}
			list[i] = merged
		}
		if list == nil {
			list = []map[string]any{}
		}
		out[f.Name] = list
	}
	return out
}

// deepCopy 复制嵌套的 map/slice，避免编辑值泄漏到调用方的数据
func deepCopy(values Values) Values {
	out := make(Values, len(values))
	for k, v := range values {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []map[string]any:
		list := make([]map[string]any, len(t))
		for i, m := range t {
			list[i] = deepCopy(m)
		}
		return list
	case []any:
		list := make([]any, len(t))
		for i, it := range t {
			list[i] = copyValue(it)
		}
		return list
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// isEmpty 必填判断
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}
