package datatable

import (
	"reflect"
	"strings"

	"github.com/duke-git/lancet/v2/convertor"
)

// RowKeyFunc 行标识函数，同一页内须稳定且唯一
type RowKeyFunc[T any] func(row T) string

// FieldKey 以字段或 map 键作为行标识，缺失或为 nil 时返回空串
func FieldKey[T any](name string) RowKeyFunc[T] {
	return func(row T) string {
		v, ok := FieldValue(row, name)
		if !ok || v == nil {
			return ""
		}
		return convertor.ToString(v)
	}
}

// FieldValue 读取结构体字段（含嵌入字段，支持 json 标签名）或 map 键
func FieldValue(row any, name string) (any, bool) {
	rv, ok := deref(reflect.ValueOf(row))
	if !ok {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return valueOf(mv)
	case reflect.Struct:
		fv, found := structField(rv, name)
		if !found {
			return nil, false
		}
		return valueOf(fv)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	if f, ok := rv.Type().FieldByName(name); ok && f.IsExported() {
		if fv, err := rv.FieldByIndexErr(f.Index); err == nil {
			return fv, true
		}
		return reflect.Value{}, false
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			inner, ok := deref(rv.Field(i))
			if ok && inner.Kind() == reflect.Struct {
				if v, found := structField(inner, name); found {
					return v, true
				}
			}
			continue
		}
		if jsonName(f) == name {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// deref 解开指针与接口，nil 返回 false
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

// valueOf 字段存在但为 nil 时返回 (nil, true)
func valueOf(v reflect.Value) (any, bool) {
	inner, ok := deref(v)
	if !ok {
		return nil, true
	}
	if !inner.CanInterface() {
		return nil, false
	}
	return inner.Interface(), true
}
