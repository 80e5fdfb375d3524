package utils

import (
	"github.com/bytedance/sonic"
)

func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func MarshalString(v any) (string, error) {
	return sonic.MarshalString(v)
}

func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func UnmarshalString(s string, v any) error {
	return sonic.UnmarshalString(s, v)
}

// Convert 经 JSON 在两种结构间转换，如记录与表单值 map 互转
func Convert[T any](src any) (T, error) {
	var dst T
	data, err := sonic.Marshal(src)
	if err != nil {
		return dst, err
	}
	err = sonic.Unmarshal(data, &dst)
	return dst, err
}

// ToMap 对象转为 map，键为 json 标签名
func ToMap(v any) (map[string]any, error) {
	return Convert[map[string]any](v)
}

// GetString 按路径读取 JSON 中的字符串字段，不存在或类型不符返回空串
func GetString(data []byte, path ...any) string {
	node, err := sonic.Get(data, path...)
	if err != nil {
		return ""
	}
	s, _ := node.String()
	return s
}
