package formdialog

import (
	"regexp"
	"strconv"
	"strings"
)

var completeNumber = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)$`)

// ParseNumber 仅完整的数字串（如 "-0.5"、".5"）才解析成功；"-"、"1."、"." 等中间态返回 false
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if !completeNumber.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatNumber 数字回显
func FormatNumber(v any) string {
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
