package urlstate

import (
	"net/url"
	"strconv"
	"strings"
)

// Clone 深拷贝参数集合
func Clone(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// WithPage 合并页码，第1页不写入参数
func WithPage(prev url.Values, cfg Config, page int) url.Values {
	cfg = cfg.withDefaults()
	q := Clone(prev)
	if page <= 1 {
		q.Del(cfg.PageKey)
	} else {
		q.Set(cfg.PageKey, strconv.Itoa(page))
	}
	return q
}

// WithPageSize 合并每页条数，并重置页码
func WithPageSize(prev url.Values, cfg Config, size int) url.Values {
	cfg = cfg.withDefaults()
	q := Clone(prev)
	if size <= 0 || size == cfg.DefaultPageSize {
		q.Del(cfg.PageSizeKey)
	} else {
		q.Set(cfg.PageSizeKey, strconv.Itoa(size))
	}
	if size != positiveInt(prev.Get(cfg.PageSizeKey), cfg.DefaultPageSize) {
		q.Del(cfg.PageKey)
	}
	return q
}

// WithSort 合并排序，不影响页码
func WithSort(prev url.Values, cfg Config, sort []SortColumn) url.Values {
	cfg = cfg.withDefaults()
	return setOrDelete(Clone(prev), cfg.SortKey, formatSort(sort))
}

// WithColumnFilter 合并单列筛选，value 为空时移除；筛选变化时页码重置为1
func WithColumnFilter(prev url.Values, cfg Config, columnID string, value any) url.Values {
	cfg = cfg.withDefaults()
	spec, ok := cfg.FilterSpec(columnID)
	if !ok {
		return Clone(prev)
	}

	q := setFilter(Clone(prev), spec, value, cfg.ArrayDelimiter)
	if !sameValues(prev[spec.key()], q[spec.key()]) {
		q.Del(cfg.PageKey)
	}
	return q
}

// WithGlobalFilter 合并全局搜索文本；文本变化时页码重置为1
func WithGlobalFilter(prev url.Values, cfg Config, text string) url.Values {
	cfg = cfg.withDefaults()
	if !cfg.GlobalFilter.Enabled {
		return Clone(prev)
	}

	q := setOrDelete(Clone(prev), cfg.GlobalFilter.Key, strings.TrimSpace(text))
	if !sameValues(prev[cfg.GlobalFilter.Key], q[cfg.GlobalFilter.Key]) {
		q.Del(cfg.PageKey)
	}
	return q
}

func setFilter(q url.Values, spec ColumnFilterSpec, value any, delim string) url.Values {
	raw := serializeFilter(spec, value, delim)
	if len(raw) == 0 {
		q.Del(spec.key())
	} else {
		q[spec.key()] = raw
	}
	return q
}

func setOrDelete(q url.Values, key, value string) url.Values {
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	return q
}

func sameValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
