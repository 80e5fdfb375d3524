package urlstate

import (
	"time"

	"opsadmin/internal/debounce"
)

// 默认参数键与取值
const (
	DefaultPageKey        = "page"
	DefaultPageSizeKey    = "pageSize"
	DefaultSortKey        = "sort"
	DefaultGlobalKey      = "search"
	DefaultPageSize       = 20
	DefaultArrayDelimiter = ","
)

// FilterKind 列筛选值类型
type FilterKind int

const (
	KindScalar FilterKind = iota // 单值
	KindArray                    // 多值
)

// ColumnFilterSpec 列筛选与 URL 参数的映射
// Serialize/Deserialize 为空时直接透传原始字符串（单值为 string，多值为 []string）
type ColumnFilterSpec struct {
	ColumnID    string
	URLKey      string
	Kind        FilterKind
	Serialize   func(value any) []string
	Deserialize func(raw []string) (any, bool)
}

// key 返回 URL 参数键，未配置时使用列ID
func (s ColumnFilterSpec) key() string {
	if s.URLKey != "" {
		return s.URLKey
	}
	return s.ColumnID
}

// GlobalFilterConfig 全局搜索配置，默认关闭
type GlobalFilterConfig struct {
	Enabled bool
	Key     string
}

// Config 表格 URL 状态配置
type Config struct {
	PageKey         string
	PageSizeKey     string
	SortKey         string
	DefaultPageSize int
	MaxPageSize     int // 0 表示不限制
	Filters         []ColumnFilterSpec
	GlobalFilter    GlobalFilterConfig
	Debounce        time.Duration
	ArrayDelimiter  string
}

// withDefaults 填充默认值
func (c Config) withDefaults() Config {
	if c.PageKey == "" {
		c.PageKey = DefaultPageKey
	}
	if c.PageSizeKey == "" {
		c.PageSizeKey = DefaultPageSizeKey
	}
	if c.SortKey == "" {
		c.SortKey = DefaultSortKey
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.GlobalFilter.Enabled && c.GlobalFilter.Key == "" {
		c.GlobalFilter.Key = DefaultGlobalKey
	}
	if c.Debounce <= 0 {
		c.Debounce = debounce.DefaultWait
	}
	if c.ArrayDelimiter == "" {
		c.ArrayDelimiter = DefaultArrayDelimiter
	}
	return c
}

// FilterSpec 按列ID查找筛选配置
func (c Config) FilterSpec(columnID string) (ColumnFilterSpec, bool) {
	for _, f := range c.Filters {
		if f.ColumnID == columnID {
			return f, true
		}
	}
	return ColumnFilterSpec{}, false
}

// OwnedKeys 返回表格占用的全部参数键
func (c Config) OwnedKeys() []string {
	c = c.withDefaults()
	keys := []string{c.PageKey, c.PageSizeKey, c.SortKey}
	for _, f := range c.Filters {
		keys = append(keys, f.key())
	}
	if c.GlobalFilter.Enabled {
		keys = append(keys, c.GlobalFilter.Key)
	}
	return keys
}
