package urlstate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SortDirection 排序方向
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// SortColumn 单列排序
type SortColumn struct {
	ColumnID  string        `json:"columnId"`
	Direction SortDirection `json:"direction"`
}

// TableViewState 表格视图状态
type TableViewState struct {
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	Sort          []SortColumn   `json:"sort"`
	ColumnFilters map[string]any `json:"columnFilters"`
	GlobalFilter  string         `json:"globalFilter,omitempty"`
}

// Offset 当前页偏移量
func (s TableViewState) Offset() int {
	return (s.Page - 1) * s.PageSize
}

// Filter 获取列筛选值
func (s TableViewState) Filter(columnID string) (any, bool) {
	v, ok := s.ColumnFilters[columnID]
	return v, ok
}

// Read 从 URL 参数解析表格状态
// 非法输入不会报错，统一回退为默认值（URL 可被用户随意修改）
func Read(query url.Values, cfg Config) TableViewState {
	cfg = cfg.withDefaults()

	state := TableViewState{
		Page:          positiveInt(query.Get(cfg.PageKey), 1),
		PageSize:      positiveInt(query.Get(cfg.PageSizeKey), cfg.DefaultPageSize),
		Sort:          parseSort(query[cfg.SortKey], cfg.ArrayDelimiter),
		ColumnFilters: make(map[string]any, len(cfg.Filters)),
	}
	if cfg.MaxPageSize > 0 && state.PageSize > cfg.MaxPageSize {
		state.PageSize = cfg.MaxPageSize
	}

	for _, spec := range cfg.Filters {
		if v, ok := readFilter(query[spec.key()], spec, cfg.ArrayDelimiter); ok {
			state.ColumnFilters[spec.ColumnID] = v
		}
	}

	if cfg.GlobalFilter.Enabled {
		state.GlobalFilter = strings.TrimSpace(query.Get(cfg.GlobalFilter.Key))
	}

	return state
}

// Encode 将表格状态写回 URL 参数，base 中不属于表格的参数原样保留
func Encode(state TableViewState, cfg Config, base url.Values) url.Values {
	cfg = cfg.withDefaults()

	q := WithPageSize(base, cfg, state.PageSize)
	q = WithSort(q, cfg, state.Sort)
	for _, spec := range cfg.Filters {
		v, ok := state.ColumnFilters[spec.ColumnID]
		if !ok {
			v = nil
		}
		q = setFilter(q, spec, v, cfg.ArrayDelimiter)
	}
	if cfg.GlobalFilter.Enabled {
		q = setOrDelete(q, cfg.GlobalFilter.Key, state.GlobalFilter)
	}
	return WithPage(q, cfg, state.Page)
}

// positiveInt 解析正整数，失败或非正数返回默认值
func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseSort 解析 sort=col:asc,col2:desc，也接受重复参数
func parseSort(raw []string, delim string) []SortColumn {
	var out []SortColumn
	seen := make(map[string]bool)
	for _, part := range splitAll(raw, delim) {
		id, dir, _ := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		d := Asc
		if strings.EqualFold(strings.TrimSpace(dir), string(Desc)) {
			d = Desc
		}
		out = append(out, SortColumn{ColumnID: id, Direction: d})
	}
	return out
}

// formatSort 排序序列化
func formatSort(sort []SortColumn) string {
	parts := make([]string, 0, len(sort))
	for _, s := range sort {
		if s.ColumnID == "" {
			continue
		}
		dir := s.Direction
		if dir != Desc {
			dir = Asc
		}
		parts = append(parts, s.ColumnID+":"+string(dir))
	}
	return strings.Join(parts, ",")
}

// readFilter 读取单个列筛选
func readFilter(raw []string, spec ColumnFilterSpec, delim string) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var values []string
	if spec.Kind == KindArray {
		values = splitAll(raw, delim)
	} else if v := strings.TrimSpace(raw[0]); v != "" {
		values = []string{v}
	}
	if len(values) == 0 {
		return nil, false
	}

	if spec.Deserialize != nil {
		return safeDeserialize(spec.Deserialize, values)
	}
	if spec.Kind == KindArray {
		return values, true
	}
	return values[0], true
}

// safeDeserialize 调用自定义反序列化，panic 视为解析失败
func safeDeserialize(fn func([]string) (any, bool), raw []string) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()
	return fn(raw)
}

// serializeFilter 将筛选值转为参数值，返回空切片表示移除该参数
func serializeFilter(spec ColumnFilterSpec, value any, delim string) []string {
	if value == nil {
		return nil
	}

	var raw []string
	if spec.Serialize != nil {
		raw = spec.Serialize(value)
	} else {
		switch v := value.(type) {
		case string:
			raw = []string{v}
		case []string:
			raw = v
		case fmt.Stringer:
			raw = []string{v.String()}
		default:
			raw = []string{fmt.Sprint(v)}
		}
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if spec.Kind == KindArray {
		return []string{strings.Join(out, delim)}
	}
	return out[:1]
}

// splitAll 拆分多个参数值并去除空项
func splitAll(raw []string, delim string) []string {
	var out []string
	for _, r := range raw {
		for _, p := range strings.Split(r, delim) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
