package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/urlstate"

	"github.com/duke-git/lancet/v2/strutil"
)

// Op 筛选条件运算
type Op string

const (
	OpEq   Op = "eq"
	OpIn   Op = "in"
	OpLike Op = "like"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
)

// 资源操作，与资源标识组成权限码 <key>:<action>
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Filter 列筛选：URL 参数映射与对应的查询条件
type Filter struct {
	urlstate.ColumnFilterSpec
	Label   string
	Column  string // 数据库列，为空时取列ID的蛇形
	Op      Op     // 为空时单值为 eq，多值为 in
	Options []formdialog.Option
}

// DBColumn 数据库列
func (f Filter) DBColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return strutil.SnakeCase(f.ColumnID)
}

// Operator 查询运算
func (f Filter) Operator() Op {
	if f.Op != "" {
		return f.Op
	}
	if f.Kind == urlstate.KindArray {
		return OpIn
	}
	return OpEq
}

// Definition 业务资源定义：表格列、筛选、表单字段与行操作
type Definition[T any] struct {
	Key         string
	Title       string
	Columns     []datatable.Column[T]
	Filters     []Filter
	DefaultSort []urlstate.SortColumn
	// SearchColumns 全局搜索匹配的数据库列，为空时关闭全局搜索
	SearchColumns []string
	Fields        []formdialog.FieldSpec
	InitialValues formdialog.Values
	Check         func(values formdialog.Values) formdialog.FieldErrors
	Create        bool
	Actions       datatable.Actions[T]
	Mode          string // datatable.ModeOffset | datatable.ModeCursor
	PageSize      int
	// Option 作为下拉选项来源时的选项映射，为空表示不提供选项
	Option func(row T) formdialog.Option
}

// Permission 权限码
func (d Definition[T]) Permission(action string) string {
	return d.Key + ":" + action
}

// URLConfig 表格 URL 状态配置
func (d Definition[T]) URLConfig() urlstate.Config {
	specs := make([]urlstate.ColumnFilterSpec, 0, len(d.Filters))
	for _, f := range d.Filters {
		specs = append(specs, f.ColumnFilterSpec)
	}
	return urlstate.Config{
		DefaultPageSize: d.PageSize,
		MaxPageSize:     200,
		Filters:         specs,
		GlobalFilter:    urlstate.GlobalFilterConfig{Enabled: len(d.SearchColumns) > 0},
	}
}

// SortColumn 返回可排序列对应的数据库列（列ID的蛇形）
func (d Definition[T]) SortColumn(id string) (string, bool) {
	for _, c := range d.Columns {
		if c.ID != id || !c.Sortable {
			continue
		}
		return strutil.SnakeCase(id), true
	}
	return "", false
}

// Filter 按列ID查找筛选
func (d Definition[T]) Filter(id string) (Filter, bool) {
	for _, f := range d.Filters {
		if f.ColumnID == id {
			return f, true
		}
	}
	return Filter{}, false
}

// Cursor 是否游标分页
func (d Definition[T]) Cursor() bool {
	return d.Mode == datatable.ModeCursor
}
