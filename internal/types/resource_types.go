package types

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/urlstate"
)

// ColumnInfo 列信息
type ColumnInfo struct {
	ID       string               `json:"id"`
	Header   string               `json:"header"`
	Sortable bool                 `json:"sortable"`
	Hideable bool                 `json:"hideable"`
	Meta     datatable.ColumnMeta `json:"meta"`
}

// FilterInfo 筛选项信息
type FilterInfo struct {
	ID      string              `json:"id"`
	Label   string              `json:"label"`
	Multi   bool                `json:"multi"`
	Options []formdialog.Option `json:"options,omitempty"`
}

// ResourceInfo 资源目录项
type ResourceInfo struct {
	Key          string                 `json:"key"`
	Title        string                 `json:"title"`
	Mode         string                 `json:"mode"`
	PageSize     int                    `json:"pageSize"`
	Search       bool                   `json:"search"`
	SearchKey    string                 `json:"searchKey,omitempty"`
	Create       bool                   `json:"create"`
	Actions      []datatable.ActionKind `json:"actions"`
	Columns      []ColumnInfo           `json:"columns"`
	Filters      []FilterInfo           `json:"filters"`
	Fields       []formdialog.FieldSpec `json:"fields"`
	OptionSource bool                   `json:"optionSource"`
}

// PageLinks 翻页链接，形如 ?page=2，为空表示没有该方向的页
type PageLinks struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// TableResponse 表格数据
type TableResponse struct {
	Key   string                  `json:"key"`
	Query string                  `json:"query"` // 规范化后的查询串
	State urlstate.TableViewState `json:"state"`
	Table any                     `json:"table"`
	Links PageLinks               `json:"links"`
}

// DetailResponse 详情
type DetailResponse struct {
	Key     string                 `json:"key"`
	Record  any                    `json:"record"`
	Cells   map[string]any         `json:"cells"`
	Actions []datatable.ActionView `json:"actions,omitempty"`
}

// FormResponse 表单
type FormResponse struct {
	Key       string                 `json:"key"`
	Title     string                 `json:"title"`
	Mode      string                 `json:"mode"` // create | update
	Widgets   []formdialog.Widget    `json:"widgets"`
	Values    formdialog.Values      `json:"values"`
	Errors    formdialog.FieldErrors `json:"errors,omitempty"`
	CanSubmit bool                   `json:"canSubmit"`
}

// FormValuesRequest 表单值（编辑草稿或提交）
type FormValuesRequest struct {
	Values formdialog.Values `json:"values"`
}

// SubmitResponse 提交结果
type SubmitResponse struct {
	Record any                `json:"record,omitempty"`
	Toasts []formdialog.Toast `json:"toasts"`
}

// SubmitError 提交失败的详情
type SubmitError struct {
	Errors formdialog.FieldErrors `json:"errors,omitempty"`
	Values formdialog.Values      `json:"values,omitempty"`
	Toasts []formdialog.Toast     `json:"toasts"`
}
