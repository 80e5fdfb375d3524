package datatable

import (
	"opsadmin/internal/urlstate"

	"github.com/duke-git/lancet/v2/slice"
)

// Options 表格配置
type Options[T any] struct {
	Columns []Column[T]
	// RowKey 为空时取 id 字段
	RowKey  RowKeyFunc[T]
	Actions Actions[T]
}

// Table 通用数据表格
type Table[T any] struct {
	columns []Column[T]
	rowKey  RowKeyFunc[T]
	actions Actions[T]
	visible []string
}

// RowView 行
type RowView[T any] struct {
	Key     string         `json:"key"`
	Record  T              `json:"record"`
	Cells   map[string]any `json:"cells"`
	Actions []ActionView   `json:"actions,omitempty"`
}

// View 表格渲染结果
type View[T any] struct {
	Columns    []HeaderView   `json:"columns"`
	Rows       []RowView[T]   `json:"rows"`
	Pagination PaginationView `json:"pagination"`
	Empty      bool           `json:"empty"`
}

// New 创建表格
func New[T any](opts Options[T]) *Table[T] {
	rowKey := opts.RowKey
	if rowKey == nil {
		rowKey = FieldKey[T]("id")
	}
	return &Table[T]{
		columns: opts.Columns,
		rowKey:  rowKey,
		actions: opts.Actions,
	}
}

// Columns 列定义
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// Actions 行操作配置
func (t *Table[T]) Actions() Actions[T] {
	return t.actions
}

// WithVisible 返回只显示给定可隐藏列的副本，不可隐藏的列始终显示；ids 为空表示全部显示
func (t *Table[T]) WithVisible(ids []string) *Table[T] {
	cp := *t
	cp.visible = append([]string(nil), ids...)
	return &cp
}

// WithActions 返回替换行操作配置的副本
func (t *Table[T]) WithActions(actions Actions[T]) *Table[T] {
	cp := *t
	cp.actions = actions
	return &cp
}

// Build 组合表格状态、数据与分页生成视图
func (t *Table[T]) Build(rows []T, state urlstate.TableViewState, p Pagination) View[T] {
	cols := t.visibleColumns()

	view := View[T]{
		Columns: make([]HeaderView, 0, len(cols)+1),
		Rows:    make([]RowView[T], 0, len(rows)),
		Empty:   len(rows) == 0,
	}
	if p != nil {
		view.Pagination = p.View()
	}

	for _, c := range cols {
		view.Columns = append(view.Columns, HeaderView{
			ID:       c.ID,
			Header:   c.Header,
			Sortable: c.Sortable,
			Hideable: c.Hideable,
			Sorted:   sortedDirection(state.Sort, c.ID),
			Meta:     c.Meta,
		})
	}
	withActions := t.actions.Enabled()
	if withActions {
		view.Columns = append(view.Columns, HeaderView{
			ID:     ActionsColumnID,
			Header: "操作",
			Meta:   ColumnMeta{Align: AlignRight},
		})
	}

	for _, row := range rows {
		rv := RowView[T]{
			Key:    t.rowKey(row),
			Record: row,
			Cells:  make(map[string]any, len(cols)),
		}
		for _, c := range cols {
			rv.Cells[c.ID] = c.Value(row)
		}
		if withActions {
			rv.Actions = t.actions.Render(row)
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}

func (t *Table[T]) visibleColumns() []Column[T] {
	if len(t.visible) == 0 {
		return t.columns
	}
	return slice.Filter(t.columns, func(_ int, c Column[T]) bool {
		return !c.Hideable || slice.Contain(t.visible, c.ID)
	})
}

func sortedDirection(sort []urlstate.SortColumn, id string) string {
	for _, s := range sort {
		if s.ColumnID == id {
			return string(s.Direction)
		}
	}
	return ""
}
