package datatable

// Align 单元格对齐方式
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ActionsColumnID 操作列ID
const ActionsColumnID = "actions"

// ColumnMeta 列元数据
type ColumnMeta struct {
	ClassName       string `json:"className,omitempty"`
	HeaderClassName string `json:"headerClassName,omitempty"`
	Align           Align  `json:"align,omitempty"`
	Width           int    `json:"width,omitempty"`
}

// Column 列描述
// Cell 为空时按 ID 读取同名字段（Go 字段名或 json 标签）
type Column[T any] struct {
	ID       string
	Header   string
	Cell     func(row T) any
	Sortable bool
	Hideable bool
	Meta     ColumnMeta
}

// Value 计算单元格值
func (c Column[T]) Value(row T) any {
	if c.Cell != nil {
		return c.Cell(row)
	}
	v, _ := FieldValue(row, c.ID)
	return v
}

// HeaderView 表头
type HeaderView struct {
	ID       string     `json:"id"`
	Header   string     `json:"header"`
	Sortable bool       `json:"sortable"`
	Hideable bool       `json:"hideable"`
	Sorted   string     `json:"sorted,omitempty"` // asc | desc
	Meta     ColumnMeta `json:"meta"`
}
