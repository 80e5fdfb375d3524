package types

// ColumnFixedConfig 列固定配置
type ColumnFixedConfig struct {
	Key   string `json:"key"`
	Fixed string `json:"fixed,omitempty"` // left | right
}

// TableViewInfo 表格视图信息
type TableViewInfo struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	IsSystem    bool                `json:"isSystem"`
	IsDefault   bool                `json:"isDefault"`
	Columns     []string            `json:"columns"`
	ColumnFixed []ColumnFixedConfig `json:"columnFixed,omitempty"`
	Query       string              `json:"query"`
	Sort        int                 `json:"sort"`
	CreatedBy   uint                `json:"createdBy,omitempty"`
}

// TableViewListResponse 表格视图列表响应
type TableViewListResponse struct {
	Views []TableViewInfo `json:"views"`
}

// SaveTableViewRequest 保存表格视图请求
type SaveTableViewRequest struct {
	ID          uint                `json:"id"` // 0表示新建，>0表示更新
	TableKey    string              `json:"tableKey" validate:"required"`
	Name        string              `json:"name" validate:"required,max=50"`
	IsSystem    bool                `json:"isSystem"`
	IsDefault   bool                `json:"isDefault"`
	Columns     []string            `json:"columns"`
	ColumnFixed []ColumnFixedConfig `json:"columnFixed,omitempty"`
	Query       string              `json:"query"` // 表格 URL 查询串，保存前规范化
}

// SortTableViewRequest 视图排序请求
type SortTableViewRequest struct {
	ViewIDs []uint `json:"viewIds"`
}
