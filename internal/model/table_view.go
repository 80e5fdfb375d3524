package model

// SysTableView 表格视图，UserID 为 0 表示系统视图
type SysTableView struct {
	BaseModelWithUser
	UserID       uint   `gorm:"index:idx_table_view_user;not null;default:0" json:"userId"`
	TableKey     string `gorm:"size:100;index:idx_table_view_user;not null" json:"tableKey"`
	Name         string `gorm:"size:50;not null" json:"name"`
	IsDefault    bool   `gorm:"default:false" json:"isDefault"`
	ColumnKeys   string `gorm:"type:text" json:"columnKeys"`   // 可见列 JSON 数组
	ColumnFixed  string `gorm:"type:text" json:"columnFixed"`  // 固定列 JSON 数组
	SearchParams string `gorm:"type:text" json:"searchParams"` // 规范化后的 URL 查询串
	Sort         int    `gorm:"default:0" json:"sort"`
}

// TableName 表名
func (SysTableView) TableName() string {
	return "sys_table_view"
}
