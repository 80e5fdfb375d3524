package model

import (
	"opsadmin/common/types"
)

// 管理员角色
const (
	RoleAdmin    = "admin"    // 全部权限
	RoleOperator = "operator" // 查看、新增、编辑
	RoleViewer   = "viewer"   // 只读
)

// AdminUser 后台管理员
type AdminUser struct {
	BaseModel
	Username    string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password    string          `gorm:"size:255;not null" json:"-"`
	Nickname    string          `gorm:"size:50" json:"nickname"`
	Role        string          `gorm:"size:20;default:viewer" json:"role"`
	Status      int8            `gorm:"default:1" json:"status"` // 0:禁用 1:启用
	LastLoginAt *types.DateTime `json:"lastLoginAt"`
	LastLoginIP string          `gorm:"size:50" json:"lastLoginIp"`
}

// TableName 表名
func (AdminUser) TableName() string {
	return "sys_admin_user"
}
