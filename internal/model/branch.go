package model

import "opsadmin/common/types"

// 网点状态
const (
	BranchActive = "active"
	BranchClosed = "closed"
)

// Branch 网点
type Branch struct {
	BaseModelWithUser
	Code     string      `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name     string      `gorm:"size:100;not null" json:"name"`
	City     string      `gorm:"size:50;index" json:"city"`
	Manager  string      `gorm:"size:50" json:"manager"`
	Phone    string      `gorm:"size:30" json:"phone"`
	Status   string      `gorm:"size:20;default:active" json:"status"`
	OpenedOn *types.Date `json:"openedOn"`
	Remark   string      `gorm:"size:500" json:"remark"`
}

// TableName 表名
func (Branch) TableName() string {
	return "ops_branch"
}
