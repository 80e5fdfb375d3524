package model

import "opsadmin/common/types"

// 实名认证状态
const (
	KycPending  = "pending"
	KycApproved = "approved"
	KycRejected = "rejected"
)

// KycUser 实名认证记录
type KycUser struct {
	BaseModelWithUser
	UserID       uint            `gorm:"uniqueIndex" json:"userId"`
	RealName     string          `gorm:"size:50;index" json:"realName"`
	IDType       string          `gorm:"column:id_type;size:20" json:"idType"` // id_card, passport
	IDNumber     string          `gorm:"column:id_number;size:50" json:"idNumber"`
	Country      string          `gorm:"size:50" json:"country"`
	Level        int             `gorm:"default:1" json:"level"`
	IDFront      string          `gorm:"column:id_front;size:255" json:"idFront"`
	Status       string          `gorm:"size:20;index;default:pending" json:"status"`
	RejectReason string          `gorm:"size:255" json:"rejectReason"`
	ReviewedAt   *types.DateTime `json:"reviewedAt"`
}

// TableName 表名
func (KycUser) TableName() string {
	return "ops_kyc_user"
}
