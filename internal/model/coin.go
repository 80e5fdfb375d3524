package model

import "opsadmin/common/types"

// 提币状态
const (
	WithdrawalPending   = "pending"
	WithdrawalApproved  = "approved"
	WithdrawalRejected  = "rejected"
	WithdrawalLocked    = "locked"
	WithdrawalCompleted = "completed"
)

// Coin 币种
type Coin struct {
	BaseModelWithUser
	Symbol      string  `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Name        string  `gorm:"size:50" json:"name"`
	Chain       string  `gorm:"size:30;index" json:"chain"`
	Decimals    int     `gorm:"default:8" json:"decimals"`
	Icon        string  `gorm:"size:255" json:"icon"`
	Enabled     bool    `json:"enabled"`
	MinWithdraw float64 `gorm:"type:decimal(30,8)" json:"minWithdraw"`
	WithdrawFee float64 `gorm:"type:decimal(30,8)" json:"withdrawFee"`
}

// TableName 表名
func (Coin) TableName() string {
	return "ops_coin"
}

// Withdrawal 提币申请
type Withdrawal struct {
	BaseModelWithUser
	OrderNo     string          `gorm:"size:40;uniqueIndex;not null" json:"orderNo"`
	UserID      uint            `gorm:"index" json:"userId"`
	CoinSymbol  string          `gorm:"size:20;index" json:"coinSymbol"`
	Address     string          `gorm:"size:128" json:"address"`
	Amount      float64         `gorm:"type:decimal(30,8)" json:"amount"`
	Fee         float64         `gorm:"type:decimal(30,8)" json:"fee"`
	TxHash      string          `gorm:"size:128" json:"txHash"`
	Status      string          `gorm:"size:20;index;default:pending" json:"status"`
	ProcessedAt *types.DateTime `json:"processedAt"`
	Remark      string          `gorm:"size:500" json:"remark"`
}

// TableName 表名
func (Withdrawal) TableName() string {
	return "ops_withdrawal"
}
