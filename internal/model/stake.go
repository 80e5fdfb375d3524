package model

import "opsadmin/common/types"

// 质押合约状态
const (
	ContractDraft   = "draft"
	ContractOnline  = "online"
	ContractOffline = "offline"
)

// 用户质押状态
const (
	StakeStaking  = "staking"
	StakeRedeemed = "redeemed"
)

// StakeContract 质押合约
type StakeContract struct {
	BaseModelWithUser
	Name        string      `gorm:"size:100;not null" json:"name"`
	CoinSymbol  string      `gorm:"size:20;index" json:"coinSymbol"`
	APR         float64     `gorm:"column:apr;type:decimal(8,4)" json:"apr"`
	LockDays    int         `json:"lockDays"`
	MinAmount   float64     `gorm:"type:decimal(30,8)" json:"minAmount"`
	MaxAmount   float64     `gorm:"type:decimal(30,8)" json:"maxAmount"`
	Status      string      `gorm:"size:20;index;default:draft" json:"status"`
	StartOn     *types.Date `json:"startOn"`
	EndOn       *types.Date `json:"endOn"`
	Description string      `gorm:"type:text" json:"description"`
}

// TableName 表名
func (StakeContract) TableName() string {
	return "ops_stake_contract"
}

// UserStake 用户质押记录
type UserStake struct {
	BaseModelWithUser
	UserID     uint            `gorm:"index" json:"userId"`
	ContractID uint            `gorm:"index" json:"contractId"`
	CoinSymbol string          `gorm:"size:20;index" json:"coinSymbol"`
	Amount     float64         `gorm:"type:decimal(30,8)" json:"amount"`
	Reward     float64         `gorm:"type:decimal(30,8)" json:"reward"`
	Status     string          `gorm:"size:20;index;default:staking" json:"status"`
	StakedAt   *types.DateTime `json:"stakedAt"`
	RedeemedAt *types.DateTime `json:"redeemedAt"`
}

// TableName 表名
func (UserStake) TableName() string {
	return "ops_user_stake"
}
