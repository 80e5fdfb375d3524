package model

import (
	"opsadmin/common/types"

	"gorm.io/datatypes"
)

// 贷款状态
const (
	LoanPending   = "pending"
	LoanActive    = "active"
	LoanLocked    = "locked"
	LoanRepaid    = "repaid"
	LoanDefaulted = "defaulted"
)

// Loan 贷款
type Loan struct {
	BaseModelWithUser
	LoanNo     string         `gorm:"size:40;uniqueIndex;not null" json:"loanNo"`
	BranchID   uint           `gorm:"index" json:"branchId"`
	Borrower   string         `gorm:"size:100;index" json:"borrower"`
	Phone      string         `gorm:"size:30" json:"phone"`
	Amount     float64        `gorm:"type:decimal(20,2)" json:"amount"`
	Rate       float64        `gorm:"type:decimal(8,4)" json:"rate"` // 年化利率(%)
	TermMonths int            `json:"termMonths"`
	Status     string         `gorm:"size:20;index;default:pending" json:"status"`
	StartDate  *types.Date    `json:"startDate"`
	Collateral datatypes.JSON `json:"collateral"` // [{type, description, value}]
	Remark     string         `gorm:"size:500" json:"remark"`
}

// TableName 表名
func (Loan) TableName() string {
	return "ops_loan"
}

// Deletable 锁定或放款中的贷款不可删除
func (l Loan) Deletable() bool {
	return l.Status != LoanLocked && l.Status != LoanActive
}
