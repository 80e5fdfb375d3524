package model

import (
	"opsadmin/common/types"

	"gorm.io/datatypes"
)

// 诉讼状态
const (
	CaseFiled   = "filed"
	CaseHearing = "hearing"
	CaseJudged  = "judged"
	CaseClosed  = "closed"
)

// JudgeLoan 贷款诉讼案件
type JudgeLoan struct {
	BaseModelWithUser
	CaseNo     string         `gorm:"size:50;uniqueIndex;not null" json:"caseNo"`
	LoanID     uint           `gorm:"index" json:"loanId"`
	Court      string         `gorm:"size:100" json:"court"`
	Plaintiff  string         `gorm:"size:100" json:"plaintiff"`
	Defendant  string         `gorm:"size:100;index" json:"defendant"`
	Claim      float64        `gorm:"type:decimal(20,2)" json:"claim"`
	Status     string         `gorm:"size:20;index;default:filed" json:"status"`
	HasLawyer  bool           `gorm:"default:false" json:"hasLawyer"`
	LawyerName string         `gorm:"size:50" json:"lawyerName"`
	FiledOn    *types.Date    `json:"filedOn"`
	Hearings   datatypes.JSON `json:"hearings"` // [{date, room, result}]
	Remark     string         `gorm:"size:500" json:"remark"`
}

// TableName 表名
func (JudgeLoan) TableName() string {
	return "ops_judge_loan"
}
