package model

// All 需要迁移的全部模型
func All() []any {
	return []any{
		&AdminUser{},
		&OperationLog{},
		&SysTableView{},
		&Branch{},
		&Loan{},
		&Coin{},
		&Withdrawal{},
		&StakeContract{},
		&UserStake{},
		&JudgeLoan{},
		&KycUser{},
	}
}
