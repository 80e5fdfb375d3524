package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/urlstate"
)

// ContractStatus 质押合约状态选项
var ContractStatus = []formdialog.Option{
	{Label: "草稿", Value: model.ContractDraft},
	{Label: "已上线", Value: model.ContractOnline},
	{Label: "已下线", Value: model.ContractOffline},
}

// StakeStatus 用户质押状态选项
var StakeStatus = []formdialog.Option{
	{Label: "质押中", Value: model.StakeStaking},
	{Label: "已赎回", Value: model.StakeRedeemed},
}

// StakeContracts 质押合约
func StakeContracts() Definition[model.StakeContract] {
	return Definition[model.StakeContract]{
		Key:   "stake-contracts",
		Title: "质押合约",
		Columns: []datatable.Column[model.StakeContract]{
			{ID: "name", Header: "合约名称", Sortable: true},
			{ID: "coinSymbol", Header: "币种", Sortable: true},
			{ID: "apr", Header: "年化收益(%)", Sortable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "lockDays", Header: "锁定天数", Sortable: true},
			{ID: "minAmount", Header: "最小数量", Hideable: true},
			{ID: "maxAmount", Header: "最大数量", Hideable: true},
			{ID: "status", Header: "状态", Cell: func(s model.StakeContract) any { return Label(ContractStatus, s.Status) }},
			{ID: "startOn", Header: "开始日期", Hideable: true},
			{ID: "endOn", Header: "结束日期", Hideable: true},
		},
		Filters: []Filter{
			Select("status", "状态", ContractStatus),
			Text("coinSymbol", "币种", OpEq),
		},
		DefaultSort:   []urlstate.SortColumn{{ColumnID: "apr", Direction: urlstate.Desc}},
		SearchColumns: []string{"name", "coin_symbol"},
		Fields: []formdialog.FieldSpec{
			{Name: "name", Label: "合约名称", Kind: formdialog.KindText, Required: true},
			{Name: "coinSymbol", Label: "币种", Kind: formdialog.KindCombobox, Required: true, OptionSource: "coins"},
			{Name: "apr", Label: "年化收益(%)", Kind: formdialog.KindNumber, Required: true, Rules: "gte=0,lte=1000"},
			{Name: "lockDays", Label: "锁定天数", Kind: formdialog.KindNumber, Required: true, Rules: "gte=0"},
			{Name: "minAmount", Label: "最小数量", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "maxAmount", Label: "最大数量", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "status", Label: "状态", Kind: formdialog.KindSelect, Required: true, Options: ContractStatus},
			{Name: "startOn", Label: "开始日期", Kind: formdialog.KindDate},
			{Name: "endOn", Label: "结束日期", Kind: formdialog.KindDate},
			{Name: "description", Label: "合约说明", Kind: formdialog.KindRichText},
		},
		InitialValues: formdialog.Values{"status": model.ContractDraft},
		Check:         checkAmountRange,
		Create:        true,
		Actions: datatable.Actions[model.StakeContract]{
			Detail: true,
			Update: true,
			Delete: true,
			HideDeleteButton: func(s model.StakeContract) bool {
				return s.Status == model.ContractOnline
			},
		},
	}
}

// checkAmountRange 最大数量不得小于最小数量
func checkAmountRange(values formdialog.Values) formdialog.FieldErrors {
	lo, okLo := values["minAmount"].(float64)
	hi, okHi := values["maxAmount"].(float64)
	if okLo && okHi && hi > 0 && hi < lo {
		return formdialog.FieldErrors{"maxAmount": "最大数量不能小于最小数量"}
	}
	return nil
}

// UserStakes 用户质押记录
func UserStakes() Definition[model.UserStake] {
	return Definition[model.UserStake]{
		Key:   "user-stakes",
		Title: "用户质押",
		Columns: []datatable.Column[model.UserStake]{
			{ID: "userId", Header: "用户ID", Sortable: true},
			{ID: "contractId", Header: "合约ID"},
			{ID: "coinSymbol", Header: "币种"},
			{ID: "amount", Header: "数量", Sortable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "reward", Header: "收益", Sortable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "status", Header: "状态", Cell: func(s model.UserStake) any { return Label(StakeStatus, s.Status) }},
			{ID: "stakedAt", Header: "质押时间", Sortable: true},
			{ID: "redeemedAt", Header: "赎回时间", Hideable: true},
		},
		Filters: []Filter{
			Select("status", "状态", StakeStatus),
			Text("userId", "用户ID", OpEq),
			Text("contractId", "合约ID", OpEq),
		},
		DefaultSort: []urlstate.SortColumn{{ColumnID: "stakedAt", Direction: urlstate.Desc}},
		Fields: []formdialog.FieldSpec{
			{Name: "status", Label: "状态", Kind: formdialog.KindSelect, Required: true, Options: StakeStatus},
			{Name: "reward", Label: "收益", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "redeemedAt", Label: "赎回时间", Kind: formdialog.KindDateTime, Required: true,
				ShowWhen: formdialog.Eq("status", model.StakeRedeemed)},
		},
		Actions: datatable.Actions[model.UserStake]{
			Detail: true,
			Update: true,
			HideEditButton: func(s model.UserStake) bool {
				return s.Status == model.StakeRedeemed
			},
		},
	}
}
