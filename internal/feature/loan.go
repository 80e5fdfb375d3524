package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/urlstate"
)

// LoanStatus 贷款状态选项
var LoanStatus = []formdialog.Option{
	{Label: "待审核", Value: model.LoanPending},
	{Label: "放款中", Value: model.LoanActive},
	{Label: "已锁定", Value: model.LoanLocked},
	{Label: "已结清", Value: model.LoanRepaid},
	{Label: "已逾期", Value: model.LoanDefaulted},
}

// CollateralTypes 抵押物类型选项
var CollateralTypes = []formdialog.Option{
	{Label: "房产", Value: "house"},
	{Label: "车辆", Value: "car"},
	{Label: "存单", Value: "deposit"},
	{Label: "其他", Value: "other"},
}

// Loans 贷款管理
func Loans() Definition[model.Loan] {
	return Definition[model.Loan]{
		Key:   "loans",
		Title: "贷款管理",
		Columns: []datatable.Column[model.Loan]{
			{ID: "loanNo", Header: "贷款编号", Sortable: true},
			{ID: "borrower", Header: "借款人", Sortable: true},
			{ID: "branchId", Header: "网点", Hideable: true},
			{ID: "amount", Header: "金额", Sortable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "rate", Header: "年化利率(%)", Sortable: true, Hideable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "termMonths", Header: "期限(月)", Hideable: true},
			{ID: "status", Header: "状态", Cell: func(l model.Loan) any { return Label(LoanStatus, l.Status) }},
			{ID: "startDate", Header: "起息日", Sortable: true, Hideable: true},
			{ID: "createdAt", Header: "创建时间", Sortable: true, Hideable: true},
		},
		Filters: []Filter{
			MultiSelect("status", "状态", LoanStatus),
			Number("amountMin", "最低金额", "amount", OpGte),
			Number("amountMax", "最高金额", "amount", OpLte),
			Text("branchId", "网点", OpEq),
		},
		DefaultSort:   []urlstate.SortColumn{{ColumnID: "createdAt", Direction: urlstate.Desc}},
		SearchColumns: []string{"loan_no", "borrower", "phone"},
		Fields: []formdialog.FieldSpec{
			{Name: "loanNo", Label: "贷款编号", Kind: formdialog.KindText, Required: true, Rules: "max=40"},
			{Name: "branchId", Label: "网点", Kind: formdialog.KindCombobox, Required: true, OptionSource: "branches"},
			{Name: "borrower", Label: "借款人", Kind: formdialog.KindText, Required: true},
			{Name: "phone", Label: "联系电话", Kind: formdialog.KindText},
			{Name: "amount", Label: "金额", Kind: formdialog.KindNumber, Required: true, Rules: "gt=0"},
			{Name: "rate", Label: "年化利率(%)", Kind: formdialog.KindNumber, Rules: "gte=0,lte=100"},
			{Name: "termMonths", Label: "期限(月)", Kind: formdialog.KindNumber, Required: true, Rules: "gte=1,lte=360"},
			{Name: "status", Label: "状态", Kind: formdialog.KindSelect, Required: true, Options: LoanStatus},
			{Name: "startDate", Label: "起息日", Kind: formdialog.KindDate, ShowWhen: formdialog.Neq("status", model.LoanPending)},
			{Name: "collateral", Label: "抵押物", Kind: formdialog.KindArray, Fields: []formdialog.FieldSpec{
				{Name: "type", Label: "类型", Kind: formdialog.KindSelect, Required: true, Options: CollateralTypes},
				{Name: "description", Label: "描述", Kind: formdialog.KindText},
				{Name: "value", Label: "估值", Kind: formdialog.KindNumber, Rules: "gte=0"},
			}},
			{Name: "remark", Label: "备注", Kind: formdialog.KindText},
		},
		InitialValues: formdialog.Values{"status": model.LoanPending},
		Create:        true,
		Actions: datatable.Actions[model.Loan]{
			Detail: true,
			Update: true,
			Delete: true,
			HideDeleteButton: func(l model.Loan) bool {
				return !l.Deletable()
			},
		},
		Option: func(l model.Loan) formdialog.Option {
			return formdialog.Option{Label: l.LoanNo + " " + l.Borrower, Value: l.ID}
		},
	}
}
