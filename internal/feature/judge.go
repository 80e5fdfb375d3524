package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/urlstate"
)

// CaseStatus 诉讼状态选项
var CaseStatus = []formdialog.Option{
	{Label: "已立案", Value: model.CaseFiled},
	{Label: "审理中", Value: model.CaseHearing},
	{Label: "已判决", Value: model.CaseJudged},
	{Label: "已结案", Value: model.CaseClosed},
}

// JudgeLoans 贷款诉讼
func JudgeLoans() Definition[model.JudgeLoan] {
	return Definition[model.JudgeLoan]{
		Key:   "judge-loans",
		Title: "诉讼案件",
		Columns: []datatable.Column[model.JudgeLoan]{
			{ID: "caseNo", Header: "案号", Sortable: true},
			{ID: "loanId", Header: "贷款ID", Hideable: true},
			{ID: "court", Header: "法院"},
			{ID: "defendant", Header: "被告", Sortable: true},
			{ID: "claim", Header: "诉讼标的", Sortable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "status", Header: "状态", Cell: func(j model.JudgeLoan) any { return Label(CaseStatus, j.Status) }},
			{ID: "lawyerName", Header: "代理律师", Hideable: true},
			{ID: "filedOn", Header: "立案日期", Sortable: true},
		},
		Filters: []Filter{
			MultiSelect("status", "状态", CaseStatus),
			Text("court", "法院", OpLike),
		},
		DefaultSort:   []urlstate.SortColumn{{ColumnID: "filedOn", Direction: urlstate.Desc}},
		SearchColumns: []string{"case_no", "defendant", "plaintiff"},
		Fields: []formdialog.FieldSpec{
			{Name: "caseNo", Label: "案号", Kind: formdialog.KindText, Required: true},
			{Name: "loanId", Label: "关联贷款", Kind: formdialog.KindCombobox, Required: true, OptionSource: "loans"},
			{Name: "court", Label: "法院", Kind: formdialog.KindText, Required: true},
			{Name: "plaintiff", Label: "原告", Kind: formdialog.KindText},
			{Name: "defendant", Label: "被告", Kind: formdialog.KindText, Required: true},
			{Name: "claim", Label: "诉讼标的", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "status", Label: "状态", Kind: formdialog.KindSelect, Required: true, Options: CaseStatus},
			{Name: "hasLawyer", Label: "委托律师", Kind: formdialog.KindCheckbox},
			{Name: "lawyerName", Label: "律师姓名", Kind: formdialog.KindText, Required: true, ShowWhen: formdialog.Truthy("hasLawyer")},
			{Name: "filedOn", Label: "立案日期", Kind: formdialog.KindDate},
			{Name: "hearings", Label: "庭审记录", Kind: formdialog.KindArray, Fields: []formdialog.FieldSpec{
				{Name: "date", Label: "开庭日期", Kind: formdialog.KindDate, Required: true},
				{Name: "room", Label: "法庭", Kind: formdialog.KindText},
				{Name: "result", Label: "结果", Kind: formdialog.KindText},
			}},
			{Name: "remark", Label: "备注", Kind: formdialog.KindRichText},
		},
		InitialValues: formdialog.Values{"status": model.CaseFiled},
		Create:        true,
		Actions: datatable.Actions[model.JudgeLoan]{
			Detail: true,
			Update: true,
			Delete: true,
			HideDeleteButton: func(j model.JudgeLoan) bool {
				return j.Status != model.CaseClosed
			},
		},
	}
}
