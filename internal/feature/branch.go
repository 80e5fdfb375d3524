package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/urlstate"
)

// BranchStatus 网点状态选项
var BranchStatus = []formdialog.Option{
	{Label: "营业中", Value: model.BranchActive},
	{Label: "已关闭", Value: model.BranchClosed},
}

// Branches 网点管理
func Branches() Definition[model.Branch] {
	return Definition[model.Branch]{
		Key:   "branches",
		Title: "网点管理",
		Columns: []datatable.Column[model.Branch]{
			{ID: "code", Header: "网点编码", Sortable: true},
			{ID: "name", Header: "网点名称", Sortable: true},
			{ID: "city", Header: "城市", Sortable: true, Hideable: true},
			{ID: "manager", Header: "负责人", Hideable: true},
			{ID: "phone", Header: "联系电话", Hideable: true},
			{ID: "status", Header: "状态", Cell: func(b model.Branch) any { return Label(BranchStatus, b.Status) }},
			{ID: "openedOn", Header: "开业日期", Sortable: true, Hideable: true},
		},
		Filters: []Filter{
			Select("status", "状态", BranchStatus),
			Text("city", "城市", OpEq),
		},
		DefaultSort:   []urlstate.SortColumn{{ColumnID: "code", Direction: urlstate.Asc}},
		SearchColumns: []string{"code", "name", "manager"},
		Fields: []formdialog.FieldSpec{
			{Name: "code", Label: "网点编码", Kind: formdialog.KindText, Required: true, Rules: "max=30"},
			{Name: "name", Label: "网点名称", Kind: formdialog.KindText, Required: true, Rules: "max=100"},
			{Name: "city", Label: "城市", Kind: formdialog.KindText},
			{Name: "manager", Label: "负责人", Kind: formdialog.KindText},
			{Name: "phone", Label: "联系电话", Kind: formdialog.KindText, Rules: "omitempty,max=30"},
			{Name: "status", Label: "状态", Kind: formdialog.KindSelect, Required: true, Options: BranchStatus},
			{Name: "openedOn", Label: "开业日期", Kind: formdialog.KindDate},
			{Name: "remark", Label: "备注", Kind: formdialog.KindText, Rules: "omitempty,max=500"},
		},
		InitialValues: formdialog.Values{"status": model.BranchActive},
		Create:        true,
		Actions:       datatable.Actions[model.Branch]{Detail: true, Update: true, Delete: true},
		Option: func(b model.Branch) formdialog.Option {
			return formdialog.Option{Label: b.Code + " " + b.Name, Value: b.ID}
		},
	}
}
