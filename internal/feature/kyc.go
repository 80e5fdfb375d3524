package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/urlstate"
)

// KycStatus 实名认证状态选项
var KycStatus = []formdialog.Option{
	{Label: "待审核", Value: model.KycPending},
	{Label: "已通过", Value: model.KycApproved},
	{Label: "已驳回", Value: model.KycRejected},
}

// IDTypes 证件类型选项
var IDTypes = []formdialog.Option{
	{Label: "身份证", Value: "id_card"},
	{Label: "护照", Value: "passport"},
}

// KycUsers 实名认证审核
func KycUsers() Definition[model.KycUser] {
	return Definition[model.KycUser]{
		Key:   "kyc-users",
		Title: "实名认证",
		Columns: []datatable.Column[model.KycUser]{
			{ID: "userId", Header: "用户ID", Sortable: true},
			{ID: "realName", Header: "姓名"},
			{ID: "idType", Header: "证件类型", Cell: func(k model.KycUser) any { return Label(IDTypes, k.IDType) }},
			{ID: "idNumber", Header: "证件号", Hideable: true},
			{ID: "country", Header: "国家", Hideable: true},
			{ID: "level", Header: "等级", Sortable: true},
			{ID: "status", Header: "状态", Cell: func(k model.KycUser) any { return Label(KycStatus, k.Status) }},
			{ID: "rejectReason", Header: "驳回原因", Hideable: true},
			{ID: "reviewedAt", Header: "审核时间", Sortable: true, Hideable: true},
		},
		Filters: []Filter{
			Select("status", "状态", KycStatus),
			Select("idType", "证件类型", IDTypes),
			Text("country", "国家", OpEq),
		},
		DefaultSort:   []urlstate.SortColumn{{ColumnID: "userId", Direction: urlstate.Desc}},
		SearchColumns: []string{"real_name", "id_number"},
		Fields: []formdialog.FieldSpec{
			{Name: "realName", Label: "姓名", Kind: formdialog.KindText, Required: true},
			{Name: "idType", Label: "证件类型", Kind: formdialog.KindSelect, Required: true, Options: IDTypes},
			{Name: "idNumber", Label: "证件号", Kind: formdialog.KindText, Required: true, Rules: "alphanum,max=50"},
			{Name: "country", Label: "国家", Kind: formdialog.KindText},
			{Name: "level", Label: "等级", Kind: formdialog.KindNumber, Rules: "gte=1,lte=3"},
			{Name: "idFront", Label: "证件正面", Kind: formdialog.KindImage, Required: true},
			{Name: "status", Label: "审核状态", Kind: formdialog.KindSelect, Required: true, Options: KycStatus},
			{Name: "rejectReason", Label: "驳回原因", Kind: formdialog.KindText, Required: true,
				ShowWhen: formdialog.Eq("status", model.KycRejected)},
		},
		Actions: datatable.Actions[model.KycUser]{
			Detail: true,
			Update: true,
			HideEditButton: func(k model.KycUser) bool {
				return k.Status == model.KycApproved
			},
		},
	}
}
