package feature

import (
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
)

// Chains 链选项
var Chains = []formdialog.Option{
	{Label: "Bitcoin", Value: "BTC"},
	{Label: "Ethereum", Value: "ETH"},
	{Label: "Tron", Value: "TRON"},
	{Label: "BNB Chain", Value: "BSC"},
}

// WithdrawalStatus 提币状态选项
var WithdrawalStatus = []formdialog.Option{
	{Label: "待审核", Value: model.WithdrawalPending},
	{Label: "已通过", Value: model.WithdrawalApproved},
	{Label: "已拒绝", Value: model.WithdrawalRejected},
	{Label: "已锁定", Value: model.WithdrawalLocked},
	{Label: "已完成", Value: model.WithdrawalCompleted},
}

// Coins 币种管理
func Coins() Definition[model.Coin] {
	return Definition[model.Coin]{
		Key:   "coins",
		Title: "币种管理",
		Columns: []datatable.Column[model.Coin]{
			{ID: "icon", Header: "图标", Meta: datatable.ColumnMeta{Width: 64}},
			{ID: "symbol", Header: "币种", Sortable: true},
			{ID: "name", Header: "名称", Sortable: true},
			{ID: "chain", Header: "链", Hideable: true},
			{ID: "decimals", Header: "精度", Hideable: true},
			{ID: "minWithdraw", Header: "最小提币", Hideable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "withdrawFee", Header: "手续费", Hideable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "enabled", Header: "启用"},
		},
		Filters: []Filter{
			Select("chain", "链", Chains),
		},
		SearchColumns: []string{"symbol", "name"},
		Fields: []formdialog.FieldSpec{
			{Name: "symbol", Label: "币种", Kind: formdialog.KindText, Required: true, Rules: "max=20,uppercase"},
			{Name: "name", Label: "名称", Kind: formdialog.KindText, Required: true},
			{Name: "chain", Label: "链", Kind: formdialog.KindSelect, Required: true, Options: Chains},
			{Name: "decimals", Label: "精度", Kind: formdialog.KindNumber, Required: true, Rules: "gte=0,lte=18"},
			{Name: "icon", Label: "图标", Kind: formdialog.KindImage},
			{Name: "minWithdraw", Label: "最小提币", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "withdrawFee", Label: "手续费", Kind: formdialog.KindNumber, Rules: "gte=0"},
			{Name: "enabled", Label: "启用", Kind: formdialog.KindCheckbox},
		},
		InitialValues: formdialog.Values{"enabled": true, "decimals": float64(8)},
		Create:        true,
		Actions:       datatable.Actions[model.Coin]{Update: true, Delete: true},
		Option: func(c model.Coin) formdialog.Option {
			return formdialog.Option{Label: c.Symbol + " - " + c.Name, Value: c.Symbol}
		},
	}
}

// Withdrawals 提币审核，数据量大使用游标分页
func Withdrawals() Definition[model.Withdrawal] {
	return Definition[model.Withdrawal]{
		Key:   "withdrawals",
		Title: "提币审核",
		Columns: []datatable.Column[model.Withdrawal]{
			{ID: "orderNo", Header: "订单号"},
			{ID: "userId", Header: "用户ID"},
			{ID: "coinSymbol", Header: "币种"},
			{ID: "address", Header: "提币地址", Hideable: true},
			{ID: "amount", Header: "数量", Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "fee", Header: "手续费", Hideable: true, Meta: datatable.ColumnMeta{Align: datatable.AlignRight}},
			{ID: "status", Header: "状态", Cell: func(w model.Withdrawal) any { return Label(WithdrawalStatus, w.Status) }},
			{ID: "txHash", Header: "交易哈希", Hideable: true},
			{ID: "createdAt", Header: "申请时间"},
		},
		Filters: []Filter{
			MultiSelect("status", "状态", WithdrawalStatus),
			Text("coinSymbol", "币种", OpEq),
			Text("userId", "用户ID", OpEq),
		},
		SearchColumns: []string{"order_no", "address", "tx_hash"},
		Fields: []formdialog.FieldSpec{
			{Name: "status", Label: "审核结果", Kind: formdialog.KindSelect, Required: true, Options: WithdrawalStatus},
			{Name: "txHash", Label: "交易哈希", Kind: formdialog.KindText, Required: true,
				ShowWhen: formdialog.When(`status in ["approved", "completed"]`)},
			{Name: "remark", Label: "备注", Kind: formdialog.KindText, Required: true, ShowWhen: formdialog.Eq("status", model.WithdrawalRejected)},
		},
		Actions: datatable.Actions[model.Withdrawal]{
			Detail: true,
			Update: true,
			Delete: true,
			HideEditButton: func(w model.Withdrawal) bool {
				return w.Status != model.WithdrawalPending
			},
			HideDeleteButton: func(w model.Withdrawal) bool {
				return w.Status == model.WithdrawalLocked
			},
		},
		Mode: datatable.ModeCursor,
	}
}
