package logic

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	commonConfig "opsadmin/common/config"
	"opsadmin/common/database"
	"opsadmin/internal/config"
	"opsadmin/internal/datatable"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/service"
	"opsadmin/internal/svc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&commonConfig.DatabaseConfig{Driver: "sqlite", Database: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupRegistry(t *testing.T) (*Registry, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewRegistry(svc.New(config.Default(), db, nil)), db
}

func mustResource(t *testing.T, r *Registry, key string) Resource {
	t.Helper()
	res, err := r.Get(key)
	require.NoError(t, err)
	return res
}

func seedBranches(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	rows := make([]model.Branch, 0, n)
	for i := 1; i <= n; i++ {
		status := model.BranchActive
		if i%9 == 0 {
			status = model.BranchClosed
		}
		rows = append(rows, model.Branch{Code: fmt.Sprintf("B%03d", i), Name: fmt.Sprintf("第%d网点", i), City: "上海", Status: status})
	}
	require.NoError(t, db.CreateInBatches(rows, 50).Error)
}

func parseLink(t *testing.T, link string) url.Values {
	t.Helper()
	require.True(t, strings.HasPrefix(link, "?"), link)
	q, err := url.ParseQuery(strings.TrimPrefix(link, "?"))
	require.NoError(t, err)
	return q
}

func TestRegistry_Catalog(t *testing.T) {
	r, _ := setupRegistry(t)

	keys := make([]string, 0)
	for _, res := range r.All() {
		keys = append(keys, res.Key())
	}
	assert.Equal(t, []string{"branches", "loans", "coins", "withdrawals", "stake-contracts", "user-stakes", "judge-loans", "kyc-users"}, keys)

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	info := mustResource(t, r, "withdrawals").Info()
	assert.Equal(t, datatable.ModeCursor, info.Mode)
	assert.Equal(t, 20, info.PageSize)
	assert.False(t, info.OptionSource)

	info = mustResource(t, r, "branches").Info()
	assert.Equal(t, datatable.ModeOffset, info.Mode)
	assert.Equal(t, "search", info.SearchKey)
	assert.True(t, info.OptionSource)
	assert.Equal(t, []datatable.ActionKind{datatable.ActionDetail, datatable.ActionUpdate, datatable.ActionDelete}, info.Actions)
}

func TestEngine_OffsetTableRedirectsPastLastPage(t *testing.T) {
	r, db := setupRegistry(t)
	seedBranches(t, db, 45)
	res := mustResource(t, r, "branches")

	out, err := res.Table(context.Background(), TableRequest{Query: url.Values{"page": {"5"}}})
	require.NoError(t, err)
	assert.Nil(t, out.Response)
	assert.Contains(t, out.Redirect, "page=3")

	out, err = res.Table(context.Background(), TableRequest{Query: url.Values{"page": {"2"}}})
	require.NoError(t, err)
	require.Empty(t, out.Redirect)

	view, ok := out.Response.Table.(datatable.View[model.Branch])
	require.True(t, ok)
	require.Len(t, view.Rows, 20)
	assert.Equal(t, "B021", view.Rows[0].Record.Code, "默认按编码升序")
	require.NotNil(t, view.Pagination.Total)
	assert.EqualValues(t, 45, *view.Pagination.Total)

	assert.NotContains(t, out.Response.Links.Previous, "page=")
	assert.Contains(t, out.Response.Links.Next, "page=3")
	assert.Equal(t, "3", parseLink(t, out.Response.Links.Next).Get("page"))
}

func TestEngine_OffsetTableFilterAndColumns(t *testing.T) {
	r, db := setupRegistry(t)
	seedBranches(t, db, 45)
	res := mustResource(t, r, "branches")

	allow := func(kind datatable.ActionKind) bool { return kind == datatable.ActionDetail }
	out, err := res.Table(context.Background(), TableRequest{
		Query:   url.Values{"status": {model.BranchClosed}},
		Columns: []string{"city"},
		Allow:   allow,
	})
	require.NoError(t, err)

	view := out.Response.Table.(datatable.View[model.Branch])
	require.Len(t, view.Rows, 5)
	for _, row := range view.Rows {
		assert.Equal(t, model.BranchClosed, row.Record.Status)
		require.Len(t, row.Actions, 3)
		for _, a := range row.Actions {
			assert.Equal(t, a.Kind != datatable.ActionDetail, a.Disabled, "无权限的操作禁用")
		}
	}
	ids := make([]string, 0, len(view.Columns))
	for _, c := range view.Columns {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"code", "name", "city", "status", datatable.ActionsColumnID}, ids, "不可隐藏的列始终显示")
	assert.Empty(t, out.Response.Links.Next)
	assert.Empty(t, out.Response.Links.Previous)
}

func TestEngine_CursorTableNavigatesWithLinks(t *testing.T) {
	r, db := setupRegistry(t)
	rows := make([]model.Withdrawal, 0, 25)
	for i := 1; i <= 25; i++ {
		rows = append(rows, model.Withdrawal{OrderNo: fmt.Sprintf("W%04d", i), UserID: 1, CoinSymbol: "USDT", Amount: 10, Status: model.WithdrawalPending})
	}
	require.NoError(t, db.Create(&rows).Error)
	res := mustResource(t, r, "withdrawals")
	ctx := context.Background()

	first, err := res.Table(ctx, TableRequest{Query: url.Values{}})
	require.NoError(t, err)
	view := first.Response.Table.(datatable.View[model.Withdrawal])
	require.Len(t, view.Rows, 20)
	assert.Equal(t, "W0025", view.Rows[0].Record.OrderNo)
	assert.Empty(t, first.Response.Links.Previous)
	require.NotEmpty(t, first.Response.Links.Next)

	second, err := res.Table(ctx, TableRequest{Query: parseLink(t, first.Response.Links.Next)})
	require.NoError(t, err)
	view = second.Response.Table.(datatable.View[model.Withdrawal])
	require.Len(t, view.Rows, 5)
	assert.Equal(t, "W0005", view.Rows[0].Record.OrderNo)
	assert.Empty(t, second.Response.Links.Next)
	require.NotEmpty(t, second.Response.Links.Previous)

	q, err := url.ParseQuery(second.Response.Query)
	require.NoError(t, err)
	assert.Empty(t, q.Get(NavKey), "规范查询串不含翻页指令")
	assert.NotEmpty(t, q.Get(CursorKey))

	back, err := res.Table(ctx, TableRequest{Query: parseLink(t, second.Response.Links.Previous)})
	require.NoError(t, err)
	view = back.Response.Table.(datatable.View[model.Withdrawal])
	require.Len(t, view.Rows, 20)
	assert.Equal(t, "W0025", view.Rows[0].Record.OrderNo)
	assert.Empty(t, back.Response.Links.Previous)
}

func TestEngine_CursorTableInvalidCursorFallsBack(t *testing.T) {
	r, db := setupRegistry(t)
	require.NoError(t, db.Create(&model.Withdrawal{OrderNo: "W0001", Status: model.WithdrawalPending}).Error)
	res := mustResource(t, r, "withdrawals")

	out, err := res.Table(context.Background(), TableRequest{Query: url.Values{CursorKey: {"bogus"}, CursorsKey: {"!!!"}}})
	require.NoError(t, err)
	view := out.Response.Table.(datatable.View[model.Withdrawal])
	require.Len(t, view.Rows, 1)
	assert.Empty(t, out.Response.Links.Previous)
}

func TestEngine_SubmitCreateValidatesRequiredFields(t *testing.T) {
	r, _ := setupRegistry(t)
	res := mustResource(t, r, "loans")
	ctx := context.Background()

	_, err := res.Submit(ctx, SubmitRequest{Values: formdialog.Values{"borrower": "张三"}, Operator: 1})
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Detail.Errors, "loanNo")
	assert.Contains(t, serr.Detail.Errors, "amount")
	assert.NotContains(t, serr.Detail.Errors, "startDate", "待审核时起息日隐藏")
	assert.Equal(t, "张三", serr.Detail.Values["borrower"], "失败时保留已填写的值")

	out, err := res.Submit(ctx, SubmitRequest{Values: formdialog.Values{
		"loanNo":     "L0001",
		"branchId":   float64(1),
		"borrower":   "张三",
		"amount":     float64(1000),
		"termMonths": float64(12),
		"collateral": []any{map[string]any{"type": "house", "value": float64(500)}},
	}, Operator: 3})
	require.NoError(t, err)
	loan, ok := out.Record.(*model.Loan)
	require.True(t, ok)
	assert.NotZero(t, loan.ID)
	assert.Equal(t, model.LoanPending, loan.Status)
	assert.EqualValues(t, 3, loan.CreatedBy)
	require.Len(t, out.Toasts, 1)
	assert.Equal(t, saveSuccess, out.Toasts[0].Message)
}

func TestEngine_SubmitHiddenRequiredFieldSkipped(t *testing.T) {
	r, db := setupRegistry(t)
	res := mustResource(t, r, "kyc-users")
	ctx := context.Background()

	a := model.KycUser{UserID: 1, RealName: "王五", IDType: "id_card", IDNumber: "A1234567", Level: 1, IDFront: "/uploads/a.png", Status: model.KycPending}
	b := model.KycUser{UserID: 2, RealName: "赵六", IDType: "passport", IDNumber: "E7654321", Level: 1, IDFront: "/uploads/b.png", Status: model.KycPending}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	_, err := res.Submit(ctx, SubmitRequest{ID: a.ID, Values: formdialog.Values{"status": model.KycApproved, "rejectReason": ""}, Operator: 1})
	require.NoError(t, err)

	var got model.KycUser
	require.NoError(t, db.First(&got, a.ID).Error)
	assert.Equal(t, model.KycApproved, got.Status)
	assert.Equal(t, "王五", got.RealName)

	_, err = res.Submit(ctx, SubmitRequest{ID: b.ID, Values: formdialog.Values{"status": model.KycRejected}, Operator: 1})
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Detail.Errors, "rejectReason")

	_, err = res.Submit(ctx, SubmitRequest{ID: a.ID, Values: formdialog.Values{"status": model.KycRejected}})
	assert.ErrorIs(t, err, ErrUpdateDisabled, "已通过的记录不可编辑")

	_, err = res.Submit(ctx, SubmitRequest{Values: formdialog.Values{}})
	assert.ErrorIs(t, err, ErrCreateDisabled)
}

func TestEngine_FormDraftShowsConditionalFields(t *testing.T) {
	r, db := setupRegistry(t)
	res := mustResource(t, r, "withdrawals")
	w := model.Withdrawal{OrderNo: "W0001", Status: model.WithdrawalPending}
	require.NoError(t, db.Create(&w).Error)

	names := func(widgets []formdialog.Widget) []string {
		out := make([]string, 0, len(widgets))
		for _, w := range widgets {
			out = append(out, w.Name)
		}
		return out
	}

	form, err := res.Form(context.Background(), w.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "update", form.Mode)
	assert.Equal(t, []string{"status"}, names(form.Widgets))

	form, err = res.Form(context.Background(), w.ID, formdialog.Values{"status": model.WithdrawalApproved})
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "txHash"}, names(form.Widgets))
	assert.Contains(t, form.Errors, "txHash")
	assert.False(t, form.CanSubmit)
}

func TestEngine_DeleteHonorsRowRules(t *testing.T) {
	r, db := setupRegistry(t)
	res := mustResource(t, r, "loans")
	locked := model.Loan{LoanNo: "L1", Status: model.LoanLocked}
	pending := model.Loan{LoanNo: "L2", Status: model.LoanPending}
	require.NoError(t, db.Create(&locked).Error)
	require.NoError(t, db.Create(&pending).Error)
	ctx := context.Background()

	assert.ErrorIs(t, res.Delete(ctx, locked.ID), ErrDeleteDisabled)
	require.NoError(t, res.Delete(ctx, pending.ID))
	assert.ErrorIs(t, res.Delete(ctx, pending.ID), service.ErrNotFound)

	detail, err := res.Detail(ctx, locked.ID, nil)
	require.NoError(t, err)
	for _, a := range detail.Actions {
		assert.Equal(t, a.Kind == datatable.ActionDelete, a.Disabled)
	}
}

func TestEngine_Options(t *testing.T) {
	r, db := setupRegistry(t)
	seedBranches(t, db, 12)

	opts, err := mustResource(t, r, "branches").Options(context.Background(), "B00", 5)
	require.NoError(t, err)
	require.Len(t, opts, 5)
	for _, o := range opts {
		assert.True(t, strings.HasPrefix(o.Label, "B00"), o.Label)
	}

	_, err = mustResource(t, r, "withdrawals").Options(context.Background(), "", 5)
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestEngine_TableFetchErrorRendersEmpty(t *testing.T) {
	r, db := setupRegistry(t)
	require.NoError(t, db.Migrator().DropTable(&model.Branch{}, &model.Withdrawal{}))

	out, err := mustResource(t, r, "branches").Table(context.Background(), TableRequest{Query: url.Values{"page": {"4"}}})
	require.NoError(t, err)
	require.Empty(t, out.Redirect, "查询失败时不校正页码")
	view := out.Response.Table.(datatable.View[model.Branch])
	assert.Empty(t, view.Rows)
	assert.True(t, view.Empty)
	assert.EqualValues(t, 0, *view.Pagination.Total)

	out, err = mustResource(t, r, "withdrawals").Table(context.Background(), TableRequest{Query: url.Values{NavKey: {"next"}}})
	require.NoError(t, err)
	cview := out.Response.Table.(datatable.View[model.Withdrawal])
	assert.Empty(t, cview.Rows)
	assert.Empty(t, out.Response.Links.Next)
}
