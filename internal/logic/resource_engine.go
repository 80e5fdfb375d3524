package logic

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"opsadmin/common/logger"
	"opsadmin/common/utils"
	"opsadmin/internal/datatable"
	"opsadmin/internal/feature"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/service"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"
	"opsadmin/internal/urlstate"

	"github.com/duke-git/lancet/v2/strutil"
	"go.uber.org/zap"
)

// 游标翻页方向
const (
	navNext = "next"
	navPrev = "prev"
)

const saveSuccess = "保存成功"

// engine 单个资源定义的表格、表单与提交实现
type engine[T model.Entity] struct {
	def      feature.Definition[T]
	repo     *service.ResourceService[T]
	urlCfg   urlstate.Config
	table    *datatable.Table[T]
	uploader formdialog.ImageUploader
	onChange func(ctx context.Context, key string)
	log      *zap.Logger
}

func newEngine[T model.Entity](sctx *svc.ServiceContext, def feature.Definition[T], up formdialog.ImageUploader, onChange func(context.Context, string)) *engine[T] {
	cfg := def.URLConfig()
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = sctx.Config.Table.DefaultPageSize
	}
	if sctx.Config.Table.MaxPageSize > 0 {
		cfg.MaxPageSize = sctx.Config.Table.MaxPageSize
	}
	return &engine[T]{
		def:      def,
		repo:     service.NewResourceService[T](sctx.DB),
		urlCfg:   cfg,
		table:    datatable.New(datatable.Options[T]{Columns: def.Columns, Actions: def.Actions}),
		uploader: up,
		onChange: onChange,
		log:      logger.Named("resource").With(zap.String("key", def.Key)),
	}
}

func (e *engine[T]) Key() string {
	return e.def.Key
}

func (e *engine[T]) URLConfig() urlstate.Config {
	return e.urlCfg
}

func (e *engine[T]) Permission(action string) string {
	return e.def.Permission(action)
}

// Info 资源目录项
func (e *engine[T]) Info() types.ResourceInfo {
	info := types.ResourceInfo{
		Key:          e.def.Key,
		Title:        e.def.Title,
		Mode:         datatable.ModeOffset,
		PageSize:     e.urlCfg.DefaultPageSize,
		Search:       e.urlCfg.GlobalFilter.Enabled,
		Create:       e.def.Create,
		Actions:      make([]datatable.ActionKind, 0, 3),
		Columns:      make([]types.ColumnInfo, 0, len(e.def.Columns)),
		Filters:      make([]types.FilterInfo, 0, len(e.def.Filters)),
		Fields:       e.def.Fields,
		OptionSource: e.def.Option != nil,
	}
	if e.def.Cursor() {
		info.Mode = datatable.ModeCursor
	}
	if info.Search {
		info.SearchKey = urlstate.DefaultGlobalKey
		if e.urlCfg.GlobalFilter.Key != "" {
			info.SearchKey = e.urlCfg.GlobalFilter.Key
		}
	}
	if e.def.Actions.Detail {
		info.Actions = append(info.Actions, datatable.ActionDetail)
	}
	if e.def.Actions.Update {
		info.Actions = append(info.Actions, datatable.ActionUpdate)
	}
	if e.def.Actions.Delete {
		info.Actions = append(info.Actions, datatable.ActionDelete)
	}
	for _, c := range e.def.Columns {
		info.Columns = append(info.Columns, types.ColumnInfo{ID: c.ID, Header: c.Header, Sortable: c.Sortable, Hideable: c.Hideable, Meta: c.Meta})
	}
	for _, f := range e.def.Filters {
		info.Filters = append(info.Filters, types.FilterInfo{ID: f.ColumnID, Label: f.Label, Multi: f.Kind == urlstate.KindArray, Options: f.Options})
	}
	return info
}

// listQuery 表格状态转换为查询条件，列名只取自资源定义
func (e *engine[T]) listQuery(state urlstate.TableViewState) service.ListQuery {
	q := service.ListQuery{SearchColumns: e.def.SearchColumns, Search: state.GlobalFilter}
	for _, f := range e.def.Filters {
		v, ok := state.Filter(f.ColumnID)
		if !ok {
			continue
		}
		q.Conditions = append(q.Conditions, service.Condition{Column: f.DBColumn(), Op: string(f.Operator()), Value: v})
	}
	for _, s := range state.Sort {
		if col, ok := e.def.SortColumn(s.ColumnID); ok {
			q.Orders = append(q.Orders, service.Order{Column: col, Desc: s.Direction == urlstate.Desc})
		}
	}
	if len(q.Orders) == 0 {
		for _, s := range e.def.DefaultSort {
			q.Orders = append(q.Orders, service.Order{Column: strutil.SnakeCase(s.ColumnID), Desc: s.Direction == urlstate.Desc})
		}
	}
	return q
}

func (e *engine[T]) tableFor(columns []string, allow AllowFunc) *datatable.Table[T] {
	t := e.table
	if len(columns) > 0 {
		t = t.WithVisible(columns)
	}
	if allow != nil {
		t = t.WithActions(e.def.Actions.Restrict(allow))
	}
	return t
}

// Table 表格数据
func (e *engine[T]) Table(ctx context.Context, req TableRequest) (*TableResult, error) {
	if e.def.Cursor() {
		return e.cursorTable(ctx, req)
	}
	return e.offsetTable(ctx, req)
}

// offsetTable 页码分页；页码超出页数时返回跳转到最后一页的查询串
// 查询失败记录日志并按空结果渲染
func (e *engine[T]) offsetTable(ctx context.Context, req TableRequest) (*TableResult, error) {
	rec := urlstate.NewRecorder(req.Query)
	syncer := urlstate.NewSynchronizer(e.urlCfg, req.Query, rec)
	defer syncer.Close()

	state := syncer.State()
	q := e.listQuery(state)
	q.Offset, q.Limit = state.Offset(), state.PageSize

	rows, total, err := e.repo.List(ctx, q)
	if err != nil {
		e.log.Error("查询列表失败", zap.Error(err))
		rows, total = []T{}, 0
	}

	p := datatable.OffsetPagination{Page: state.Page, PageSize: state.PageSize, Total: total}
	if syncer.EnsurePageInRange(p.PageCount()) {
		target, _ := rec.Last()
		return &TableResult{Redirect: "?" + target.Encode()}, nil
	}

	view := e.tableFor(req.Columns, req.Allow).Build(rows, state, p)
	query := urlstate.Encode(state, e.urlCfg, req.Query)

	links := types.PageLinks{}
	pv := p.View()
	if pv.HasPrevious {
		links.Previous = "?" + urlstate.WithPage(query, e.urlCfg, state.Page-1).Encode()
	}
	if pv.HasNext {
		links.Next = "?" + urlstate.WithPage(query, e.urlCfg, state.Page+1).Encode()
	}

	return &TableResult{Response: &types.TableResponse{
		Key:   e.def.Key,
		Query: query.Encode(),
		State: state,
		Table: view,
		Links: links,
	}}, nil
}

// cursorTable 游标分页：cursor 为当前页令牌，cursors 为此前各页令牌栈，nav 请求翻页
// 查询失败时渲染空页
func (e *engine[T]) cursorTable(ctx context.Context, req TableRequest) (*TableResult, error) {
	state := urlstate.Read(req.Query, e.urlCfg)
	state.Page = 1
	q := e.listQuery(state)
	q.Orders = nil

	pager := datatable.NewCursorPager(state.PageSize, func(ctx context.Context, token string) (datatable.CursorPage[T], error) {
		rows, next, err := e.repo.ListAfter(ctx, q, token, state.PageSize)
		if err != nil {
			return datatable.CursorPage[T]{}, err
		}
		return datatable.CursorPage[T]{Items: rows, HasNextPage: next != "", ContinuationToken: next}, nil
	})

	current := req.Query.Get(CursorKey)
	stack, ok := datatable.DecodeStack(req.Query.Get(CursorsKey))
	if !ok {
		e.log.Warn("令牌栈无法解析，回到第一页", zap.String("cursors", req.Query.Get(CursorsKey)))
		current, stack = "", nil
	}
	pager.Restore(current, stack)
	_, err := pager.Load(ctx)
	if errors.Is(err, service.ErrInvalidCursor) {
		e.log.Warn("分页游标无效，回到第一页", zap.String("cursor", current))
		pager.Restore("", nil)
		_, err = pager.Load(ctx)
	}
	if err != nil {
		e.log.Error("查询列表失败", zap.Error(err))
	} else {
		switch req.Query.Get(NavKey) {
		case navNext:
			_, err = pager.OnNextPage(ctx)
		case navPrev:
			_, err = pager.OnPreviousPage(ctx)
		}
		if err != nil {
			e.log.Error("翻页失败，停留在当前页", zap.Error(err))
		}
	}

	view := e.tableFor(req.Columns, req.Allow).Build(pager.Page().Items, state, pager)

	query := urlstate.Encode(state, e.urlCfg, req.Query)
	query.Del(NavKey)
	setParam(query, CursorKey, pager.Current())
	setParam(query, CursorsKey, datatable.EncodeStack(pager.Stack()))

	links := types.PageLinks{}
	if pager.HasPrevious() {
		links.Previous = "?" + withParam(query, NavKey, navPrev).Encode()
	}
	if pager.HasNext() {
		links.Next = "?" + withParam(query, NavKey, navNext).Encode()
	}

	return &TableResult{Response: &types.TableResponse{
		Key:   e.def.Key,
		Query: query.Encode(),
		State: state,
		Table: view,
		Links: links,
	}}, nil
}

func setParam(q url.Values, key, value string) {
	if value == "" {
		q.Del(key)
		return
	}
	q.Set(key, value)
}

func withParam(q url.Values, key, value string) url.Values {
	out := urlstate.Clone(q)
	out.Set(key, value)
	return out
}

// Detail 单条记录
func (e *engine[T]) Detail(ctx context.Context, id uint, allow AllowFunc) (*types.DetailResponse, error) {
	row, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := e.tableFor(nil, allow).Build([]T{*row}, urlstate.TableViewState{}, nil)
	rv := view.Rows[0]
	return &types.DetailResponse{Key: e.def.Key, Record: row, Cells: rv.Cells, Actions: rv.Actions}, nil
}

func (e *engine[T]) canUpdate(row T) bool {
	return e.def.Actions.Update && (e.def.Actions.HideEditButton == nil || !e.def.Actions.HideEditButton(row))
}

func (e *engine[T]) canDelete(row T) bool {
	return e.def.Actions.Delete && (e.def.Actions.HideDeleteButton == nil || !e.def.Actions.HideDeleteButton(row))
}

func (e *engine[T]) newDialog(notifier formdialog.Notifier, submit formdialog.SubmitFunc[T]) (*formdialog.Dialog[T], error) {
	return formdialog.New(formdialog.Config[T]{
		Title:          e.def.Title,
		Fields:         e.def.Fields,
		InitialValues:  e.def.InitialValues,
		DeriveValues:   deriveValues[T],
		Check:          e.def.Check,
		Submit:         submit,
		Uploader:       e.uploader,
		Notifier:       notifier,
		SuccessMessage: saveSuccess,
	})
}

// open 挂载对话框并按 id 打开新建或编辑
func (e *engine[T]) open(ctx context.Context, dlg *formdialog.Dialog[T], id uint, onRefresh func()) (string, error) {
	dialogs := datatable.NewDialogs[T](onRefresh)
	dialogs.Register(datatable.DialogCreate, dlg)
	dialogs.Register(datatable.DialogUpdate, dlg)

	if id == 0 {
		if !e.def.Create {
			return "", ErrCreateDisabled
		}
		dialogs.OpenCreate()
		return datatable.DialogCreate.String(), nil
	}

	row, err := e.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !e.canUpdate(*row) {
		return "", ErrUpdateDisabled
	}
	dialogs.OpenUpdate(*row)
	return datatable.DialogUpdate.String(), nil
}

// Form 表单渲染；draft 非空时在初始值上叠加草稿并校验
func (e *engine[T]) Form(ctx context.Context, id uint, draft formdialog.Values) (*types.FormResponse, error) {
	dlg, err := e.newDialog(nil, nil)
	if err != nil {
		return nil, err
	}
	mode, err := e.open(ctx, dlg, id, nil)
	if err != nil {
		return nil, err
	}

	var errs formdialog.FieldErrors
	if draft != nil {
		dlg.SetValues(draft)
		errs = dlg.Validate()
	}
	return &types.FormResponse{
		Key:       e.def.Key,
		Title:     dlg.Title(),
		Mode:      mode,
		Widgets:   dlg.Widgets(),
		Values:    dlg.Values(),
		Errors:    errs,
		CanSubmit: dlg.CanSubmit(),
	}, nil
}

// Submit 校验、上传图片并保存，成功后通知刷新
func (e *engine[T]) Submit(ctx context.Context, req SubmitRequest) (*types.SubmitResponse, error) {
	toasts := &formdialog.Collector{}
	var saved *T
	dlg, err := e.newDialog(toasts, func(ctx context.Context, values formdialog.Values, record *T) error {
		var err error
		if record == nil {
			saved, err = e.repo.Create(ctx, values, req.Operator)
		} else {
			saved, err = e.repo.Update(ctx, (*record).GetID(), values, req.Operator)
		}
		if err != nil {
			e.log.Error("保存失败", zap.Uint("id", req.ID), zap.Error(err))
			return fmt.Errorf("保存失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := e.open(ctx, dlg, req.ID, func() { e.onChange(ctx, e.def.Key) }); err != nil {
		return nil, err
	}
	dlg.SetValues(req.Values)
	for path, file := range req.Files {
		if !dlg.StageImage(path, file) {
			e.log.Warn("忽略非图片字段的文件", zap.String("field", path))
		}
	}

	if err := dlg.Submit(ctx); err != nil {
		var fieldErrs formdialog.FieldErrors
		errors.As(err, &fieldErrs)
		return nil, &SubmitError{Err: err, Detail: types.SubmitError{
			Errors: fieldErrs,
			Values: dlg.Values(),
			Toasts: toasts.Toasts(),
		}}
	}
	return &types.SubmitResponse{Record: saved, Toasts: toasts.Toasts()}, nil
}

// Delete 经删除确认对话框删除记录
func (e *engine[T]) Delete(ctx context.Context, id uint) error {
	row, err := e.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !e.canDelete(*row) {
		return ErrDeleteDisabled
	}

	confirm := &confirmDialog[T]{}
	dialogs := datatable.NewDialogs[T](func() { e.onChange(ctx, e.def.Key) })
	dialogs.Register(datatable.DialogDelete, confirm)
	dialogs.OpenDelete(*row)

	return confirm.Confirm(ctx, func(ctx context.Context, row T) error {
		return e.repo.Delete(ctx, row.GetID())
	})
}

// Options 作为下拉选项来源
func (e *engine[T]) Options(ctx context.Context, search string, limit int) ([]formdialog.Option, error) {
	if e.def.Option == nil {
		return nil, ErrNoOptions
	}
	rows, err := e.repo.Find(ctx, service.ListQuery{
		SearchColumns: e.def.SearchColumns,
		Search:        search,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	opts := make([]formdialog.Option, 0, len(rows))
	for _, row := range rows {
		opts = append(opts, e.def.Option(row))
	}
	return opts, nil
}

// deriveValues 编辑模式以记录的 JSON 字段作为初始值
func deriveValues[T any](record T) formdialog.Values {
	values, err := utils.ToMap(record)
	if err != nil {
		logger.Warn("记录转换为表单值失败", zap.Error(err))
		return formdialog.Values{}
	}
	return values
}

// ErrNotConfirmed 删除对话框未打开
var ErrNotConfirmed = errors.New("删除未确认")

// confirmDialog 删除确认对话框
type confirmDialog[T any] struct {
	props datatable.DialogProps[T]
}

// Bind 实现 datatable.Dialog
func (d *confirmDialog[T]) Bind(props datatable.DialogProps[T]) {
	d.props = props
}

// Confirm 确认删除，成功后关闭并通知刷新
func (d *confirmDialog[T]) Confirm(ctx context.Context, remove func(context.Context, T) error) error {
	if !d.props.Open || d.props.Data == nil {
		return ErrNotConfirmed
	}
	if err := remove(ctx, *d.props.Data); err != nil {
		return err
	}
	if d.props.OnSuccess != nil {
		d.props.OnSuccess()
	}
	return nil
}
