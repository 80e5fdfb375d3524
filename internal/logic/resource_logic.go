package logic

import (
	"context"
	"net/url"
	"strings"

	"opsadmin/internal/auth"
	"opsadmin/internal/datatable"
	"opsadmin/internal/feature"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/middleware"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/gofiber/fiber/v2"
)

// ResourceLogic 资源表格与表单逻辑
type ResourceLogic struct {
	ctx   context.Context
	fiber *fiber.Ctx
}

// NewResourceLogic 创建资源逻辑
func NewResourceLogic(c *fiber.Ctx) *ResourceLogic {
	return &ResourceLogic{ctx: c.UserContext(), fiber: c}
}

// List 当前用户可查看的资源目录
func (l *ResourceLogic) List() ([]types.ResourceInfo, error) {
	perms, err := l.permissions()
	if err != nil {
		return nil, err
	}
	out := make([]types.ResourceInfo, 0)
	for _, res := range Resources().All() {
		if auth.Match(perms, res.Permission(feature.ActionView)) {
			out = append(out, res.Info())
		}
	}
	return out, nil
}

// Table 表格数据，query 为原始查询串
func (l *ResourceLogic) Table(key string, rawQuery string) (*TableResult, error) {
	res, err := Resources().Get(key)
	if err != nil {
		return nil, err
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		// 无法解析的查询串按空查询处理
		query = url.Values{}
	}
	allow, err := l.allow(res)
	if err != nil {
		return nil, err
	}
	return res.Table(l.ctx, TableRequest{
		Query:   query,
		Columns: l.columns(key, query),
		Allow:   allow,
	})
}

// Detail 单条记录
func (l *ResourceLogic) Detail(key string, id uint) (*types.DetailResponse, error) {
	res, err := Resources().Get(key)
	if err != nil {
		return nil, err
	}
	allow, err := l.allow(res)
	if err != nil {
		return nil, err
	}
	return res.Detail(l.ctx, id, allow)
}

// Form 表单渲染，draft 为空时返回初始值
func (l *ResourceLogic) Form(key string, id uint, draft formdialog.Values) (*types.FormResponse, error) {
	res, err := Resources().Get(key)
	if err != nil {
		return nil, err
	}
	return res.Form(l.ctx, id, draft)
}

// Submit 新建或更新
func (l *ResourceLogic) Submit(key string, id uint, values formdialog.Values, files map[string]formdialog.StagedFile) (*types.SubmitResponse, error) {
	res, err := Resources().Get(key)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = formdialog.Values{}
	}
	return res.Submit(l.ctx, SubmitRequest{
		ID:       id,
		Values:   values,
		Files:    files,
		Operator: middleware.GetCurrentUserID(l.fiber),
	})
}

// Delete 删除
func (l *ResourceLogic) Delete(key string, id uint) error {
	res, err := Resources().Get(key)
	if err != nil {
		return err
	}
	return res.Delete(l.ctx, id)
}

func (l *ResourceLogic) permissions() ([]string, error) {
	return svc.Ctx.Permission.GetUserPermissions(middleware.GetCurrentUserID(l.fiber))
}

// allow 行操作按当前用户的资源权限禁用
func (l *ResourceLogic) allow(res Resource) (AllowFunc, error) {
	perms, err := l.permissions()
	if err != nil {
		return nil, err
	}
	return func(kind datatable.ActionKind) bool {
		switch kind {
		case datatable.ActionDetail:
			return auth.Match(perms, res.Permission(feature.ActionView))
		case datatable.ActionUpdate:
			return auth.Match(perms, res.Permission(feature.ActionUpdate))
		case datatable.ActionDelete:
			return auth.Match(perms, res.Permission(feature.ActionDelete))
		}
		return true
	}, nil
}

// columns 可见列：优先取 columns 参数，否则取用户的默认视图
func (l *ResourceLogic) columns(key string, query url.Values) []string {
	if raw := strings.TrimSpace(query.Get(ColumnsKey)); raw != "" {
		cols := slice.Filter(strings.Split(raw, ","), func(_ int, s string) bool {
			return strings.TrimSpace(s) != ""
		})
		return slice.Map(cols, func(_ int, s string) string {
			return strings.TrimSpace(s)
		})
	}
	return NewTableViewLogic(l.fiber).DefaultColumns(key)
}
