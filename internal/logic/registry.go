package logic

import (
	"context"
	"errors"
	"net/url"

	"opsadmin/internal/datatable"
	"opsadmin/internal/feature"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"
	"opsadmin/internal/urlstate"
)

var (
	// ErrResourceNotFound 资源不存在
	ErrResourceNotFound = errors.New("资源不存在")
	// ErrCreateDisabled 资源不支持新建
	ErrCreateDisabled = errors.New("该资源不支持新建")
	// ErrUpdateDisabled 当前记录不可编辑
	ErrUpdateDisabled = errors.New("当前记录不可编辑")
	// ErrDeleteDisabled 当前记录不可删除
	ErrDeleteDisabled = errors.New("当前记录不可删除")
	// ErrNoOptions 资源不提供下拉选项
	ErrNoOptions = errors.New("该资源不提供下拉选项")
)

// 游标分页参数
const (
	CursorKey  = "cursor"
	CursorsKey = "cursors"
	NavKey     = "nav"
	ColumnsKey = "columns"
)

// AllowFunc 调用方是否有权执行某类行操作
type AllowFunc func(kind datatable.ActionKind) bool

// TableRequest 表格请求
type TableRequest struct {
	Query   url.Values
	Columns []string
	Allow   AllowFunc
}

// TableResult 表格结果，Redirect 非空时应跳转到该查询串（形如 ?page=3）
type TableResult struct {
	Response *types.TableResponse
	Redirect string
}

// SubmitRequest 表单提交
type SubmitRequest struct {
	ID       uint // 0 为新建
	Values   formdialog.Values
	Files    map[string]formdialog.StagedFile
	Operator uint
}

// SubmitError 提交失败，携带字段错误与提示
type SubmitError struct {
	Err    error
	Detail types.SubmitError
}

func (e *SubmitError) Error() string {
	return e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Resource 由资源定义驱动的表格、表单与提交
type Resource interface {
	Key() string
	Info() types.ResourceInfo
	URLConfig() urlstate.Config
	Permission(action string) string
	Table(ctx context.Context, req TableRequest) (*TableResult, error)
	Detail(ctx context.Context, id uint, allow AllowFunc) (*types.DetailResponse, error)
	Form(ctx context.Context, id uint, draft formdialog.Values) (*types.FormResponse, error)
	Submit(ctx context.Context, req SubmitRequest) (*types.SubmitResponse, error)
	Delete(ctx context.Context, id uint) error
	Options(ctx context.Context, search string, limit int) ([]formdialog.Option, error)
}

// Registry 资源目录
type Registry struct {
	resources map[string]Resource
	keys      []string
}

// NewRegistry 注册全部业务资源
func NewRegistry(sctx *svc.ServiceContext) *Registry {
	r := &Registry{resources: make(map[string]Resource)}
	up := NewFileUploader(sctx.Config.Upload)
	onChange := func(ctx context.Context, key string) {
		InvalidateOptions(ctx, sctx.Redis, key)
	}

	r.add(newEngine(sctx, feature.Branches(), up, onChange))
	r.add(newEngine(sctx, feature.Loans(), up, onChange))
	r.add(newEngine(sctx, feature.Coins(), up, onChange))
	r.add(newEngine(sctx, feature.Withdrawals(), up, onChange))
	r.add(newEngine(sctx, feature.StakeContracts(), up, onChange))
	r.add(newEngine(sctx, feature.UserStakes(), up, onChange))
	r.add(newEngine(sctx, feature.JudgeLoans(), up, onChange))
	r.add(newEngine(sctx, feature.KycUsers(), up, onChange))
	return r
}

func (r *Registry) add(res Resource) {
	r.resources[res.Key()] = res
	r.keys = append(r.keys, res.Key())
}

// Get 按标识获取资源
func (r *Registry) Get(key string) (Resource, error) {
	res, ok := r.resources[key]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

// All 按注册顺序返回全部资源
func (r *Registry) All() []Resource {
	out := make([]Resource, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.resources[k])
	}
	return out
}

var registry *Registry

// InitRegistry 初始化资源目录
func InitRegistry(sctx *svc.ServiceContext) *Registry {
	registry = NewRegistry(sctx)
	return registry
}

// Resources 全局资源目录
func Resources() *Registry {
	return registry
}
