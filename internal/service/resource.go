package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"opsadmin/common/utils"
	"opsadmin/internal/model"

	"github.com/duke-git/lancet/v2/convertor"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidCursor 游标无法解析
	ErrInvalidCursor = errors.New("无效的分页游标")
)

const defaultLimit = 20

// 查询条件运算
const (
	OpEq   = "eq"
	OpIn   = "in"
	OpLike = "like"
	OpGte  = "gte"
	OpLte  = "lte"
)

// Condition 单列查询条件
type Condition struct {
	Column string
	Op     string
	Value  any
}

// Order 排序
type Order struct {
	Column string
	Desc   bool
}

// ListQuery 列表查询参数，列名均来自资源定义而非请求
type ListQuery struct {
	Conditions    []Condition
	SearchColumns []string
	Search        string
	Orders        []Order
	Offset        int
	Limit         int
}

// ResourceService 通用资源服务
type ResourceService[T model.Entity] struct {
	db *gorm.DB

	once   sync.Once
	fields map[string]*schema.Field // json 字段名 -> 模型字段
	err    error
}

// NewResourceService 创建资源服务
func NewResourceService[T model.Entity](db *gorm.DB) *ResourceService[T] {
	return &ResourceService[T]{db: db}
}

// Column json 字段名对应的数据库列
func (s *ResourceService[T]) Column(field string) (string, bool) {
	f, ok := s.field(field)
	if !ok {
		return "", false
	}
	return f.DBName, true
}

func (s *ResourceService[T]) field(name string) (*schema.Field, bool) {
	s.once.Do(func() {
		sch, err := schema.Parse(new(T), &sync.Map{}, s.db.NamingStrategy)
		if err != nil {
			s.err = err
			return
		}
		s.fields = make(map[string]*schema.Field, len(sch.Fields))
		for _, f := range sch.Fields {
			key := strings.Split(f.Tag.Get("json"), ",")[0]
			if f.DBName == "" || key == "" || key == "-" {
				continue
			}
			s.fields[key] = f
		}
	})
	f, ok := s.fields[name]
	return f, ok
}

// filter 条件与全局搜索
func (s *ResourceService[T]) filter(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		exprs := make([]clause.Expression, 0, len(q.Conditions)+1)
		for _, c := range q.Conditions {
			col := clause.Column{Name: c.Column}
			switch c.Op {
			case OpIn:
				exprs = append(exprs, clause.IN{Column: col, Values: toValues(c.Value)})
			case OpLike:
				exprs = append(exprs, clause.Like{Column: col, Value: "%" + convertor.ToString(c.Value) + "%"})
			case OpGte:
				exprs = append(exprs, clause.Gte{Column: col, Value: c.Value})
			case OpLte:
				exprs = append(exprs, clause.Lte{Column: col, Value: c.Value})
			default:
				exprs = append(exprs, clause.Eq{Column: col, Value: c.Value})
			}
		}
		if q.Search != "" && len(q.SearchColumns) > 0 {
			ors := make([]clause.Expression, 0, len(q.SearchColumns))
			for _, col := range q.SearchColumns {
				ors = append(ors, clause.Like{Column: clause.Column{Name: col}, Value: "%" + q.Search + "%"})
			}
			exprs = append(exprs, clause.Or(ors...))
		}
		if len(exprs) == 0 {
			return db
		}
		return db.Clauses(clause.Where{Exprs: exprs})
	}
}

// order 排序，始终以主键倒序兜底保证分页稳定
func order(orders []Order) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, o := range orders {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
		}
		return db.Order(clause.OrderByColumn{Column: clause.PrimaryColumn, Desc: true})
	}
}

// List 分页查询，返回当前页与总数
func (s *ResourceService[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Scopes(s.filter(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0)
	query := s.db.WithContext(ctx).Model(new(T)).Scopes(s.filter(q), order(q.Orders))
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Find 不统计总数的查询
func (s *ResourceService[T]) Find(ctx context.Context, q ListQuery) ([]T, error) {
	rows := make([]T, 0)
	query := s.db.WithContext(ctx).Model(new(T)).Scopes(s.filter(q), order(q.Orders))
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAfter 按主键倒序的游标分页，after 为上一页最后一条的主键，空串为第一页
// 返回的 next 为空表示没有下一页
func (s *ResourceService[T]) ListAfter(ctx context.Context, q ListQuery, after string, limit int) ([]T, string, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	query := s.db.WithContext(ctx).Model(new(T)).Scopes(s.filter(q))
	if after != "" {
		id, err := convertor.ToInt(after)
		if err != nil || id <= 0 {
			return nil, "", ErrInvalidCursor
		}
		query = query.Where(clause.Lt{Column: clause.PrimaryColumn, Value: id})
	}

	rows := make([]T, 0, limit+1)
	err := query.Order(clause.OrderByColumn{Column: clause.PrimaryColumn, Desc: true}).
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		next = convertor.ToString(rows[limit-1].GetID())
	}
	return rows, next, nil
}

// Get 按主键获取
func (s *ResourceService[T]) Get(ctx context.Context, id uint) (*T, error) {
	row := new(T)
	if err := s.db.WithContext(ctx).First(row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

// Create 由表单值创建记录
func (s *ResourceService[T]) Create(ctx context.Context, values map[string]any, operator uint) (*T, error) {
	values = withoutKeys(values, "id")
	row, err := utils.Convert[T](values)
	if err != nil {
		return nil, fmt.Errorf("表单值解析失败: %w", err)
	}
	if a, ok := any(&row).(model.Auditable); ok {
		a.SetOperator(operator, true)
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update 用表单值覆盖记录，只更新提交了的字段
// 提交为 nil 的字段（如被清空的数字）写入零值
func (s *ResourceService[T]) Update(ctx context.Context, id uint, values map[string]any, operator uint) (*T, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	values = withoutKeys(values, "id", "createdAt", "updatedAt", "createdBy", "updatedBy")
	data, err := utils.Marshal(values)
	if err != nil {
		return nil, err
	}
	if err := utils.Unmarshal(data, row); err != nil {
		return nil, fmt.Errorf("表单值解析失败: %w", err)
	}

	rv := reflect.ValueOf(row).Elem()
	cols := make([]string, 0, len(values)+2)
	for key, v := range values {
		f, ok := s.field(key)
		if !ok {
			continue
		}
		if v == nil {
			f.ReflectValueOf(ctx, rv).SetZero()
		}
		cols = append(cols, f.DBName)
	}
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := any(row).(model.Auditable); ok {
		a.SetOperator(operator, false)
		cols = append(cols, "updated_by")
	}
	cols = append(cols, "updated_at")

	if err := s.db.WithContext(ctx).Model(row).Select(cols).Updates(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete 删除记录（软删除）
func (s *ResourceService[T]) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func withoutKeys(values map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func toValues(v any) []any {
	switch vs := v.(type) {
	case []string:
		out := make([]any, len(vs))
		for i, s := range vs {
			out[i] = s
		}
		return out
	case []any:
		return vs
	default:
		return []any{v}
	}
}
