package logic

import (
	"context"
	"errors"
	"net/url"

	"opsadmin/common/utils"
	"opsadmin/internal/middleware"
	"opsadmin/internal/model"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"
	"opsadmin/internal/urlstate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	// ErrViewNotFound 视图不存在
	ErrViewNotFound = errors.New("视图不存在")
	// ErrViewForbidden 无权操作视图
	ErrViewForbidden = errors.New("无权操作此视图")
	// ErrDefaultView 默认视图不能删除
	ErrDefaultView = errors.New("默认视图不能删除")
	// ErrNotLoggedIn 用户未登录
	ErrNotLoggedIn = errors.New("用户未登录")
)

// TableViewLogic 表格视图逻辑
type TableViewLogic struct {
	ctx   context.Context
	fiber *fiber.Ctx
}

// NewTableViewLogic 创建表格视图逻辑
func NewTableViewLogic(c *fiber.Ctx) *TableViewLogic {
	return &TableViewLogic{ctx: c.UserContext(), fiber: c}
}

func (l *TableViewLogic) db() *gorm.DB {
	return svc.Ctx.DB.WithContext(l.ctx)
}

// visible 系统视图与当前用户的视图
func visible(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? OR user_id = ?", 0, userID)
	}
}

// GetViews 获取表格的视图列表（系统视图在前）
func (l *TableViewLogic) GetViews(tableKey string) (*types.TableViewListResponse, error) {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return nil, ErrNotLoggedIn
	}

	var views []model.SysTableView
	err := l.db().Scopes(visible(userID)).
		Where("table_key = ?", tableKey).
		Order("user_id, sort, id").
		Find(&views).Error
	if err != nil {
		return nil, err
	}

	result := &types.TableViewListResponse{Views: make([]types.TableViewInfo, 0, len(views))}
	for i := range views {
		result.Views = append(result.Views, types.ToTableViewInfo(&views[i]))
	}
	return result, nil
}

// DefaultColumns 当前用户默认视图的可见列，没有默认视图时返回 nil
func (l *TableViewLogic) DefaultColumns(tableKey string) []string {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return nil
	}
	var view model.SysTableView
	err := l.db().Scopes(visible(userID)).
		Where("table_key = ? AND is_default = ?", tableKey, true).
		Order("user_id DESC").
		First(&view).Error
	if err != nil {
		return nil
	}
	return types.ToTableViewInfo(&view).Columns
}

// canonicalQuery 按资源的 URL 配置规范化查询串，页码不保存
func canonicalQuery(tableKey, raw string) (string, error) {
	res, err := Resources().Get(tableKey)
	if err != nil {
		return "", err
	}
	query, err := url.ParseQuery(raw)
	if err != nil {
		query = url.Values{}
	}
	cfg := res.URLConfig()
	state := urlstate.Read(query, cfg)
	state.Page = 1
	return urlstate.Encode(state, cfg, url.Values{}).Encode(), nil
}

// SaveView 新建或更新视图
func (l *TableViewLogic) SaveView(req *types.SaveTableViewRequest) (*types.TableViewInfo, error) {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return nil, ErrNotLoggedIn
	}

	query, err := canonicalQuery(req.TableKey, req.Query)
	if err != nil {
		return nil, err
	}
	columns, _ := utils.MarshalString(req.Columns)
	columnFixed, _ := utils.MarshalString(req.ColumnFixed)

	// 系统视图 user_id 为 0
	storeUserID := userID
	if req.IsSystem {
		storeUserID = 0
	}

	if req.ID > 0 {
		var existing model.SysTableView
		if err := l.db().First(&existing, req.ID).Error; err != nil {
			return nil, ErrViewNotFound
		}
		if existing.UserID != 0 && existing.UserID != userID {
			return nil, ErrViewForbidden
		}

		existing.Name = req.Name
		existing.UserID = storeUserID
		existing.IsDefault = req.IsDefault
		existing.ColumnKeys = columns
		existing.ColumnFixed = columnFixed
		existing.SearchParams = query
		existing.SetOperator(userID, false)
		err := l.db().Model(&existing).
			Select("name", "user_id", "is_default", "column_keys", "column_fixed", "search_params", "updated_by", "updated_at").
			Updates(&existing).Error
		if err != nil {
			return nil, err
		}
		info := types.ToTableViewInfo(&existing)
		return &info, nil
	}

	var last model.SysTableView
	sort := 0
	err = l.db().Where("user_id = ? AND table_key = ?", storeUserID, req.TableKey).
		Order("sort DESC").
		First(&last).Error
	if err == nil {
		sort = last.Sort + 1
	}

	view := &model.SysTableView{
		UserID:       storeUserID,
		TableKey:     req.TableKey,
		Name:         req.Name,
		IsDefault:    req.IsDefault,
		ColumnKeys:   columns,
		ColumnFixed:  columnFixed,
		SearchParams: query,
		Sort:         sort,
	}
	view.SetOperator(userID, true)
	if err := l.db().Create(view).Error; err != nil {
		return nil, err
	}
	info := types.ToTableViewInfo(view)
	return &info, nil
}

// DeleteView 删除视图
func (l *TableViewLogic) DeleteView(id uint) error {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return ErrNotLoggedIn
	}

	var view model.SysTableView
	if err := l.db().First(&view, id).Error; err != nil {
		return ErrViewNotFound
	}
	if view.IsDefault {
		return ErrDefaultView
	}
	if view.UserID != 0 && view.UserID != userID {
		return ErrViewForbidden
	}
	return l.db().Delete(&view).Error
}

// SetDefaultView 设置默认视图，id 为 0 表示清除
func (l *TableViewLogic) SetDefaultView(tableKey string, id uint) error {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return ErrNotLoggedIn
	}

	return l.db().Transaction(func(tx *gorm.DB) error {
		if id > 0 {
			var view model.SysTableView
			if err := tx.Where("table_key = ?", tableKey).First(&view, id).Error; err != nil {
				return ErrViewNotFound
			}
			if view.UserID != 0 && view.UserID != userID {
				return ErrViewForbidden
			}
		}

		err := tx.Model(&model.SysTableView{}).Scopes(visible(userID)).
			Where("table_key = ?", tableKey).
			Update("is_default", false).Error
		if err != nil || id == 0 {
			return err
		}
		return tx.Model(&model.SysTableView{}).Where("id = ?", id).Update("is_default", true).Error
	})
}

// UpdateViewSort 按给定顺序更新排序
func (l *TableViewLogic) UpdateViewSort(tableKey string, viewIDs []uint) error {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return ErrNotLoggedIn
	}

	return l.db().Transaction(func(tx *gorm.DB) error {
		for i, id := range viewIDs {
			err := tx.Model(&model.SysTableView{}).Scopes(visible(userID)).
				Where("id = ? AND table_key = ?", id, tableKey).
				Update("sort", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
