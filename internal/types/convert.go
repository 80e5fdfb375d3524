package types

import (
	"opsadmin/common/utils"
	"opsadmin/internal/model"

	"github.com/jinzhu/copier"
)

// ToUserInfo 将 model.AdminUser 转换为 UserInfo
func ToUserInfo(u *model.AdminUser, permissions []string) *UserInfo {
	if u == nil {
		return nil
	}
	info := &UserInfo{}
	_ = copier.Copy(info, u)
	info.Permissions = permissions
	if info.Permissions == nil {
		info.Permissions = []string{}
	}
	return info
}

// ToTableViewInfo 将 model.SysTableView 转换为 TableViewInfo，JSON 列解析失败时置空
func ToTableViewInfo(v *model.SysTableView) TableViewInfo {
	info := TableViewInfo{
		ID:        v.ID,
		Name:      v.Name,
		IsSystem:  v.UserID == 0,
		IsDefault: v.IsDefault,
		Columns:   []string{},
		Query:     v.SearchParams,
		Sort:      v.Sort,
		CreatedBy: v.CreatedBy,
	}
	if v.ColumnKeys != "" {
		_ = utils.UnmarshalString(v.ColumnKeys, &info.Columns)
	}
	if v.ColumnFixed != "" {
		_ = utils.UnmarshalString(v.ColumnFixed, &info.ColumnFixed)
	}
	return info
}
