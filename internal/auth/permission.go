package auth

import (
	"opsadmin/internal/model"

	"gorm.io/gorm"
)

// DefaultRolePermissions 内置角色的权限模式，权限码形如 <resource>:<action>
var DefaultRolePermissions = map[string][]string{
	model.RoleAdmin:    {"*"},
	model.RoleOperator: {"*:view", "*:create", "*:update"},
	model.RoleViewer:   {"*:view"},
}

// PermissionService 权限服务
type PermissionService struct {
	db    *gorm.DB
	roles map[string][]string
}

// NewPermissionService 创建权限服务，roles 覆盖或补充内置角色
func NewPermissionService(db *gorm.DB, roles map[string][]string) *PermissionService {
	merged := make(map[string][]string, len(DefaultRolePermissions)+len(roles))
	for role, perms := range DefaultRolePermissions {
		merged[role] = perms
	}
	for role, perms := range roles {
		merged[role] = perms
	}
	return &PermissionService{db: db, roles: merged}
}

// GetUserRole 获取用户角色
func (s *PermissionService) GetUserRole(userID uint) (string, error) {
	var user model.AdminUser
	if err := s.db.Select("id", "role", "status").First(&user, userID).Error; err != nil {
		return "", err
	}
	if user.Status != 1 {
		return "", nil
	}
	return user.Role, nil
}

// GetUserPermissions 获取用户权限模式列表
func (s *PermissionService) GetUserPermissions(userID uint) ([]string, error) {
	role, err := s.GetUserRole(userID)
	if err != nil {
		return nil, err
	}
	return s.roles[role], nil
}

// HasPermission 判断用户是否拥有权限
func (s *PermissionService) HasPermission(userID uint, permissionCode string) (bool, error) {
	return s.HasAnyPermission(userID, permissionCode)
}

// HasAnyPermission 判断用户是否拥有任一权限
func (s *PermissionService) HasAnyPermission(userID uint, permissionCodes ...string) (bool, error) {
	permissions, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}
	return Match(permissions, permissionCodes...), nil
}

// Match 权限模式是否覆盖任一权限码
func Match(permissions []string, codes ...string) bool {
	for _, perm := range permissions {
		for _, code := range codes {
			if perm == code || matchWildcard(perm, code) {
				return true
			}
		}
	}
	return false
}

// matchWildcard 通配符匹配
// 支持 * 匹配任意字符
// 如: user:* 匹配 user:add, user:edit, user:delete
// 如: user:*:view 匹配 user:info:view, user:list:view
func matchWildcard(pattern, target string) bool {
	if pattern == "*" {
		return true
	}

	pLen, tLen := len(pattern), len(target)
	pIdx, tIdx := 0, 0
	starIdx, matchIdx := -1, 0

	for tIdx < tLen {
		if pIdx < pLen && (pattern[pIdx] == target[tIdx] || pattern[pIdx] == '?') {
			pIdx++
			tIdx++
		} else if pIdx < pLen && pattern[pIdx] == '*' {
			starIdx = pIdx
			matchIdx = tIdx
			pIdx++
		} else if starIdx != -1 {
			pIdx = starIdx + 1
			matchIdx++
			tIdx = matchIdx
		} else {
			return false
		}
	}

	for pIdx < pLen && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == pLen
}
