package types

import "opsadmin/common/types"

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo 当前管理员信息
type UserInfo struct {
	ID          uint            `json:"id"`
	Username    string          `json:"username"`
	Nickname    string          `json:"nickname"`
	Role        string          `json:"role"`
	Permissions []string        `json:"permissions"`
	LastLoginAt *types.DateTime `json:"lastLoginAt"`
	LastLoginIP string          `json:"lastLoginIp"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"userInfo"`
}
