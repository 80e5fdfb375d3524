package logic

import (
	"context"

	"opsadmin/internal/middleware"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"

	"github.com/gofiber/fiber/v2"
)

// UserLogic 管理员登录与信息
type UserLogic struct {
	ctx   context.Context
	fiber *fiber.Ctx
}

// NewUserLogic 创建用户逻辑
func NewUserLogic(c *fiber.Ctx) *UserLogic {
	return &UserLogic{ctx: c.UserContext(), fiber: c}
}

// Login 用户登录
func (l *UserLogic) Login(req *types.LoginRequest) (*types.LoginResponse, error) {
	user, token, err := svc.Ctx.Users.Login(l.ctx, req.Username, req.Password, l.fiber.IP())
	if err != nil {
		return nil, err
	}
	perms, err := svc.Ctx.Permission.GetUserPermissions(user.ID)
	if err != nil {
		return nil, err
	}
	return &types.LoginResponse{Token: token, UserInfo: types.ToUserInfo(user, perms)}, nil
}

// Logout 用户登出
func (l *UserLogic) Logout(token string) error {
	return svc.Ctx.Users.Logout(token)
}

// GetUserInfo 当前用户信息与权限
func (l *UserLogic) GetUserInfo() (*types.UserInfo, error) {
	userID := middleware.GetCurrentUserID(l.fiber)
	if userID == 0 {
		return nil, ErrNotLoggedIn
	}
	user, err := svc.Ctx.Users.Get(l.ctx, userID)
	if err != nil {
		return nil, err
	}
	perms, err := svc.Ctx.Permission.GetUserPermissions(userID)
	if err != nil {
		return nil, err
	}
	return types.ToUserInfo(user, perms), nil
}
