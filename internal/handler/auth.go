package handler

import (
	"opsadmin/common/response"
	"opsadmin/internal/logic"
	"opsadmin/internal/middleware"
	"opsadmin/internal/types"

	"github.com/gofiber/fiber/v2"
)

// Login 登录
func Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}

	if req.Username == "" || req.Password == "" {
		return response.Error(c, "用户名和密码不能为空")
	}

	result, err := logic.NewUserLogic(c).Login(&req)
	if err != nil {
		return response.Error(c, err.Error())
	}

	return response.Success(c, result)
}

// Logout 登出
func Logout(c *fiber.Ctx) error {
	if err := logic.NewUserLogic(c).Logout(middleware.GetCurrentToken(c)); err != nil {
		return response.Error(c, err.Error())
	}
	return response.Success(c, nil)
}

// UserInfo 当前用户信息
func UserInfo(c *fiber.Ctx) error {
	result, err := logic.NewUserLogic(c).GetUserInfo()
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}
