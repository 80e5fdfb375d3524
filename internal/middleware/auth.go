package middleware

import (
	"strconv"
	"strings"

	"opsadmin/common/response"
	"opsadmin/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userId"
	localToken  = "token"
)

// AuthMiddleware 校验登录令牌，通过后将用户 ID 与令牌写入上下文
// 令牌依次从 <tokenName> 请求头、Authorization、查询参数与 Cookie 读取
func AuthMiddleware(tokenName string) fiber.Handler {
	if tokenName == "" {
		tokenName = "satoken"
	}
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c, tokenName)
		if token == "" {
			return response.Unauthorized(c, "请先登录")
		}
		if !auth.IsLogin(token) {
			return response.Unauthorized(c, "登录已过期，请重新登录")
		}

		loginID, err := auth.GetLoginId(token)
		if err != nil {
			return response.Unauthorized(c, "获取用户信息失败")
		}
		userID, err := strconv.ParseUint(loginID, 10, 64)
		if err != nil || userID == 0 {
			return response.Unauthorized(c, "用户信息无效")
		}

		c.Locals(localUserID, uint(userID))
		c.Locals(localToken, token)
		return c.Next()
	}
}

// PermissionMiddleware 拥有任一权限码即放行
func PermissionMiddleware(ps *auth.PermissionService, codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, ps, codes...)
	}
}

// ResourcePermission 资源路由的权限，权限码为 <key>:<action>
func ResourcePermission(ps *auth.PermissionService, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, ps, c.Params("key")+":"+action)
	}
}

func authorize(c *fiber.Ctx, ps *auth.PermissionService, codes ...string) error {
	userID := GetCurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "请先登录")
	}
	ok, err := ps.HasAnyPermission(userID, codes...)
	if err != nil {
		return response.ServerError(c, "权限验证失败")
	}
	if !ok {
		return response.Forbidden(c, "没有操作权限")
	}
	return c.Next()
}

func tokenFrom(c *fiber.Ctx, tokenName string) string {
	if token := c.Get(tokenName); token != "" {
		return token
	}
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if token := c.Query(tokenName); token != "" {
		return token
	}
	return c.Cookies(tokenName)
}

// GetCurrentUserID 当前登录用户 ID，未登录为 0
func GetCurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

// GetCurrentToken 当前请求的登录令牌
func GetCurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}
