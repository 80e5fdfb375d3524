package middleware

import (
	"fmt"
	"strings"

	"opsadmin/common/config"
	"opsadmin/common/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Global 全局中间件，按顺序注册
func Global(cfg *config.Config) []fiber.Handler {
	return []fiber.Handler{
		CORS(cfg),
		requestid.New(),
		logger.Middleware(),
		Recover(),
	}
}

// CORS 跨域中间件，允许携带令牌请求头
func CORS(cfg *config.Config) fiber.Handler {
	origins := "*"
	if len(cfg.Server.AllowOrigins) > 0 {
		origins = strings.Join(cfg.Server.AllowOrigins, ",")
	}
	headers := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	if name := cfg.SaToken.TokenName; name != "" {
		headers = append(headers, name)
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  strings.Join(headers, ","),
		ExposeHeaders: "Content-Length,Content-Type,Content-Disposition",
		MaxAge:        86400,
	})
}

// Recover panic 转为 500，堆栈写入日志
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.L().Error("请求处理 panic",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("panic", fmt.Sprint(e)),
				zap.Stack("stack"),
			)
		},
	})
}
