package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// 业务码，非 0 即失败
const (
	CodeSuccess      = 0
	CodeError        = -1
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeValidation   = 422
	CodeServerError  = 500
)

func send(c *fiber.Ctx, status, code int, message, fallback string, data any) error {
	if message == "" {
		message = fallback
	}
	return c.Status(status).JSON(Response{Code: code, Message: message, Data: data})
}

// Success 成功响应
func Success(c *fiber.Ctx, data any) error {
	return send(c, fiber.StatusOK, CodeSuccess, "success", "", data)
}

// Error 业务失败，HTTP 状态仍为 200
func Error(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusOK, CodeError, message, "error", nil)
}

// Validation 表单校验失败，data 携带字段错误与回填值
func Validation(c *fiber.Ctx, message string, detail any) error {
	return send(c, fiber.StatusUnprocessableEntity, CodeValidation, message, "validation failed", detail)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusUnauthorized, CodeUnauthorized, message, "unauthorized", nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusForbidden, CodeForbidden, message, "forbidden", nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusNotFound, CodeNotFound, message, "not found", nil)
}

func ServerError(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusInternalServerError, CodeServerError, message, "server error", nil)
}
