package handler

import (
	"errors"

	"opsadmin/common/response"
	"opsadmin/internal/logic"
	"opsadmin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// fail 按错误类型返回对应的响应
func fail(c *fiber.Ctx, err error) error {
	var submitErr *logic.SubmitError
	switch {
	case errors.As(err, &submitErr):
		return response.Validation(c, submitErr.Error(), submitErr.Detail)
	case errors.Is(err, logic.ErrResourceNotFound),
		errors.Is(err, logic.ErrViewNotFound),
		errors.Is(err, service.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, logic.ErrCreateDisabled),
		errors.Is(err, logic.ErrUpdateDisabled),
		errors.Is(err, logic.ErrDeleteDisabled),
		errors.Is(err, logic.ErrNoOptions),
		errors.Is(err, logic.ErrViewForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, logic.ErrNotLoggedIn):
		return response.Unauthorized(c, err.Error())
	default:
		return response.Error(c, err.Error())
	}
}
