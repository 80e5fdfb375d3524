package middleware

import (
	"strings"
	"time"

	"opsadmin/common/utils"
	"opsadmin/internal/model"
	"opsadmin/internal/service"

	"github.com/bytedance/sonic"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/gofiber/fiber/v2"
)

// 请求参数最多记录的字符数
const maxLogParams = 2000

// logParams 按字符截断请求体，结果总是合法的 UTF-8
func logParams(body []byte) string {
	return strutil.Substring(string(body), 0, maxLogParams)
}

// OperationLog 资源写操作日志，模块取路由参数 key
func OperationLog(logs *service.OperationLogService, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		params := ""
		if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			params = logParams(c.Body())
		}

		err := c.Next()

		status, errorMsg := responseStatus(c, err)
		username, _ := c.Locals("username").(string)
		targetID, ok := c.Locals("targetId").(uint)
		if !ok {
			id, _ := c.ParamsInt("id")
			targetID = uint(max(id, 0))
		}

		logs.Record(&model.OperationLog{
			UserID:    GetCurrentUserID(c),
			Username:  username,
			Module:    c.Params("key"),
			Action:    action,
			TargetID:  targetID,
			Method:    c.Method(),
			Path:      c.Path(),
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			Params:    params,
			Status:    status,
			Duration:  time.Since(startTime).Milliseconds(),
			ErrorMsg:  errorMsg,
		})

		return err
	}
}

// responseStatus 按响应体的业务码判断成功与否
func responseStatus(c *fiber.Ctx, err error) (int8, string) {
	if err != nil {
		return 0, err.Error()
	}
	body := c.Response().Body()
	code, gerr := sonic.Get(body, "code")
	if gerr != nil {
		return 1, ""
	}
	if n, _ := code.Int64(); n != 0 {
		return 0, utils.GetString(body, "message")
	}
	return 1, ""
}
