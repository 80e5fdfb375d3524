package handler

import (
	"opsadmin/common/response"
	"opsadmin/internal/logic"

	"github.com/gofiber/fiber/v2"
)

// OptionList 远程下拉选项
func OptionList(c *fiber.Ctx) error {
	result, err := logic.NewOptionLogic(c).Options(c.Params("key"), c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}

// Upload 图片上传
func Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "请选择文件")
	}
	result, err := logic.NewUploadLogic(c).Upload(file)
	if err != nil {
		return response.Error(c, err.Error())
	}
	return response.Success(c, result)
}

// OperationLogList 最近的操作日志
func OperationLogList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	logs, err := logic.NewOperationLogLogic(c).List(c.Query("module"), limit)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, logs)
}
