package handler

import (
	"opsadmin/common/response"
	"opsadmin/internal/logic"
	"opsadmin/internal/types"

	"github.com/gofiber/fiber/v2"
)

// TableViewGet 获取表格视图列表
func TableViewGet(c *fiber.Ctx) error {
	tableKey := c.Params("tableKey")
	if tableKey == "" {
		return response.Error(c, "表格标识不能为空")
	}

	result, err := logic.NewTableViewLogic(c).GetViews(tableKey)
	if err != nil {
		return fail(c, err)
	}

	return response.Success(c, result)
}

// TableViewSave 保存表格视图
func TableViewSave(c *fiber.Ctx) error {
	var req types.SaveTableViewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}

	if req.TableKey == "" || req.Name == "" {
		return response.Error(c, "参数不完整")
	}

	result, err := logic.NewTableViewLogic(c).SaveView(&req)
	if err != nil {
		return fail(c, err)
	}

	return response.Success(c, result)
}

// TableViewDelete 删除表格视图
func TableViewDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "参数错误")
	}

	if err := logic.NewTableViewLogic(c).DeleteView(uint(id)); err != nil {
		return fail(c, err)
	}

	return response.Success(c, nil)
}

// TableViewSetDefault 设置默认视图，id 为 0 表示清除
func TableViewSetDefault(c *fiber.Ctx) error {
	tableKey := c.Params("tableKey")
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 || tableKey == "" {
		return response.Error(c, "参数错误")
	}

	if err := logic.NewTableViewLogic(c).SetDefaultView(tableKey, uint(id)); err != nil {
		return fail(c, err)
	}

	return response.Success(c, nil)
}

// TableViewUpdateSort 更新视图排序
func TableViewUpdateSort(c *fiber.Ctx) error {
	tableKey := c.Params("tableKey")
	if tableKey == "" {
		return response.Error(c, "参数错误")
	}

	var req types.SortTableViewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}

	if err := logic.NewTableViewLogic(c).UpdateViewSort(tableKey, req.ViewIDs); err != nil {
		return fail(c, err)
	}

	return response.Success(c, nil)
}
