package handler

import (
	"strings"

	"opsadmin/common/response"
	"opsadmin/common/utils"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/logic"
	"opsadmin/internal/types"

	"github.com/gofiber/fiber/v2"
)

// ResourceList 可查看的资源目录
func ResourceList(c *fiber.Ctx) error {
	result, err := logic.NewResourceLogic(c).List()
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}

// ResourceTable 表格数据，页码越界时 302 跳转到最后一页
func ResourceTable(c *fiber.Ctx) error {
	rawQuery := string(c.Request().URI().QueryString())
	result, err := logic.NewResourceLogic(c).Table(c.Params("key"), rawQuery)
	if err != nil {
		return fail(c, err)
	}
	if result.Redirect != "" {
		return c.Redirect(strings.TrimSuffix(c.Path()+result.Redirect, "?"), fiber.StatusFound)
	}
	return response.Success(c, result.Response)
}

// ResourceDetail 记录详情
func ResourceDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "参数错误")
	}
	result, err := logic.NewResourceLogic(c).Detail(c.Params("key"), uint(id))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}

// ResourceForm 表单初始状态，?id= 为编辑
func ResourceForm(c *fiber.Ctx) error {
	id := c.QueryInt("id")
	if id < 0 {
		return response.Error(c, "参数错误")
	}
	result, err := logic.NewResourceLogic(c).Form(c.Params("key"), uint(id), nil)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}

// ResourceEvaluate 在草稿值上重新计算显示条件与校验
func ResourceEvaluate(c *fiber.Ctx) error {
	id := c.QueryInt("id")
	if id < 0 {
		return response.Error(c, "参数错误")
	}
	var req types.FormValuesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "参数解析失败")
	}
	if req.Values == nil {
		req.Values = formdialog.Values{}
	}
	result, err := logic.NewResourceLogic(c).Form(c.Params("key"), uint(id), req.Values)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, result)
}

// ResourceCreate 新建
func ResourceCreate(c *fiber.Ctx) error {
	return submit(c, 0)
}

// ResourceUpdate 更新
func ResourceUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "参数错误")
	}
	return submit(c, uint(id))
}

func submit(c *fiber.Ctx, id uint) error {
	values, files, err := parseSubmit(c)
	if err != nil {
		return response.Error(c, "参数解析失败")
	}
	result, err := logic.NewResourceLogic(c).Submit(c.Params("key"), id, values, files)
	if err != nil {
		return fail(c, err)
	}
	if rec, ok := result.Record.(interface{ GetID() uint }); ok {
		c.Locals("targetId", rec.GetID())
	}
	return response.Success(c, result)
}

// parseSubmit JSON 提交 {values}，或 multipart：values 字段为 JSON，文件字段名为表单字段路径
func parseSubmit(c *fiber.Ctx) (formdialog.Values, map[string]formdialog.StagedFile, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var req types.FormValuesRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, nil, err
		}
		return req.Values, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	values := formdialog.Values{}
	if raw := form.Value["values"]; len(raw) > 0 && raw[0] != "" {
		if err := utils.UnmarshalString(raw[0], &values); err != nil {
			return nil, nil, err
		}
	}
	files := make(map[string]formdialog.StagedFile, len(form.File))
	for path, headers := range form.File {
		if len(headers) > 0 {
			files[path] = logic.StagedFromHeader(headers[0])
		}
	}
	return values, files, nil
}

// ResourceDelete 删除
func ResourceDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "参数错误")
	}
	if err := logic.NewResourceLogic(c).Delete(c.Params("key"), uint(id)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, nil)
}
