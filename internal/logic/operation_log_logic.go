package logic

import (
	"opsadmin/internal/model"
	"opsadmin/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// OperationLogLogic 操作日志查询
type OperationLogLogic struct {
	fiber *fiber.Ctx
}

// NewOperationLogLogic 创建操作日志逻辑
func NewOperationLogLogic(c *fiber.Ctx) *OperationLogLogic {
	return &OperationLogLogic{fiber: c}
}

// List 按资源查询，module 为空时查询全部
func (l *OperationLogLogic) List(module string, limit int) ([]model.OperationLog, error) {
	if module != "" {
		if _, err := Resources().Get(module); err != nil {
			return nil, err
		}
	}
	return svc.Ctx.OpLogs.List(module, limit)
}
