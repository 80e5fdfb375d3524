package service

import (
	"opsadmin/common/logger"
	"opsadmin/common/utils"
	"opsadmin/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OperationLogService 操作日志服务
type OperationLogService struct {
	db *gorm.DB
}

// NewOperationLogService 创建操作日志服务
func NewOperationLogService(db *gorm.DB) *OperationLogService {
	return &OperationLogService{db: db}
}

// Record 异步写入操作日志
func (s *OperationLogService) Record(log *model.OperationLog) {
	utils.SafeGoWithName("operation-log", func() {
		if err := s.db.Create(log).Error; err != nil {
			logger.Warn("写入操作日志失败", zap.String("module", log.Module), zap.Error(err))
		}
	})
}

// List 按资源查询最近的操作日志
func (s *OperationLogService) List(module string, limit int) ([]model.OperationLog, error) {
	logs := make([]model.OperationLog, 0)
	query := s.db.Model(&model.OperationLog{}).Order("id DESC")
	if module != "" {
		query = query.Where("module = ?", module)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
