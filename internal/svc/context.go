package svc

import (
	"opsadmin/internal/auth"
	"opsadmin/internal/config"
	"opsadmin/internal/service"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ServiceContext 全局服务上下文
type ServiceContext struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client // 未配置时为 nil
	Permission *auth.PermissionService
	Users      *service.UserService
	OpLogs     *service.OperationLogService
	// Options 下拉选项请求合并
	Options *singleflight.Group
}

var Ctx *ServiceContext

// New 创建服务上下文
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *ServiceContext {
	return &ServiceContext{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Permission: auth.NewPermissionService(db, cfg.Roles),
		Users:      service.NewUserService(db),
		OpLogs:     service.NewOperationLogService(db),
		Options:    &singleflight.Group{},
	}
}

// Init 初始化全局服务上下文
func Init(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *ServiceContext {
	Ctx = New(cfg, db, rdb)
	return Ctx
}
