package main

import (
	"context"
	"fmt"

	"opsadmin/common/logger"
	"opsadmin/internal/config"
	"opsadmin/internal/model"
	"opsadmin/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// migrateCmd 迁移表结构
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移表结构并创建初始管理员",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sctx, cleanup, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return migrate(ctx, sctx.DB, sctx.Config)
	},
}

func migrate(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	created, err := service.NewUserService(db).EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("创建初始管理员失败: %w", err)
	}
	if created {
		logger.Info("已创建初始管理员", zap.String("username", cfg.Admin.Username))
	}
	return nil
}
