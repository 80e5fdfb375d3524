package main

import (
	"context"
	"fmt"
	"os"

	"opsadmin/common/database"
	"opsadmin/common/logger"
	"opsadmin/common/redis"
	"opsadmin/internal/auth"
	"opsadmin/internal/config"
	"opsadmin/internal/svc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "opsadmin",
	Short: "运营管理后台服务",
	Long: `opsadmin 提供分行、贷款、币种、提现、质押、诉讼与实名认证等资源的
表格查询、表单编辑与权限控制接口。`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yml", "配置文件路径")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap 加载配置并初始化日志、数据库与 Redis
func bootstrap(ctx context.Context) (*svc.ServiceContext, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	if cfg.Redis.Enabled() {
		if err := redis.Init(ctx, &cfg.Redis); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("初始化Redis失败: %w", err)
		}
	}

	if err := auth.InitSaToken(cfg); err != nil {
		_ = database.Close()
		_ = redis.Close()
		return nil, nil, fmt.Errorf("初始化SaToken失败: %w", err)
	}

	sctx := svc.Init(cfg, database.GetDB(), redis.GetClient())
	cleanup := func() {
		if err := redis.Close(); err != nil {
			logger.Warn("关闭Redis失败", zap.Error(err))
		}
		if err := database.Close(); err != nil {
			logger.Warn("关闭数据库失败", zap.Error(err))
		}
		logger.Sync()
	}
	return sctx, cleanup, nil
}
