package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsadmin/common/logger"
	"opsadmin/common/utils"
	"opsadmin/internal/router"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autoMigrate bool

// serveCmd 启动 HTTP 服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Example: `  # 使用默认配置启动
  opsadmin serve

  # 启动前迁移表结构
  opsadmin serve --migrate -c config/config.yml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "启动前自动迁移表结构并创建初始管理员")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sctx, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if autoMigrate {
		if err := migrate(ctx, sctx.DB, sctx.Config); err != nil {
			return err
		}
	}

	cfg := sctx.Config
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    max(cfg.Upload.MaxSize, 4) << 20,
	})

	router.Setup(app, sctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	utils.SafeGoWithName("http-server", func() {
		logger.Info("服务器启动", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Error("服务器启动失败", zap.Error(err))
		}
	})

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("服务器关闭失败", zap.Error(err))
	}
	logger.Info("服务器已关闭")
	return nil
}
