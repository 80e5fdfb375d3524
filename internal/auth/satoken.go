package auth

import (
	"opsadmin/common/logger"
	"opsadmin/common/redis"
	"opsadmin/internal/config"

	"github.com/click33/sa-token-go/core"
	"github.com/click33/sa-token-go/storage/memory"
	satokenRedis "github.com/click33/sa-token-go/storage/redis"
	"github.com/click33/sa-token-go/stputil"
	"go.uber.org/zap"
)

var manager *core.Manager

// InitSaToken 初始化SaToken
// Redis 已配置时使用 Redis 存储，否则或连接失败时降级为内存存储
func InitSaToken(cfg *config.Config) error {
	var storage core.Storage
	if cfg.Redis.Enabled() {
		s, err := satokenRedis.NewStorage(redis.URL(&cfg.Redis))
		if err != nil {
			logger.Warn("SaToken Redis存储初始化失败，降级使用内存存储", zap.Error(err))
			storage = memory.NewStorage()
		} else {
			logger.Info("SaToken 使用Redis存储")
			storage = s
		}
	} else {
		logger.Warn("SaToken 使用内存存储，服务重启后token会丢失")
		storage = memory.NewStorage()
	}

	manager = core.NewBuilder().
		Storage(storage).
		TokenName(cfg.SaToken.TokenName).
		Timeout(cfg.SaToken.Timeout).
		ActiveTimeout(cfg.SaToken.ActiveTimeout).
		IsConcurrent(cfg.SaToken.IsConcurrent).
		IsShare(cfg.SaToken.IsShare).
		MaxLoginCount(cfg.SaToken.MaxLoginCount).
		IsLog(cfg.SaToken.IsLog).
		Build()

	stputil.SetManager(manager)
	return nil
}

// Login 登录
func Login(loginId any) (string, error) {
	return stputil.Login(loginId)
}

// LogoutByToken 根据Token登出
func LogoutByToken(tokenValue string) error {
	err := stputil.LogoutByToken(tokenValue)
	if err != nil {
		logger.Warn("SaToken 登出失败", zap.String("token", mask(tokenValue)), zap.Error(err))
	}
	return err
}

// IsLogin 判断是否登录
func IsLogin(tokenValue string) bool {
	return stputil.IsLogin(tokenValue)
}

// GetLoginId 获取登录ID
func GetLoginId(tokenValue string) (string, error) {
	return stputil.GetLoginID(tokenValue)
}

func mask(token string) string {
	return token[:min(8, len(token))] + "..."
}
