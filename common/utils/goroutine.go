package utils

import (
	"runtime/debug"

	"opsadmin/common/logger"

	"go.uber.org/zap"
)

// SafeGoWithName 安全地启动一个带名称的 goroutine，便于日志追踪
// 使用方式: utils.SafeGoWithName("operation-log", func() { ... })
func SafeGoWithName(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panic recovered",
					zap.String("name", name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
