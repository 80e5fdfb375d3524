package formdialog

import (
	"sync"

	"opsadmin/common/logger"

	"go.uber.org/zap"
)

// Notifier 提示消息（toast）
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier 写入日志的默认实现
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志提示
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.Named("formdialog")}
}

// Success 实现 Notifier
func (n *LogNotifier) Success(msg string) {
	n.log.Info(msg)
}

// Error 实现 Notifier
func (n *LogNotifier) Error(msg string) {
	n.log.Warn(msg)
}

// Toast 一条提示
type Toast struct {
	Level   string `json:"level"` // success | error
	Message string `json:"message"`
}

// Collector 收集提示，供接口随响应返回
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

// Success 实现 Notifier
func (c *Collector) Success(msg string) {
	c.add("success", msg)
}

// Error 实现 Notifier
func (c *Collector) Error(msg string) {
	c.add("error", msg)
}

func (c *Collector) add(level, msg string) {
	c.mu.Lock()
	c.toasts = append(c.toasts, Toast{Level: level, Message: msg})
	c.mu.Unlock()
}

// Toasts 已收集的提示
func (c *Collector) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

// Last 最近一条提示
func (c *Collector) Last() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.toasts) == 0 {
		return Toast{}, false
	}
	return c.toasts[len(c.toasts)-1], true
}
