package logger

import (
	"context"
	"errors"
	"path"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger 将 GORM 日志写入 zap，logger 名为 sql
type GormLogger struct {
	slow  time.Duration
	level gormlogger.LogLevel
}

// NewGormLogger slow 为 0 时取默认慢查询阈值
func NewGormLogger(slow time.Duration, level gormlogger.LogLevel) *GormLogger {
	if slow <= 0 {
		slow = defaultSlowThreshold
	}
	return &GormLogger{slow: slow, level: level}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) sugar() *zap.SugaredLogger {
	return Named("sql").Sugar()
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.sugar().Errorf(msg, data...)
	}
}

// Trace 失败记 error，慢查询记 warn，其余在 info 级别下记 debug
// 未找到记录不算失败
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := elapsed > l.slow

	// 非 info 级别下，普通语句不必拼装 SQL
	if !failed && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("caller", shortCaller(utils.FileWithLineNum())),
		zap.Duration("latency", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	lg := Named("sql").WithOptions(zap.WithCaller(false))
	switch {
	case failed && l.level >= gormlogger.Error:
		lg.Error("SQL 执行失败", append(fields, zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		lg.Warn("慢查询", fields...)
	case l.level >= gormlogger.Info:
		lg.Debug("SQL", fields...)
	}
}

// shortCaller 只保留 目录/文件:行号
func shortCaller(caller string) string {
	return path.Join(path.Base(path.Dir(caller)), path.Base(caller))
}
