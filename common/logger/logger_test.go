package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestReplace_ConcurrentWithReaders(t *testing.T) {
	logs := observe(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Info("并发写入")
		}()
	}
	restore := Replace(L())
	wg.Wait()
	restore()

	assert.Equal(t, 8, logs.FilterMessage("并发写入").Len())
}

func TestGormLogger_TraceLevels(t *testing.T) {
	logs := observe(t)
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl := NewGormLogger(50*time.Millisecond, gormlogger.Warn)
	gl.Trace(ctx, time.Now(), sql, nil)
	gl.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "warn 级别下普通语句与未找到记录不记录")

	gl.Trace(ctx, time.Now(), sql, errors.New("no such table"))
	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "SELECT 1", entries[1].ContextMap()["sql"])

	gl.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sql, nil)
	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)

	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), sql, errors.New("x"))
	assert.Zero(t, logs.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
