// Package debounce 提供统一的防抖原语，供表格全局搜索、下拉框远程搜索等交互复用
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultWait 默认防抖时间窗口
const DefaultWait = 500 * time.Millisecond

// Option 防抖器配置项
type Option func(*Debouncer)

// WithClock 注入时钟（测试使用 clockwork.NewFakeClock）
func WithClock(c clockwork.Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// Debouncer 防抖器
// 同一时间窗口内只有最后一次 Trigger 的回调会执行，之前的回调被取消而不是排队
type Debouncer struct {
	clock clockwork.Clock
	wait  time.Duration

	mu      sync.Mutex
	timer   clockwork.Timer
	pending func()
	gen     uint64
	stopped bool
}

// New 创建防抖器，wait<=0 时使用 DefaultWait
func New(wait time.Duration, opts ...Option) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	d := &Debouncer{
		clock: clockwork.NewRealClock(),
		wait:  wait,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait 返回时间窗口
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Trigger 取消尚未执行的回调并重新计时
func (d *Debouncer) Trigger(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.fire(gen)
	})
}

// fire 定时器到期；已被新一轮 Trigger 取代的定时器直接丢弃
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel 取消尚未执行的回调，返回是否确实取消了回调
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	had := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
	return had
}

// Flush 立即执行尚未执行的回调，返回是否执行了回调
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.pending == nil {
		d.mu.Unlock()
		return false
	}
	fn := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	fn()
	return true
}

// Pending 是否有等待执行的回调
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop 停止防抖器（卸载时调用），之后的 Trigger 全部忽略
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}
