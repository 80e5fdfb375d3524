package formdialog

import (
	"context"
	"strings"
	"sync"
	"time"

	"opsadmin/common/logger"
	"opsadmin/internal/debounce"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// OptionFetcher 按搜索词拉取选项
type OptionFetcher func(ctx context.Context, search string) ([]Option, error)

// collapseTimeout 合并后共享拉取的超时
const collapseTimeout = 10 * time.Second

// Collapse 相同来源与搜索词的并发请求合并为一次
// 共享拉取不随任一调用方取消，各调用方只在自身 ctx 结束时提前返回
func Collapse(group *singleflight.Group, source string, fetch OptionFetcher) OptionFetcher {
	return func(ctx context.Context, search string) ([]Option, error) {
		ch := group.DoChan(source+"\x00"+search, func() (any, error) {
			shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), collapseTimeout)
			defer cancel()
			return fetch(shared, search)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			opts, _ := res.Val.([]Option)
			return opts, nil
		}
	}
}

// ComboboxState 下拉框状态
type ComboboxState struct {
	Search  string   `json:"search"`
	Options []Option `json:"options"`
	Loading bool     `json:"loading"`
}

// ComboboxOption 配置项
type ComboboxOption func(*Combobox)

// WithComboboxClock 注入防抖时钟
func WithComboboxClock(c clockwork.Clock) ComboboxOption {
	return func(cb *Combobox) {
		cb.clock = c
	}
}

// WithComboboxWait 防抖时长
func WithComboboxWait(wait time.Duration) ComboboxOption {
	return func(cb *Combobox) {
		cb.wait = wait
	}
}

// WithGroup 共享请求合并组
func WithGroup(g *singleflight.Group) ComboboxOption {
	return func(cb *Combobox) {
		cb.group = g
	}
}

// WithTimeout 单次拉取超时
func WithTimeout(d time.Duration) ComboboxOption {
	return func(cb *Combobox) {
		cb.timeout = d
	}
}

// OnChange 状态变化回调
func OnChange(fn func(ComboboxState)) ComboboxOption {
	return func(cb *Combobox) {
		cb.onChange = fn
	}
}

// Combobox 远程搜索下拉框
// 搜索词经防抖后拉取；过期的结果丢弃；拉取失败退化为空列表
type Combobox struct {
	source   string
	fetch    OptionFetcher
	clock    clockwork.Clock
	wait     time.Duration
	timeout  time.Duration
	group    *singleflight.Group
	onChange func(ComboboxState)
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	search *debounce.Debouncer

	mu    sync.Mutex
	state ComboboxState
	seq   uint64
}

// NewCombobox 创建下拉框
func NewCombobox(source string, fetch OptionFetcher, opts ...ComboboxOption) *Combobox {
	cb := &Combobox{
		source:  source,
		wait:    debounce.DefaultWait,
		timeout: 10 * time.Second,
		log:     logger.Named("combobox"),
		state:   ComboboxState{Options: []Option{}},
	}
	for _, opt := range opts {
		opt(cb)
	}
	if cb.group == nil {
		cb.group = &singleflight.Group{}
	}
	cb.fetch = Collapse(cb.group, source, fetch)

	var dopts []debounce.Option
	if cb.clock != nil {
		dopts = append(dopts, debounce.WithClock(cb.clock))
	}
	cb.search = debounce.New(cb.wait, dopts...)
	cb.ctx, cb.cancel = context.WithCancel(context.Background())
	return cb
}

// Search 输入搜索词（防抖）
func (cb *Combobox) Search(text string) {
	text = strings.TrimSpace(text)
	cb.mu.Lock()
	cb.state.Search = text
	cb.seq++
	seq := cb.seq
	cb.mu.Unlock()

	cb.search.Trigger(func() {
		cb.run(cb.ctx, seq, text)
	})
}

// Flush 立即执行尚在防抖中的搜索
func (cb *Combobox) Flush() bool {
	return cb.search.Flush()
}

// Load 不经防抖直接拉取，返回最终选项
func (cb *Combobox) Load(ctx context.Context, text string) []Option {
	text = strings.TrimSpace(text)
	cb.mu.Lock()
	cb.state.Search = text
	cb.seq++
	seq := cb.seq
	cb.mu.Unlock()

	cb.search.Cancel()
	return cb.run(ctx, seq, text)
}

func (cb *Combobox) run(ctx context.Context, seq uint64, text string) []Option {
	cb.update(seq, func(s *ComboboxState) { s.Loading = true })

	ctx, cancel := context.WithTimeout(ctx, cb.timeout)
	defer cancel()

	opts, err := cb.fetch(ctx, text)
	if err != nil {
		cb.log.Warn("选项拉取失败", zap.String("source", cb.source), zap.String("search", text), zap.Error(err))
		opts = []Option{}
	}
	if opts == nil {
		opts = []Option{}
	}

	cb.update(seq, func(s *ComboboxState) {
		s.Options = opts
		s.Loading = false
	})
	return opts
}

// update 只应用最新一次搜索的结果
func (cb *Combobox) update(seq uint64, fn func(*ComboboxState)) {
	cb.mu.Lock()
	if seq != cb.seq {
		cb.mu.Unlock()
		return
	}
	fn(&cb.state)
	snapshot := cb.snapshotLocked()
	cb.mu.Unlock()

	if cb.onChange != nil {
		cb.onChange(snapshot)
	}
}

// State 当前状态
func (cb *Combobox) State() ComboboxState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.snapshotLocked()
}

func (cb *Combobox) snapshotLocked() ComboboxState {
	s := cb.state
	s.Options = append([]Option{}, cb.state.Options...)
	return s
}

// Close 停止防抖并取消进行中的拉取
func (cb *Combobox) Close() {
	cb.search.Stop()
	cb.cancel()
}
