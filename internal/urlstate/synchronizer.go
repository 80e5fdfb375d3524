package urlstate

import (
	"net/url"
	"sync"

	"opsadmin/internal/debounce"

	"github.com/jonboulle/clockwork"
)

// SyncOption 同步器配置项
type SyncOption func(*Synchronizer)

// WithClock 注入防抖时钟
func WithClock(c clockwork.Clock) SyncOption {
	return func(s *Synchronizer) {
		s.clock = c
	}
}

// Synchronizer 表格状态与 URL 参数的双向同步器
// 读：URL -> TableViewState；写：状态变更 -> 合并参数并导航
type Synchronizer struct {
	cfg   Config
	nav   Navigator
	clock clockwork.Clock

	mu            sync.Mutex
	query         url.Values
	state         TableViewState
	lastPageCount int

	search *debounce.Debouncer
}

// NewSynchronizer 创建同步器
func NewSynchronizer(cfg Config, query url.Values, nav Navigator, opts ...SyncOption) *Synchronizer {
	cfg = cfg.withDefaults()
	s := &Synchronizer{
		cfg:   cfg,
		nav:   nav,
		query: Clone(query),
		state: Read(query, cfg),
	}
	for _, opt := range opts {
		opt(s)
	}

	var dopts []debounce.Option
	if s.clock != nil {
		dopts = append(dopts, debounce.WithClock(s.clock))
	}
	s.search = debounce.New(cfg.Debounce, dopts...)
	return s
}

// Config 返回生效的配置
func (s *Synchronizer) Config() Config {
	return s.cfg
}

// State 当前表格状态
func (s *Synchronizer) State() TableViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query 当前参数
func (s *Synchronizer) Query() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Clone(s.query)
}

// Sync 外部导航落地后重新读取状态
func (s *Synchronizer) Sync(query url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = Clone(query)
	s.state = Read(query, s.cfg)
}

// navigate 以函数式更新合并参数并触发导航
func (s *Synchronizer) navigate(update func(prev url.Values) url.Values) {
	nav := Navigation{Update: update}

	s.mu.Lock()
	s.query = nav.Apply(s.query)
	s.state = Read(s.query, s.cfg)
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(nav)
	}
}

// OnPageChange 翻页
func (s *Synchronizer) OnPageChange(page int) {
	s.navigate(func(prev url.Values) url.Values {
		return WithPage(prev, s.cfg, page)
	})
}

// OnPageSizeChange 修改每页条数
func (s *Synchronizer) OnPageSizeChange(size int) {
	s.navigate(func(prev url.Values) url.Values {
		return WithPageSize(prev, s.cfg, size)
	})
}

// OnSortChange 修改排序
func (s *Synchronizer) OnSortChange(sort []SortColumn) {
	s.navigate(func(prev url.Values) url.Values {
		return WithSort(prev, s.cfg, sort)
	})
}

// OnColumnFilterChange 修改列筛选，页码重置为1
func (s *Synchronizer) OnColumnFilterChange(columnID string, value any) {
	s.navigate(func(prev url.Values) url.Values {
		return WithColumnFilter(prev, s.cfg, columnID, value)
	})
}

// OnGlobalFilterChange 修改全局搜索（防抖，窗口内只导航一次且取最后的值）
func (s *Synchronizer) OnGlobalFilterChange(text string) {
	if !s.cfg.GlobalFilter.Enabled {
		return
	}
	s.search.Trigger(func() {
		s.navigate(func(prev url.Values) url.Values {
			return WithGlobalFilter(prev, s.cfg, text)
		})
	})
}

// FlushGlobalFilter 立即提交尚在防抖中的搜索（如回车）
func (s *Synchronizer) FlushGlobalFilter() bool {
	return s.search.Flush()
}

// EnsurePageInRange 页数变化时校正越界页码
// 只有 pageCount 与上次观测值不同才会处理；pageCount<=0（总数未知/游标分页）不处理
func (s *Synchronizer) EnsurePageInRange(pageCount int) bool {
	s.mu.Lock()
	if pageCount == s.lastPageCount {
		s.mu.Unlock()
		return false
	}
	s.lastPageCount = pageCount
	if pageCount <= 0 || s.state.Page <= pageCount {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	target := max(1, pageCount)
	s.navigate(func(prev url.Values) url.Values {
		return WithPage(prev, s.cfg, target)
	})
	return true
}

// Close 释放资源，取消尚未执行的防抖导航
func (s *Synchronizer) Close() {
	s.search.Stop()
}
