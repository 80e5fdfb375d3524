package urlstate

import (
	"net/url"
	"sync"
)

// Navigation 一次客户端导航
// Search 为整体替换，Update 为基于上一次参数的函数式更新，两者同时存在时 Update 优先
type Navigation struct {
	Search url.Values
	Update func(prev url.Values) url.Values
}

// Apply 计算导航后的参数
func (n Navigation) Apply(prev url.Values) url.Values {
	if n.Update != nil {
		return n.Update(Clone(prev))
	}
	return Clone(n.Search)
}

// Navigator 导航执行者（前端路由、HTTP 重定向等）
type Navigator interface {
	Navigate(nav Navigation)
}

// NavigatorFunc 函数适配器
type NavigatorFunc func(nav Navigation)

// Navigate 实现 Navigator
func (f NavigatorFunc) Navigate(nav Navigation) {
	f(nav)
}

// Recorder 记录导航结果的内存导航器
type Recorder struct {
	mu      sync.Mutex
	current url.Values
	history []url.Values
}

// NewRecorder 以初始参数创建记录器
func NewRecorder(initial url.Values) *Recorder {
	return &Recorder{current: Clone(initial)}
}

// Navigate 实现 Navigator
func (r *Recorder) Navigate(nav Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nav.Apply(r.current)
	r.history = append(r.history, Clone(r.current))
}

// Current 当前参数
func (r *Recorder) Current() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Clone(r.current)
}

// Count 导航次数
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// Last 最近一次导航结果
func (r *Recorder) Last() (url.Values, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return nil, false
	}
	return Clone(r.history[len(r.history)-1]), true
}
