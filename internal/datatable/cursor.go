package datatable

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/bytedance/sonic"
)

// CursorPage 游标分页单页结果
type CursorPage[T any] struct {
	Items             []T    `json:"items"`
	HasNextPage       bool   `json:"hasNextPage"`
	ContinuationToken string `json:"continuationToken,omitempty"`
}

// CursorFetch 按令牌拉取一页，空令牌为第一页
type CursorFetch[T any] func(ctx context.Context, token string) (CursorPage[T], error)

// ErrNoFetch 未配置拉取函数
var ErrNoFetch = errors.New("datatable: cursor fetch not configured")

// CursorPager 游标分页器
// stack 保存此前各页的令牌：下一页入栈，上一页出栈。非并发安全，每个表格实例一个
type CursorPager[T any] struct {
	pageSize int
	fetch    CursorFetch[T]
	stack    []string
	current  string
	page     CursorPage[T]
}

// NewCursorPager 创建游标分页器
func NewCursorPager[T any](pageSize int, fetch CursorFetch[T]) *CursorPager[T] {
	return &CursorPager[T]{pageSize: pageSize, fetch: fetch}
}

// Restore 从 URL 恢复当前令牌与令牌栈
func (p *CursorPager[T]) Restore(current string, stack []string) {
	p.current = current
	p.stack = append([]string(nil), stack...)
}

// Load 拉取当前令牌对应的页
func (p *CursorPager[T]) Load(ctx context.Context) (CursorPage[T], error) {
	if p.fetch == nil {
		return CursorPage[T]{}, ErrNoFetch
	}
	page, err := p.fetch(ctx, p.current)
	if err != nil {
		return CursorPage[T]{}, err
	}
	p.page = page
	return page, nil
}

// OnNextPage 当前令牌入栈并请求下一页；没有下一页时不做任何事
func (p *CursorPager[T]) OnNextPage(ctx context.Context) (bool, error) {
	if !p.HasNext() {
		return false, nil
	}
	prevStack, prevCurrent := p.stack, p.current

	p.stack = append(append([]string(nil), p.stack...), p.current)
	p.current = p.page.ContinuationToken
	if _, err := p.Load(ctx); err != nil {
		p.stack, p.current = prevStack, prevCurrent
		return false, err
	}
	return true, nil
}

// OnPreviousPage 出栈并重新请求上一页；栈空时不做任何事
func (p *CursorPager[T]) OnPreviousPage(ctx context.Context) (bool, error) {
	if !p.HasPrevious() {
		return false, nil
	}
	prevStack, prevCurrent := p.stack, p.current

	last := len(p.stack) - 1
	p.current = p.stack[last]
	p.stack = append([]string(nil), p.stack[:last]...)
	if _, err := p.Load(ctx); err != nil {
		p.stack, p.current = prevStack, prevCurrent
		return false, err
	}
	return true, nil
}

// HasPrevious 栈非空时可返回上一页
func (p *CursorPager[T]) HasPrevious() bool {
	return len(p.stack) > 0
}

// HasNext 当前页声明有下一页且带令牌
func (p *CursorPager[T]) HasNext() bool {
	return p.page.HasNextPage && p.page.ContinuationToken != ""
}

// Page 最近一次拉取的页
func (p *CursorPager[T]) Page() CursorPage[T] {
	return p.page
}

// Current 当前页令牌
func (p *CursorPager[T]) Current() string {
	return p.current
}

// Stack 令牌栈副本
func (p *CursorPager[T]) Stack() []string {
	return append([]string(nil), p.stack...)
}

// View 实现 Pagination
func (p *CursorPager[T]) View() PaginationView {
	view := PaginationView{
		Mode:        ModeCursor,
		PageSize:    p.pageSize,
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
		Cursor:      p.current,
		Cursors:     EncodeStack(p.stack),
	}
	if view.HasNext {
		view.NextCursor = p.page.ContinuationToken
	}
	return view
}

// EncodeStack 令牌栈编码为 URL 安全字符串，空栈为空串
func EncodeStack(stack []string) string {
	if len(stack) == 0 {
		return ""
	}
	data, err := sonic.Marshal(stack)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeStack 解码令牌栈，格式错误时返回 false 并退回第一页
func DecodeStack(s string) ([]string, bool) {
	if s == "" {
		return nil, true
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	var stack []string
	if err := sonic.Unmarshal(data, &stack); err != nil {
		return nil, false
	}
	return stack, true
}
