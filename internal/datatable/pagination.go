package datatable

// 分页模式
const (
	ModeOffset = "offset"
	ModeClient = "client"
	ModeCursor = "cursor"
)

// Pagination 分页状态，offset/client/cursor 三种形态互不混用
type Pagination interface {
	View() PaginationView
}

// PaginationView 分页渲染结果
// PageCount 为 0 表示页数未知，只提供上一页/下一页
type PaginationView struct {
	Mode        string `json:"mode"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"pageSize"`
	Total       *int64 `json:"total,omitempty"`
	PageCount   int    `json:"pageCount"`
	HasPrevious bool   `json:"hasPrevious"`
	HasNext     bool   `json:"hasNext"`
	Cursor      string `json:"cursor,omitempty"`
	NextCursor  string `json:"nextCursor,omitempty"`
	Cursors     string `json:"cursors,omitempty"`
}

// PageCount 计算页数，pageSize<=0 或 total<0 时未知
func PageCount(total int64, pageSize int) (int, bool) {
	if pageSize <= 0 || total < 0 {
		return 0, false
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize)), true
}

// OffsetPagination 服务端已知总数的分页
type OffsetPagination struct {
	Page     int
	PageSize int
	Total    int64
}

// PageCount 页数
func (p OffsetPagination) PageCount() int {
	n, _ := PageCount(p.Total, p.PageSize)
	return n
}

// View 实现 Pagination
func (p OffsetPagination) View() PaginationView {
	total := p.Total
	pageCount := p.PageCount()
	return PaginationView{
		Mode:        ModeOffset,
		Page:        p.Page,
		PageSize:    p.PageSize,
		Total:       &total,
		PageCount:   pageCount,
		HasPrevious: p.Page > 1,
		HasNext:     p.Page < pageCount,
	}
}

// ClientPagination 总数缺失时在完整数据上做客户端分页
type ClientPagination struct {
	Page     int
	PageSize int
	HasNext  bool
}

// View 实现 Pagination
func (p ClientPagination) View() PaginationView {
	return PaginationView{
		Mode:        ModeClient,
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasPrevious: p.Page > 1,
		HasNext:     p.HasNext,
	}
}

// ClientPaginate 截取第 page 页数据
func ClientPaginate[T any](data []T, page, pageSize int) ([]T, ClientPagination) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return data, ClientPagination{Page: 1, PageSize: len(data)}
	}

	start := (page - 1) * pageSize
	if start >= len(data) {
		return []T{}, ClientPagination{Page: page, PageSize: pageSize}
	}
	end := min(start+pageSize, len(data))
	return data[start:end], ClientPagination{Page: page, PageSize: pageSize, HasNext: end < len(data)}
}
