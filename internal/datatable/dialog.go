package datatable

import "sync"

// DialogKind 对话框类型
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreate
	DialogUpdate
	DialogDelete
	DialogDetail
)

// String 类型名
func (k DialogKind) String() string {
	switch k {
	case DialogCreate:
		return "create"
	case DialogUpdate:
		return "update"
	case DialogDelete:
		return "delete"
	case DialogDetail:
		return "detail"
	default:
		return "none"
	}
}

// DialogState 对话框状态：none | create | update(record) | delete(record) | detail(record)
// 同一时刻最多一个对话框打开，打开新目标会替换当前目标
type DialogState[T any] struct {
	kind   DialogKind
	record T
}

// Kind 当前打开的对话框类型
func (s DialogState[T]) Kind() DialogKind {
	return s.kind
}

// IsOpen 指定类型是否打开
func (s DialogState[T]) IsOpen(kind DialogKind) bool {
	return kind != DialogNone && s.kind == kind
}

// Record 当前目标行，create/none 没有目标行
func (s DialogState[T]) Record() (T, bool) {
	switch s.kind {
	case DialogUpdate, DialogDelete, DialogDetail:
		return s.record, true
	}
	var zero T
	return zero, false
}

// DialogProps 对话框统一入参，任何实体对话框都通过它接入表格
type DialogProps[T any] struct {
	Open      bool
	OnClose   func()
	OnSuccess func()
	Data      *T
}

// Dialog 实体对话框实现
type Dialog[T any] interface {
	Bind(props DialogProps[T])
}

// Dialogs 表格的对话框槽位
// 成功后关闭并调用 OnRefresh，表格自身不重新拉取数据
type Dialogs[T any] struct {
	mu        sync.Mutex
	state     DialogState[T]
	slots     map[DialogKind]Dialog[T]
	onRefresh func()
}

// NewDialogs 创建对话框槽位
func NewDialogs[T any](onRefresh func()) *Dialogs[T] {
	return &Dialogs[T]{
		slots:     make(map[DialogKind]Dialog[T]),
		onRefresh: onRefresh,
	}
}

// Register 为指定类型挂载对话框实现
func (d *Dialogs[T]) Register(kind DialogKind, dlg Dialog[T]) {
	d.mu.Lock()
	d.slots[kind] = dlg
	d.mu.Unlock()
}

// State 当前状态
func (d *Dialogs[T]) State() DialogState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OpenCreate 打开新建对话框
func (d *Dialogs[T]) OpenCreate() {
	var zero T
	d.transition(DialogState[T]{kind: DialogCreate, record: zero})
}

// OpenUpdate 打开编辑对话框
func (d *Dialogs[T]) OpenUpdate(row T) {
	d.transition(DialogState[T]{kind: DialogUpdate, record: row})
}

// OpenDelete 打开删除确认对话框
func (d *Dialogs[T]) OpenDelete(row T) {
	d.transition(DialogState[T]{kind: DialogDelete, record: row})
}

// OpenDetail 打开详情对话框
func (d *Dialogs[T]) OpenDetail(row T) {
	d.transition(DialogState[T]{kind: DialogDetail, record: row})
}

// Close 关闭当前对话框
func (d *Dialogs[T]) Close() {
	d.transition(DialogState[T]{})
}

// Succeed 提交成功：关闭并通知刷新
func (d *Dialogs[T]) Succeed() {
	d.Close()
	if d.onRefresh != nil {
		d.onRefresh()
	}
}

// Props 指定类型对话框的入参
func (d *Dialogs[T]) Props(kind DialogKind) DialogProps[T] {
	return d.props(d.State(), kind)
}

func (d *Dialogs[T]) props(state DialogState[T], kind DialogKind) DialogProps[T] {
	p := DialogProps[T]{
		Open:      state.IsOpen(kind),
		OnClose:   d.Close,
		OnSuccess: d.Succeed,
	}
	if rec, ok := state.Record(); ok && p.Open {
		p.Data = &rec
	}
	return p
}

// transition 切换状态并把新入参推送给受影响的对话框
func (d *Dialogs[T]) transition(next DialogState[T]) {
	d.mu.Lock()
	prev := d.state
	d.state = next
	kinds := []DialogKind{prev.kind}
	if next.kind != prev.kind {
		kinds = append(kinds, next.kind)
	}
	type bound struct {
		kind DialogKind
		dlg  Dialog[T]
	}
	affected := make([]bound, 0, len(kinds))
	for _, kind := range kinds {
		if dlg, ok := d.slots[kind]; ok && kind != DialogNone {
			affected = append(affected, bound{kind, dlg})
		}
	}
	d.mu.Unlock()

	// 先关闭旧的，再打开新的
	for _, b := range affected {
		b.dlg.Bind(d.props(next, b.kind))
	}
}
