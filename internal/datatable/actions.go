package datatable

// ActionKind 行操作类型
type ActionKind string

const (
	ActionDetail ActionKind = "detail"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
	ActionCustom ActionKind = "custom"
)

// CustomAction 自定义行操作
type CustomAction[T any] struct {
	Key   string
	Label string
	Hide  func(row T) bool
}

// Actions 行操作配置
// Hide*Button 返回 true 时该行对应操作渲染为禁用
type Actions[T any] struct {
	Update bool
	Delete bool
	Detail bool
	Custom []CustomAction[T]

	HideEditButton   func(row T) bool
	HideDeleteButton func(row T) bool
	HideDetailButton func(row T) bool
}

// ActionView 行操作渲染结果
type ActionView struct {
	Kind     ActionKind `json:"kind"`
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Disabled bool       `json:"disabled"`
}

// Enabled 是否配置了任一操作，决定是否追加操作列
func (a Actions[T]) Enabled() bool {
	return a.Update || a.Delete || a.Detail || len(a.Custom) > 0
}

// Render 渲染单行操作
func (a Actions[T]) Render(row T) []ActionView {
	views := make([]ActionView, 0, 3+len(a.Custom))
	if a.Detail {
		views = append(views, ActionView{Kind: ActionDetail, Key: string(ActionDetail), Label: "详情", Disabled: hidden(a.HideDetailButton, row)})
	}
	if a.Update {
		views = append(views, ActionView{Kind: ActionUpdate, Key: string(ActionUpdate), Label: "编辑", Disabled: hidden(a.HideEditButton, row)})
	}
	if a.Delete {
		views = append(views, ActionView{Kind: ActionDelete, Key: string(ActionDelete), Label: "删除", Disabled: hidden(a.HideDeleteButton, row)})
	}
	for _, c := range a.Custom {
		views = append(views, ActionView{Kind: ActionCustom, Key: c.Key, Label: c.Label, Disabled: hidden(c.Hide, row)})
	}
	return views
}

// Restrict 叠加调用方权限，allow 返回 false 的操作在所有行禁用
func (a Actions[T]) Restrict(allow func(kind ActionKind) bool) Actions[T] {
	if allow == nil {
		return a
	}
	a.HideDetailButton = denyAll(a.HideDetailButton, !allow(ActionDetail))
	a.HideEditButton = denyAll(a.HideEditButton, !allow(ActionUpdate))
	a.HideDeleteButton = denyAll(a.HideDeleteButton, !allow(ActionDelete))
	return a
}

func hidden[T any](pred func(T) bool, row T) bool {
	return pred != nil && pred(row)
}

func denyAll[T any](pred func(T) bool, deny bool) func(T) bool {
	if !deny {
		return pred
	}
	return func(T) bool { return true }
}
