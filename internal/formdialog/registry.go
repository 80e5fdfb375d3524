package formdialog

import (
	"fmt"
	"sync"
)

// Widget 字段渲染结果
type Widget struct {
	Name         string     `json:"name"`
	Label        string     `json:"label"`
	Kind         FieldKind  `json:"kind"`
	Component    string     `json:"component"`
	Required     bool       `json:"required"`
	Placeholder  string     `json:"placeholder,omitempty"`
	Value        any        `json:"value"`
	Text         string     `json:"text,omitempty"`
	Options      []Option   `json:"options,omitempty"`
	OptionSource string     `json:"optionSource,omitempty"`
	Error        string     `json:"error,omitempty"`
	Staged       string     `json:"staged,omitempty"`
	Items        [][]Widget `json:"items,omitempty"`
}

// RenderInput 渲染单个字段所需的当前状态
type RenderInput struct {
	Path   string
	Value  any
	Text   string
	Error  string
	Staged *StagedFile
	Items  [][]Widget
}

// Renderer 字段渲染器
type Renderer func(f FieldSpec, in RenderInput) Widget

// Registry 字段类型 -> 渲染器
type Registry struct {
	mu        sync.RWMutex
	renderers map[FieldKind]Renderer
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[FieldKind]Renderer)}
}

// DefaultRegistry 注册全部内置类型
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindText, component("input"))
	r.Register(KindNumber, component("input-number"))
	r.Register(KindDate, component("date-picker"))
	r.Register(KindDateTime, component("datetime-picker"))
	r.Register(KindSelect, component("select"))
	r.Register(KindCheckbox, component("checkbox"))
	r.Register(KindCombobox, component("combobox"))
	r.Register(KindRichText, component("rich-text"))
	r.Register(KindArray, component("array"))
	r.Register(KindImage, component("image-upload"))
	return r
}

// Register 注册或覆盖某类型的渲染器
func (r *Registry) Register(kind FieldKind, fn Renderer) {
	r.mu.Lock()
	r.renderers[kind] = fn
	r.mu.Unlock()
}

// Lookup 查找渲染器
func (r *Registry) Lookup(kind FieldKind) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[kind]
	return fn, ok
}

// Check 校验字段树中的类型都已注册、显示条件合法
func (r *Registry) Check(fields []FieldSpec) error {
	for _, f := range fields {
		if _, ok := r.Lookup(f.Kind); !ok {
			return fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
		}
		if err := f.ShowWhen.Check(); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if f.Kind == KindArray {
			if len(f.Fields) == 0 {
				return fmt.Errorf("field %q: array without sub fields", f.Name)
			}
			if err := r.Check(f.Fields); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}
	return nil
}

func component(name string) Renderer {
	return func(f FieldSpec, in RenderInput) Widget {
		w := Widget{
			Name:         in.Path,
			Label:        f.Label,
			Kind:         f.Kind,
			Component:    name,
			Required:     f.Required,
			Placeholder:  f.Placeholder,
			Value:        in.Value,
			Text:         in.Text,
			Options:      f.Options,
			OptionSource: f.OptionSource,
			Error:        in.Error,
			Items:        in.Items,
		}
		if in.Staged != nil {
			w.Staged = in.Staged.Name
		}
		return w
	}
}
