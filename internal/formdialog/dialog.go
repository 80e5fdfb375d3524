package formdialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"opsadmin/internal/datatable"
)

var (
	// ErrClosed 对话框未打开
	ErrClosed = errors.New("对话框未打开")
	// ErrBusy 上传或提交进行中
	ErrBusy = errors.New("正在提交，请稍候")
	// ErrNoUploader 存在待上传图片但未配置上传器
	ErrNoUploader = errors.New("未配置图片上传")
)

// SubmitFunc 提交回调，record 在新建时为 nil
type SubmitFunc[T any] func(ctx context.Context, values Values, record *T) error

// Config 对话框配置
type Config[T any] struct {
	Title  string
	Fields []FieldSpec
	// Registry 为空时使用内置注册表
	Registry *Registry
	// InitialValues 新建模式的初始值
	InitialValues Values
	// DeriveValues 编辑模式从记录推导初始值
	DeriveValues func(record T) Values
	// Check 附加的整体校验，返回的错误与字段错误合并
	Check    func(values Values) FieldErrors
	Submit   SubmitFunc[T]
	Uploader ImageUploader
	Notifier Notifier
	// SuccessMessage 为空时不提示
	SuccessMessage string
}

// Dialog 配置驱动的表单对话框
// 数字输入缓冲与暂存文件只属于当前实例，关闭或提交成功时清空
type Dialog[T any] struct {
	cfg      Config[T]
	registry *Registry
	notifier Notifier

	mu         sync.Mutex
	open       bool
	record     *T
	values     Values
	numbers    map[string]string
	lastValid  map[string]float64
	staged     map[string]StagedFile
	errors     FieldErrors
	uploading  bool
	submitting bool
	onClose    func()
	onSuccess  func()
}

var _ datatable.Dialog[struct{}] = (*Dialog[struct{}])(nil)

// New 创建对话框，字段类型未注册或显示条件非法时返回错误
func New[T any](cfg Config[T]) (*Dialog[T], error) {
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	if err := reg.Check(cfg.Fields); err != nil {
		return nil, err
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	d := &Dialog[T]{cfg: cfg, registry: reg, notifier: notifier}
	d.resetLocked()
	return d, nil
}

// Fields 字段定义
func (d *Dialog[T]) Fields() []FieldSpec {
	return d.cfg.Fields
}

// Title 标题
func (d *Dialog[T]) Title() string {
	return d.cfg.Title
}

// Open 打开对话框：record 为空为新建模式，否则为编辑模式
func (d *Dialog[T]) Open(record *T, onClose, onSuccess func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
	d.open = true
	d.record = record
	d.onClose = onClose
	d.onSuccess = onSuccess

	initial := d.cfg.InitialValues
	if record != nil && d.cfg.DeriveValues != nil {
		initial = d.cfg.DeriveValues(*record)
	}
	d.values = normalize(d.cfg.Fields, initial)
}

// Bind 实现 datatable.Dialog
func (d *Dialog[T]) Bind(props datatable.DialogProps[T]) {
	if props.Open {
		d.Open(props.Data, props.OnClose, props.OnSuccess)
		return
	}
	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()
}

// Close 用户取消：清空本地状态并通知关闭
func (d *Dialog[T]) Close() {
	d.mu.Lock()
	onClose := d.onClose
	d.resetLocked()
	d.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// IsOpen 是否打开
func (d *Dialog[T]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Record 编辑中的记录
func (d *Dialog[T]) Record() *T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record
}

// Values 当前值副本（含隐藏字段）
func (d *Dialog[T]) Values() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return deepCopy(d.values)
}

// Value 读取单个字段
func (d *Dialog[T]) Value(path string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return getValue(d.values, path)
}

// SetValue 设置字段值，未知路径返回 false
func (d *Dialog[T]) SetValue(path string, v any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setLocked(path, v)
}

// SetValues 批量设置，未知字段忽略
func (d *Dialog[T]) SetValues(values Values) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, v := range values {
		if f, ok := lookupField(d.cfg.Fields, path); ok && f.Kind == KindArray {
			normalized := normalize([]FieldSpec{f}, Values{path: v})
			d.values[path] = normalized[path]
			continue
		}
		d.setLocked(path, v)
	}
}

func (d *Dialog[T]) setLocked(path string, v any) bool {
	f, ok := lookupField(d.cfg.Fields, path)
	if !ok {
		return false
	}
	if f.Kind == KindNumber {
		if s, isStr := v.(string); isStr {
			d.inputNumberLocked(path, s)
			return true
		}
		delete(d.numbers, path)
		if n, isNum := toFloat(v); isNum {
			d.lastValid[path] = n
			v = n
		}
	}
	if !setValue(d.values, path, v) {
		return false
	}
	delete(d.errors, path)
	return true
}

// InputNumber 数字输入：中间态提交 nil，完整数字才提交为 float64
func (d *Dialog[T]) InputNumber(path, raw string) any {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := lookupField(d.cfg.Fields, path); !ok || f.Kind != KindNumber {
		return nil
	}
	return d.inputNumberLocked(path, raw)
}

func (d *Dialog[T]) inputNumberLocked(path, raw string) any {
	d.numbers[path] = raw
	n, ok := ParseNumber(raw)
	if !ok {
		setValue(d.values, path, nil)
		return nil
	}
	d.lastValid[path] = n
	setValue(d.values, path, n)
	return n
}

// BlurNumber 失焦：不完整的输入回退为最近一次有效值，没有则清空
func (d *Dialog[T]) BlurNumber(path string) any {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, buffered := d.numbers[path]
	if !buffered {
		v, _ := getValue(d.values, path)
		return v
	}
	delete(d.numbers, path)
	if n, ok := ParseNumber(raw); ok {
		return n
	}
	if n, ok := d.lastValid[path]; ok {
		setValue(d.values, path, n)
		return n
	}
	setValue(d.values, path, nil)
	return nil
}

// NumberText 数字输入框显示的文本
func (d *Dialog[T]) NumberText(path string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.numberTextLocked(path)
}

func (d *Dialog[T]) numberTextLocked(path string) string {
	if raw, ok := d.numbers[path]; ok {
		return raw
	}
	v, _ := getValue(d.values, path)
	return FormatNumber(v)
}

// StageImage 暂存图片，提交时才上传
func (d *Dialog[T]) StageImage(path string, file StagedFile) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := lookupField(d.cfg.Fields, path); !ok || f.Kind != KindImage {
		return false
	}
	d.staged[path] = file
	delete(d.errors, path)
	return true
}

// Staged 已暂存的图片
func (d *Dialog[T]) Staged(path string) (StagedFile, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.staged[path]
	return f, ok
}

// AddItem 数组字段追加一项默认值，返回新项下标
func (d *Dialog[T]) AddItem(name string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := lookupField(d.cfg.Fields, name)
	if !ok || f.Kind != KindArray {
		return -1, false
	}
	list := append(items(d.values, name), ItemDefaults(f.Fields))
	d.values[name] = list
	return len(list) - 1, true
}

// RemoveItem 删除数组字段的一项，丢弃该项的输入缓冲与暂存文件，后续项的状态随下标前移
func (d *Dialog[T]) RemoveItem(name string, index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := lookupField(d.cfg.Fields, name)
	if !ok || f.Kind != KindArray {
		return false
	}
	list := items(d.values, name)
	if index < 0 || index >= len(list) {
		return false
	}
	next := make([]map[string]any, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	d.values[name] = next

	shiftItemKeys(d.numbers, name, index)
	shiftItemKeys(d.lastValid, name, index)
	shiftItemKeys(d.staged, name, index)
	return true
}

// shiftItemKeys 删除 name.<index>. 下的键，name.<i>.（i > index）改为 name.<i-1>.
func shiftItemKeys[V any](m map[string]V, name string, index int) {
	prefix := name + "."
	moved := make(map[string]V)
	for k, v := range m {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		idx, sub, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < index {
			continue
		}
		delete(m, k)
		if i > index {
			moved[prefix+strconv.Itoa(i-1)+"."+sub] = v
		}
	}
	for k, v := range moved {
		m[k] = v
	}
}

// Visible 字段是否显示，每次值变化后重新计算
func (d *Dialog[T]) Visible(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked(path)
}

func (d *Dialog[T]) visibleLocked(path string) bool {
	p, ok := parsePath(path)
	if !ok {
		return false
	}
	top, ok := lookupField(d.cfg.Fields, p.name)
	if !ok || !top.ShowWhen.Eval(d.values) {
		return false
	}
	if !p.nested {
		return true
	}
	list := items(d.values, p.name)
	if p.index >= len(list) {
		return false
	}
	sub, ok := lookupField(top.Fields, p.sub)
	return ok && sub.ShowWhen.Eval(list[p.index])
}

// Validate 校验可见字段，隐藏字段不参与必填校验
func (d *Dialog[T]) Validate() FieldErrors {
	d.mu.Lock()
	defer d.mu.Unlock()
	errs := d.validateLocked()
	d.errors = errs
	return errs
}

func (d *Dialog[T]) validateLocked() FieldErrors {
	errs := FieldErrors{}
	for _, f := range d.cfg.Fields {
		if !f.ShowWhen.Eval(d.values) {
			continue
		}
		_, staged := d.staged[f.Name]
		if msg := checkField(f, d.values[f.Name], staged); msg != "" {
			errs[f.Name] = msg
		}
		if f.Kind != KindArray {
			continue
		}
		for i, item := range items(d.values, f.Name) {
			for _, sub := range f.Fields {
				if !sub.ShowWhen.Eval(item) {
					continue
				}
				path := itemPath(f.Name, i, sub.Name)
				_, staged := d.staged[path]
				if msg := checkField(sub, item[sub.Name], staged); msg != "" {
					errs[path] = msg
				}
			}
		}
	}
	if d.cfg.Check != nil {
		for k, v := range d.cfg.Check(d.submittedLocked(nil)) {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
	}
	return errs
}

// Errors 最近一次校验结果
func (d *Dialog[T]) Errors() FieldErrors {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(FieldErrors, len(d.errors))
	for k, v := range d.errors {
		out[k] = v
	}
	return out
}

// Busy 是否在上传或提交中
func (d *Dialog[T]) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploading || d.submitting
}

// CanSubmit 打开、空闲且校验通过时才能提交
func (d *Dialog[T]) CanSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && !d.uploading && !d.submitting && len(d.validateLocked()) == 0
}

// Submitted 将要提交的值：仅包含可见字段
func (d *Dialog[T]) Submitted() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submittedLocked(nil)
}

// submittedLocked 过滤隐藏字段，并替换已上传图片的地址
func (d *Dialog[T]) submittedLocked(uploaded map[string]string) Values {
	out := make(Values, len(d.cfg.Fields))
	for _, f := range d.cfg.Fields {
		if !f.ShowWhen.Eval(d.values) {
			continue
		}
		if url, ok := uploaded[f.Name]; ok {
			out[f.Name] = url
			continue
		}
		if f.Kind != KindArray {
			out[f.Name] = copyValue(d.values[f.Name])
			continue
		}
		src := items(d.values, f.Name)
		list := make([]map[string]any, 0, len(src))
		for i, item := range src {
			row := make(map[string]any, len(f.Fields))
			for _, sub := range f.Fields {
				if !sub.ShowWhen.Eval(item) {
					continue
				}
				if url, ok := uploaded[itemPath(f.Name, i, sub.Name)]; ok {
					row[sub.Name] = url
					continue
				}
				row[sub.Name] = copyValue(item[sub.Name])
			}
			list = append(list, row)
		}
		out[f.Name] = list
	}
	return out
}

// Submit 校验 -> 上传暂存图片 -> 提交
// 成功后清空本地状态并依次调用关闭与成功回调；失败时提示错误并保留已填写的值
func (d *Dialog[T]) Submit(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.uploading || d.submitting {
		d.mu.Unlock()
		return ErrBusy
	}
	errs := d.validateLocked()
	d.errors = errs
	if len(errs) > 0 {
		d.mu.Unlock()
		return errs
	}

	pending := make(map[string]StagedFile, len(d.staged))
	for path, file := range d.staged {
		if d.visibleLocked(path) {
			pending[path] = file
		}
	}
	d.uploading = len(pending) > 0
	d.submitting = true
	record := d.record
	d.mu.Unlock()

	uploaded, err := d.upload(ctx, pending)

	d.mu.Lock()
	d.uploading = false
	if err != nil {
		d.submitting = false
		d.mu.Unlock()
		d.notifier.Error(err.Error())
		return err
	}
	values := d.submittedLocked(uploaded)
	d.mu.Unlock()

	if d.cfg.Submit != nil {
		err = d.cfg.Submit(ctx, values, record)
	}

	d.mu.Lock()
	d.submitting = false
	if err != nil {
		d.mu.Unlock()
		d.notifier.Error(err.Error())
		return err
	}
	onClose, onSuccess := d.onClose, d.onSuccess
	d.resetLocked()
	d.mu.Unlock()

	if d.cfg.SuccessMessage != "" {
		d.notifier.Success(d.cfg.SuccessMessage)
	}
	if onClose != nil {
		onClose()
	}
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}

func (d *Dialog[T]) upload(ctx context.Context, pending map[string]StagedFile) (map[string]string, error) {
	if len(pending) == 0 {
		return nil, nil
	}
	if d.cfg.Uploader == nil {
		return nil, ErrNoUploader
	}
	uploaded := make(map[string]string, len(pending))
	for path, file := range pending {
		url, err := d.cfg.Uploader.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		if url == "" {
			return nil, fmt.Errorf("%s: 上传未返回地址", file.Name)
		}
		uploaded[path] = url
	}
	return uploaded, nil
}

// Widgets 渲染全部可见字段
func (d *Dialog[T]) Widgets() []Widget {
	d.mu.Lock()
	defer d.mu.Unlock()

	widgets := make([]Widget, 0, len(d.cfg.Fields))
	for _, f := range d.cfg.Fields {
		if !f.ShowWhen.Eval(d.values) {
			continue
		}
		in := d.renderInputLocked(f, f.Name)
		if f.Kind == KindArray {
			for i, item := range items(d.values, f.Name) {
				row := make([]Widget, 0, len(f.Fields))
				for _, sub := range f.Fields {
					if !sub.ShowWhen.Eval(item) {
						continue
					}
					row = append(row, d.renderLocked(sub, d.renderInputLocked(sub, itemPath(f.Name, i, sub.Name))))
				}
				in.Items = append(in.Items, row)
			}
			in.Value = nil
		}
		widgets = append(widgets, d.renderLocked(f, in))
	}
	return widgets
}

func (d *Dialog[T]) renderInputLocked(f FieldSpec, path string) RenderInput {
	v, _ := getValue(d.values, path)
	in := RenderInput{Path: path, Value: v, Error: d.errors[path]}
	if f.Kind == KindNumber {
		in.Text = d.numberTextLocked(path)
	}
	if file, ok := d.staged[path]; ok {
		in.Staged = &file
	}
	return in
}

func (d *Dialog[T]) renderLocked(f FieldSpec, in RenderInput) Widget {
	render, ok := d.registry.Lookup(f.Kind)
	if !ok {
		return Widget{Name: in.Path, Label: f.Label, Kind: f.Kind}
	}
	return render(f, in)
}

func (d *Dialog[T]) resetLocked() {
	d.open = false
	d.record = nil
	d.values = normalize(d.cfg.Fields, nil)
	d.numbers = make(map[string]string)
	d.lastValid = make(map[string]float64)
	d.staged = make(map[string]StagedFile)
	d.errors = FieldErrors{}
	d.uploading = false
	d.submitting = false
	d.onClose = nil
	d.onSuccess = nil
}
