package formdialog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"opsadmin/internal/datatable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type kycRecord struct {
	ID           uint
	Status       string
	RejectReason string
	Limit        float64
}

func kycFields() []FieldSpec {
	return []FieldSpec{
		{Name: "status", Label: "状态", Kind: KindSelect, Required: true, Options: []Option{
			{Label: "待审核", Value: "pending"}, {Label: "通过", Value: "approved"}, {Label: "拒绝", Value: "rejected"},
		}},
		{Name: "rejectReason", Label: "拒绝原因", Kind: KindText, Required: true, ShowWhen: Eq("status", "rejected")},
		{Name: "limit", Label: "额度", Kind: KindNumber, Rules: "gte=0"},
		{Name: "documents", Label: "证件", Kind: KindArray, Fields: []FieldSpec{
			{Name: "type", Label: "类型", Kind: KindText, Required: true},
			{Name: "number", Label: "号码", Kind: KindNumber},
			{Name: "expireAt", Label: "到期日", Kind: KindDate},
		}},
		{Name: "avatar", Label: "头像", Kind: KindImage},
	}
}

type submitSpy struct {
	calls  int
	values Values
	record *kycRecord
	err    error
}

func (s *submitSpy) submit(_ context.Context, values Values, record *kycRecord) error {
	s.calls++
	s.values = values
	s.record = record
	return s.err
}

func newKycDialog(t *testing.T, spy *submitSpy, uploader ImageUploader) (*Dialog[kycRecord], *Collector) {
	t.Helper()
	toasts := &Collector{}
	d, err := New(Config[kycRecord]{
		Title:  "KYC 审核",
		Fields: kycFields(),
		DeriveValues: func(r kycRecord) Values {
			return Values{"status": r.Status, "rejectReason": r.RejectReason, "limit": r.Limit}
		},
		Submit:         spy.submit,
		Uploader:       uploader,
		Notifier:       toasts,
		SuccessMessage: "保存成功",
	})
	require.NoError(t, err)
	return d, toasts
}

func stagedFile(name string) StagedFile {
	return StagedFile{Name: name, Size: 4, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("data")), nil
	}}
}

func TestInputNumber_TransitionalStates(t *testing.T) {
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, nil, nil)

	assert.Nil(t, d.InputNumber("limit", "-"))
	v, _ := d.Value("limit")
	assert.Nil(t, v)

	assert.Equal(t, float64(0), d.InputNumber("limit", "-0"))

	assert.Nil(t, d.InputNumber("limit", "-0."))
	v, _ = d.Value("limit")
	assert.Nil(t, v, "不完整的输入提交为 nil")
	assert.Equal(t, "-0.", d.NumberText("limit"))

	assert.Equal(t, -0.5, d.InputNumber("limit", "-0.5"))
	v, _ = d.Value("limit")
	assert.Equal(t, -0.5, v)
}

func TestBlurNumber_Reconciles(t *testing.T) {
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, nil, nil)

	d.InputNumber("limit", "12")
	d.InputNumber("limit", "12.")
	assert.Equal(t, float64(12), d.BlurNumber("limit"), "回退到最近一次有效值")
	assert.Equal(t, "12", d.NumberText("limit"))

	d2, _ := newKycDialog(t, &submitSpy{}, nil)
	d2.Open(nil, nil, nil)
	d2.InputNumber("limit", "-")
	assert.Nil(t, d2.BlurNumber("limit"), "没有有效值时丢弃")
	assert.Equal(t, "", d2.NumberText("limit"))
}

// TestInputNumber_Property 属性测试：任意按键序列下提交值只可能是 nil 或与输入一致的数字
func TestInputNumber_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d, err := New(Config[kycRecord]{Fields: kycFields(), Notifier: &Collector{}})
		if err != nil {
			rt.Fatal(err)
		}
		d.Open(nil, nil, nil)

		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"-", "0", "1", "5", ".", "9"}), 1, 12).Draw(rt, "keys")
		raw := ""
		for _, k := range keys {
			raw += k
			d.InputNumber("limit", raw)
			v, _ := d.Value("limit")
			want, ok := ParseNumber(raw)
			switch {
			case ok && v != want:
				rt.Fatalf("%q 应提交 %v，实际 %v", raw, want, v)
			case !ok && v != nil:
				rt.Fatalf("%q 为中间态却提交了 %v", raw, v)
			}
		}
	})
}

func TestSubmit_HiddenRequiredFieldDoesNotBlock(t *testing.T) {
	spy := &submitSpy{}
	d, _ := newKycDialog(t, spy, nil)
	d.Open(nil, nil, nil)

	d.SetValue("status", "approved")
	assert.False(t, d.Visible("rejectReason"))
	assert.True(t, d.CanSubmit())
	require.NoError(t, d.Submit(context.Background()))

	require.Equal(t, 1, spy.calls)
	_, present := spy.values["rejectReason"]
	assert.False(t, present, "隐藏字段不提交")
	assert.Equal(t, "approved", spy.values["status"])
}

func TestSubmit_VisibleRequiredFieldBlocks(t *testing.T) {
	spy := &submitSpy{}
	d, _ := newKycDialog(t, spy, nil)
	d.Open(nil, nil, nil)

	d.SetValue("status", "rejected")
	assert.True(t, d.Visible("rejectReason"))
	assert.False(t, d.CanSubmit())

	err := d.Submit(context.Background())
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "拒绝原因不能为空", fe["rejectReason"])
	assert.Equal(t, 0, spy.calls)

	d.SetValue("rejectReason", "证件模糊")
	assert.NotContains(t, d.Errors(), "rejectReason")
	require.NoError(t, d.Submit(context.Background()))
}

func TestValidate_Rules(t *testing.T) {
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, nil, nil)
	d.SetValue("status", "approved")
	d.InputNumber("limit", "-3")

	errs := d.Validate()
	assert.Equal(t, "额度不能小于0", errs["limit"])
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	spy := &submitSpy{err: errors.New("服务繁忙")}
	closed := false
	d, toasts := newKycDialog(t, spy, nil)
	d.Open(nil, func() { closed = true }, nil)
	d.SetValue("status", "approved")
	d.InputNumber("limit", "1.")

	err := d.Submit(context.Background())
	assert.EqualError(t, err, "服务繁忙")
	assert.True(t, d.IsOpen())
	assert.False(t, closed)
	assert.Equal(t, "approved", d.Values()["status"])
	assert.Equal(t, "1.", d.NumberText("limit"), "输入缓冲保留")

	last, ok := toasts.Last()
	require.True(t, ok)
	assert.Equal(t, Toast{Level: "error", Message: "服务繁忙"}, last)
}

func TestSubmit_UploadFailureAborts(t *testing.T) {
	spy := &submitSpy{}
	uploader := UploaderFunc(func(context.Context, StagedFile) (string, error) {
		return "", errors.New("文件超过 2MB")
	})
	d, toasts := newKycDialog(t, spy, uploader)
	d.Open(nil, nil, nil)
	d.SetValue("status", "approved")
	require.True(t, d.StageImage("avatar", stagedFile("a.png")))

	err := d.Submit(context.Background())
	assert.EqualError(t, err, "文件超过 2MB")
	assert.Equal(t, 0, spy.calls)
	assert.False(t, d.Busy())
	_, staged := d.Staged("avatar")
	assert.True(t, staged)

	last, _ := toasts.Last()
	assert.Equal(t, "文件超过 2MB", last.Message)
}

func TestSubmit_UploadSubstitutesURLAndResets(t *testing.T) {
	spy := &submitSpy{}
	var uploadedName string
	uploader := UploaderFunc(func(_ context.Context, f StagedFile) (string, error) {
		uploadedName = f.Name
		return "/uploads/abc.png", nil
	})
	d, toasts := newKycDialog(t, spy, uploader)

	var events []string
	d.Open(nil, func() { events = append(events, "close") }, func() { events = append(events, "success") })
	d.SetValue("status", "approved")
	d.StageImage("avatar", stagedFile("a.png"))
	d.InputNumber("limit", "100")

	require.NoError(t, d.Submit(context.Background()))
	assert.Equal(t, "a.png", uploadedName)
	assert.Equal(t, "/uploads/abc.png", spy.values["avatar"])
	assert.Equal(t, float64(100), spy.values["limit"])
	assert.Equal(t, []string{"close", "success"}, events)

	assert.False(t, d.IsOpen())
	_, staged := d.Staged("avatar")
	assert.False(t, staged, "成功后清空暂存文件")
	assert.Equal(t, "", d.NumberText("limit"))

	last, _ := toasts.Last()
	assert.Equal(t, "success", last.Level)
}

func TestSubmit_StagedImageWithoutUploader(t *testing.T) {
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, nil, nil)
	d.SetValue("status", "approved")
	d.StageImage("avatar", stagedFile("a.png"))
	assert.ErrorIs(t, d.Submit(context.Background()), ErrNoUploader)
}

func TestArrayItems(t *testing.T) {
	spy := &submitSpy{}
	d, _ := newKycDialog(t, spy, nil)
	d.Open(nil, nil, nil)
	d.SetValue("status", "approved")

	i, ok := d.AddItem("documents")
	require.True(t, ok)
	assert.Equal(t, 0, i)
	v, _ := d.Value("documents")
	assert.Equal(t, []map[string]any{{"type": "", "number": nil, "expireAt": nil}}, v)

	errs := d.Validate()
	assert.Equal(t, "类型不能为空", errs["documents.0.type"])

	d.SetValue("documents.0.type", "passport")
	d.InputNumber("documents.0.number", "88")
	d.AddItem("documents")
	require.True(t, d.RemoveItem("documents", 1))
	assert.False(t, d.RemoveItem("documents", 5))
	_, ok = d.AddItem("status")
	assert.False(t, ok)

	require.NoError(t, d.Submit(context.Background()))
	docs := spy.values["documents"].([]map[string]any)
	require.Len(t, docs, 1)
	assert.Equal(t, "passport", docs[0]["type"])
	assert.Equal(t, float64(88), docs[0]["number"])
}

func TestRemoveItem_ShiftsSiblingState(t *testing.T) {
	d, err := New(Config[kycRecord]{
		Title: "抵押物",
		Fields: []FieldSpec{
			{Name: "items", Label: "抵押物", Kind: KindArray, Fields: []FieldSpec{
				{Name: "value", Label: "估值", Kind: KindNumber},
				{Name: "photo", Label: "照片", Kind: KindImage},
			}},
		},
		Submit:   (&submitSpy{}).submit,
		Notifier: &Collector{},
	})
	require.NoError(t, err)
	d.Open(nil, nil, nil)

	for range 3 {
		d.AddItem("items")
	}
	d.InputNumber("items.0.value", "5")
	require.True(t, d.StageImage("items.0.photo", stagedFile("a.png")))
	d.InputNumber("items.1.value", "12")
	d.InputNumber("items.1.value", "12.")
	require.True(t, d.StageImage("items.1.photo", stagedFile("b.png")))
	require.True(t, d.StageImage("items.2.photo", stagedFile("c.png")))

	require.True(t, d.RemoveItem("items", 0))

	f, ok := d.Staged("items.0.photo")
	require.True(t, ok, "后续项的暂存图片随下标前移")
	assert.Equal(t, "b.png", f.Name)
	f, ok = d.Staged("items.1.photo")
	require.True(t, ok)
	assert.Equal(t, "c.png", f.Name)
	_, ok = d.Staged("items.2.photo")
	assert.False(t, ok)

	assert.Equal(t, "12.", d.NumberText("items.0.value"))
	assert.Equal(t, float64(12), d.BlurNumber("items.0.value"), "失焦回退到最近一次有效值")
	v, _ := d.Value("items.0.value")
	assert.Equal(t, float64(12), v)
}

func TestOpen_EditModeDerivesValues(t *testing.T) {
	spy := &submitSpy{}
	d, _ := newKycDialog(t, spy, nil)
	rec := &kycRecord{ID: 3, Status: "rejected", RejectReason: "过期", Limit: 50}

	d.Open(rec, nil, nil)
	assert.Equal(t, "过期", d.Values()["rejectReason"])
	assert.Equal(t, "50", d.NumberText("limit"))

	require.NoError(t, d.Submit(context.Background()))
	assert.Same(t, rec, spy.record)
}

func TestClose_ClearsTransientState(t *testing.T) {
	closed := 0
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, func() { closed++ }, nil)
	d.InputNumber("limit", "4.")
	d.StageImage("avatar", stagedFile("b.png"))

	d.Close()
	assert.Equal(t, 1, closed)
	assert.ErrorIs(t, d.Submit(context.Background()), ErrClosed)

	d.Open(nil, nil, nil)
	assert.Equal(t, "", d.NumberText("limit"))
	_, staged := d.Staged("avatar")
	assert.False(t, staged)
}

func TestWidgets_OmitHiddenFields(t *testing.T) {
	d, _ := newKycDialog(t, &submitSpy{}, nil)
	d.Open(nil, nil, nil)
	d.SetValue("status", "pending")
	d.AddItem("documents")

	names := func() []string {
		var out []string
		for _, w := range d.Widgets() {
			out = append(out, w.Name)
		}
		return out
	}
	assert.Equal(t, []string{"status", "limit", "documents", "avatar"}, names())

	d.SetValue("status", "rejected")
	assert.Equal(t, []string{"status", "rejectReason", "limit", "documents", "avatar"}, names())

	for _, w := range d.Widgets() {
		if w.Name == "documents" {
			require.Len(t, w.Items, 1)
			assert.Equal(t, "documents.0.number", w.Items[0][1].Name)
			assert.Equal(t, "input-number", w.Items[0][1].Component)
		}
	}
}

func TestNew_UnknownKindFails(t *testing.T) {
	fields := []FieldSpec{{Name: "risk", Label: "风险", Kind: "slider"}}
	_, err := New(Config[kycRecord]{Fields: fields})
	assert.ErrorContains(t, err, "unknown kind")

	reg := DefaultRegistry()
	reg.Register("slider", func(f FieldSpec, in RenderInput) Widget {
		return Widget{Name: in.Path, Kind: f.Kind, Component: "slider"}
	})
	_, err = New(Config[kycRecord]{Fields: fields, Registry: reg})
	assert.NoError(t, err)

	_, err = New(Config[kycRecord]{Fields: []FieldSpec{{Name: "x", Kind: KindText, ShowWhen: When("a ==")}}})
	assert.Error(t, err)
}

func TestDialog_BoundToTableSlots(t *testing.T) {
	spy := &submitSpy{}
	d, _ := newKycDialog(t, spy, nil)

	refreshed := 0
	slots := datatable.NewDialogs[kycRecord](func() { refreshed++ })
	slots.Register(datatable.DialogUpdate, d)

	slots.OpenUpdate(kycRecord{ID: 8, Status: "approved"})
	require.True(t, d.IsOpen())
	assert.Equal(t, uint(8), d.Record().ID)

	require.NoError(t, d.Submit(context.Background()))
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, datatable.DialogNone, slots.State().Kind())
	assert.False(t, d.IsOpen())

	slots.OpenUpdate(kycRecord{ID: 9})
	slots.Close()
	assert.False(t, d.IsOpen())
	assert.Equal(t, 1, refreshed)
}
