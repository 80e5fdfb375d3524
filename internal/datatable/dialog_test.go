package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDialog struct {
	props []DialogProps[loanRow]
}

func (d *recordingDialog) Bind(p DialogProps[loanRow]) {
	d.props = append(d.props, p)
}

func (d *recordingDialog) last() DialogProps[loanRow] {
	return d.props[len(d.props)-1]
}

func TestDialogs_OnlyOneOpen(t *testing.T) {
	d := NewDialogs[loanRow](nil)

	d.OpenUpdate(loanRow{Base: Base{ID: 1}})
	d.OpenUpdate(loanRow{Base: Base{ID: 2}})
	rec, ok := d.State().Record()
	require.True(t, ok)
	assert.Equal(t, uint(2), rec.ID, "新目标替换当前目标")

	d.OpenDelete(loanRow{Base: Base{ID: 3}})
	assert.Equal(t, DialogDelete, d.State().Kind())
	assert.False(t, d.State().IsOpen(DialogUpdate))

	d.OpenCreate()
	_, ok = d.State().Record()
	assert.False(t, ok, "新建没有目标行")

	d.Close()
	assert.Equal(t, DialogNone, d.State().Kind())
	assert.False(t, d.State().IsOpen(DialogNone))
}

func TestDialogs_SucceedClosesAndRefreshes(t *testing.T) {
	refreshed := 0
	d := NewDialogs[loanRow](func() { refreshed++ })

	d.OpenCreate()
	d.Succeed()

	assert.Equal(t, 1, refreshed)
	assert.Equal(t, DialogNone, d.State().Kind())

	d.Close()
	assert.Equal(t, 1, refreshed, "关闭不触发刷新")
}

func TestDialogs_PropsPushedToBoundDialogs(t *testing.T) {
	refreshed := false
	d := NewDialogs[loanRow](func() { refreshed = true })
	edit := &recordingDialog{}
	detail := &recordingDialog{}
	d.Register(DialogUpdate, edit)
	d.Register(DialogDetail, detail)

	d.OpenUpdate(loanRow{Base: Base{ID: 9}, Status: "active"})
	require.Len(t, edit.props, 1)
	p := edit.last()
	assert.True(t, p.Open)
	require.NotNil(t, p.Data)
	assert.Equal(t, uint(9), p.Data.ID)
	assert.Empty(t, detail.props)

	d.OpenDetail(loanRow{Base: Base{ID: 9}})
	assert.False(t, edit.last().Open, "切换目标时旧对话框收到关闭")
	assert.Nil(t, edit.last().Data)
	assert.True(t, detail.last().Open)

	detail.last().OnSuccess()
	assert.True(t, refreshed)
	assert.False(t, detail.last().Open)

	props := d.Props(DialogCreate)
	assert.False(t, props.Open)
	assert.NotNil(t, props.OnClose)
}

func TestDialogKind_String(t *testing.T) {
	assert.Equal(t, "create", DialogCreate.String())
	assert.Equal(t, "none", DialogNone.String())
}
