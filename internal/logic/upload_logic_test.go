package logic

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"opsadmin/internal/config"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/model"
	"opsadmin/internal/svc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedPNG(name, body string) formdialog.StagedFile {
	return formdialog.StagedFile{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestFileUploader_Check(t *testing.T) {
	up := NewFileUploader(config.UploadConfig{MaxSize: 1, AllowedTypes: []string{"image/png"}})

	assert.NoError(t, up.Check(stagedPNG("a.png", "x")))

	big := stagedPNG("a.png", "x")
	big.Size = 2 << 20
	assert.ErrorIs(t, up.Check(big), ErrFileTooLarge)

	pdf := stagedPNG("a.pdf", "x")
	pdf.ContentType = "application/pdf"
	assert.ErrorIs(t, up.Check(pdf), ErrFileType)
}

func TestFileUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	up := NewFileUploader(config.UploadConfig{Dir: dir, URLPrefix: "/uploads/", MaxSize: 1})

	url, err := up.Upload(context.Background(), stagedPNG("Logo.PNG", "png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = up.Upload(context.Background(), formdialog.StagedFile{Name: "x.png"})
	assert.Error(t, err)
}

func TestEngine_SubmitUploadsStagedImage(t *testing.T) {
	db := openTestDB(t)
	cfg := config.Default()
	cfg.Upload.Dir = t.TempDir()
	res := mustResource(t, NewRegistry(svc.New(cfg, db, nil)), "coins")
	ctx := context.Background()

	values := formdialog.Values{"symbol": "USDT", "name": "Tether", "chain": "TRON", "enabled": false}
	out, err := res.Submit(ctx, SubmitRequest{
		Values: values,
		Files:  map[string]formdialog.StagedFile{"icon": stagedPNG("usdt.png", "icon")},
	})
	require.NoError(t, err)
	coin := out.Record.(*model.Coin)
	assert.True(t, strings.HasPrefix(coin.Icon, "/uploads/"), coin.Icon)
	assert.False(t, coin.Enabled)
	assert.Equal(t, 8, coin.Decimals)

	bad := stagedPNG("evil.svg", "<svg/>")
	bad.ContentType = "image/svg+xml"
	_, err = res.Submit(ctx, SubmitRequest{
		Values: formdialog.Values{"symbol": "BTC", "name": "Bitcoin", "chain": "BTC"},
		Files:  map[string]formdialog.StagedFile{"icon": bad},
	})
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.True(t, errors.Is(err, ErrFileType))
	require.NotEmpty(t, serr.Detail.Toasts)
	assert.Equal(t, "error", serr.Detail.Toasts[0].Level)
	assert.Equal(t, "BTC", serr.Detail.Values["symbol"], "上传失败保留已填写的值")

	var count int64
	require.NoError(t, db.Model(&model.Coin{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
