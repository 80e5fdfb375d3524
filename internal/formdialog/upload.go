package formdialog

import (
	"context"
	"io"
)

// StagedFile 已选择但尚未上传的文件，只存在于对话框本地状态
type StagedFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ImageUploader 提交时把暂存文件上传并返回访问地址
type ImageUploader interface {
	Upload(ctx context.Context, file StagedFile) (string, error)
}

// UploaderFunc 函数适配器
type UploaderFunc func(ctx context.Context, file StagedFile) (string, error)

// Upload 实现 ImageUploader
func (f UploaderFunc) Upload(ctx context.Context, file StagedFile) (string, error) {
	return f(ctx, file)
}
