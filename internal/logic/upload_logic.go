package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"opsadmin/common/utils"
	"opsadmin/internal/config"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/gofiber/fiber/v2"
)

var (
	// ErrFileTooLarge 文件超过大小限制
	ErrFileTooLarge = errors.New("文件大小超出限制")
	// ErrFileType 不支持的文件类型
	ErrFileType = errors.New("不支持的文件类型")
)

// FileUploader 保存到本地目录的图片上传
type FileUploader struct {
	cfg config.UploadConfig
}

// NewFileUploader 创建本地上传
func NewFileUploader(cfg config.UploadConfig) *FileUploader {
	return &FileUploader{cfg: cfg}
}

// Check 校验大小与类型
func (u *FileUploader) Check(file formdialog.StagedFile) error {
	if u.cfg.MaxSize > 0 && file.Size > int64(u.cfg.MaxSize)<<20 {
		return fmt.Errorf("%w: 最大 %dMB", ErrFileTooLarge, u.cfg.MaxSize)
	}
	if len(u.cfg.AllowedTypes) > 0 && !slice.Contain(u.cfg.AllowedTypes, file.ContentType) {
		return fmt.Errorf("%w: %s", ErrFileType, file.ContentType)
	}
	return nil
}

// Upload 实现 formdialog.ImageUploader
func (u *FileUploader) Upload(ctx context.Context, file formdialog.StagedFile) (string, error) {
	if err := u.Check(file); err != nil {
		return "", err
	}
	if file.Open == nil {
		return "", fmt.Errorf("%s: 文件不可读取", file.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.cfg.Dir, 0o755); err != nil {
		return "", err
	}
	name := utils.GenerateUUID() + strings.ToLower(filepath.Ext(file.Name))

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(u.cfg.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return strings.TrimRight(u.cfg.URLPrefix, "/") + "/" + name, nil
}

// StagedFromHeader multipart 文件转换为暂存文件
func StagedFromHeader(fh *multipart.FileHeader) formdialog.StagedFile {
	return formdialog.StagedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// UploadLogic 独立图片上传
type UploadLogic struct {
	ctx   context.Context
	fiber *fiber.Ctx
}

// NewUploadLogic 创建上传逻辑
func NewUploadLogic(c *fiber.Ctx) *UploadLogic {
	return &UploadLogic{ctx: c.UserContext(), fiber: c}
}

// Upload 上传单个图片
func (l *UploadLogic) Upload(fh *multipart.FileHeader) (*types.UploadResponse, error) {
	file := StagedFromHeader(fh)
	url, err := NewFileUploader(svc.Ctx.Config.Upload).Upload(l.ctx, file)
	if err != nil {
		return nil, err
	}
	return &types.UploadResponse{URL: url, Name: file.Name, Size: file.Size, ContentType: file.ContentType}, nil
}
