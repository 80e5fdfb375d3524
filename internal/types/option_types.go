package types

import "opsadmin/internal/formdialog"

// OptionsResponse 下拉选项
type OptionsResponse struct {
	Source  string              `json:"source"`
	Search  string              `json:"search"`
	Options []formdialog.Option `json:"options"`
	Cached  bool                `json:"cached"`
}

// UploadResponse 上传结果
type UploadResponse struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}
