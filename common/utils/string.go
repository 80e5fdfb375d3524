package utils

import (
	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/google/uuid"
)

// GenerateUUID 生成UUID
func GenerateUUID() string {
	return uuid.NewString()
}

// MD5 计算MD5
func MD5(s string) string {
	return cryptor.Md5String(s)
}
