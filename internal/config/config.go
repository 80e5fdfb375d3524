package config

import (
	"os"
	"sync"

	commonConfig "opsadmin/common/config"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	commonConfig.Config `yaml:",inline"`
	Table               TableConfig         `yaml:"table"`
	Upload              UploadConfig        `yaml:"upload"`
	Options             OptionsConfig       `yaml:"options"`
	Admin               AdminConfig         `yaml:"admin"`
	Roles               map[string][]string `yaml:"roles"` // 角色 -> 权限模式，覆盖内置角色
}

// TableConfig 表格默认值
type TableConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// UploadConfig 图片上传配置
type UploadConfig struct {
	Dir          string   `yaml:"dir"`
	URLPrefix    string   `yaml:"url_prefix"`
	MaxSize      int      `yaml:"max_size"` // MB
	AllowedTypes []string `yaml:"allowed_types"`
}

// OptionsConfig 下拉选项配置
type OptionsConfig struct {
	CacheTTL int `yaml:"cache_ttl"` // 秒，0 表示不缓存
	Limit    int `yaml:"limit"`
	Timeout  int `yaml:"timeout"` // 秒
}

// AdminConfig 初始管理员
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var (
	globalConfig *Config
	mu           sync.RWMutex
)

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	SetConfig(cfg)
	return cfg, nil
}

// Default 默认配置
func Default() *Config {
	cfg := &Config{
		Table: TableConfig{DefaultPageSize: 20, MaxPageSize: 200},
		Upload: UploadConfig{
			Dir:          "./uploads",
			URLPrefix:    "/uploads",
			MaxSize:      5,
			AllowedTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp"},
		},
		Options: OptionsConfig{CacheTTL: 60, Limit: 20, Timeout: 10},
		Admin:   AdminConfig{Username: "admin", Password: "admin123"},
	}
	cfg.Server.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Database = "opsadmin.db"
	cfg.SaToken.TokenName = "satoken"
	cfg.SaToken.Timeout = 86400
	cfg.SaToken.IsConcurrent = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Log.Output = "stdout"
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// SetConfig 设置全局配置，并同步到公共配置
func SetConfig(cfg *Config) {
	mu.Lock()
	globalConfig = cfg
	mu.Unlock()
	commonConfig.SetConfig(&cfg.Config)
}
