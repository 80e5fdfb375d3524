package service

import (
	"context"
	"errors"
	"time"

	"opsadmin/common/logger"
	"opsadmin/common/types"
	"opsadmin/common/utils"
	"opsadmin/internal/auth"
	"opsadmin/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrBadCredentials 用户名或密码错误
	ErrBadCredentials = errors.New("用户名或密码错误")
	// ErrUserDisabled 用户已被禁用
	ErrUserDisabled = errors.New("用户已被禁用")
)

// UserService 管理员服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建管理员服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Login 校验密码并签发令牌
func (s *UserService) Login(ctx context.Context, username, password, ip string) (*model.AdminUser, string, error) {
	var user model.AdminUser
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if utils.MD5(password) != user.Password {
		return nil, "", ErrBadCredentials
	}
	if user.Status != 1 {
		return nil, "", ErrUserDisabled
	}

	token, err := auth.Login(user.ID)
	if err != nil {
		return nil, "", errors.New("登录失败")
	}

	now := types.NewDateTime(time.Now())
	user.LastLoginAt = &now
	user.LastLoginIP = ip
	if err := s.db.WithContext(ctx).Model(&user).Select("last_login_at", "last_login_ip").Updates(&user).Error; err != nil {
		logger.Warn("更新登录信息失败", zap.Uint("userId", user.ID), zap.Error(err))
	}
	return &user, token, nil
}

// Logout 注销令牌
func (s *UserService) Logout(token string) error {
	return auth.LogoutByToken(token)
}

// Get 获取管理员
func (s *UserService) Get(ctx context.Context, id uint) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureAdmin 不存在时创建初始管理员，返回是否新建
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	user := &model.AdminUser{
		Username: username,
		Password: utils.MD5(password),
		Nickname: username,
		Role:     model.RoleAdmin,
		Status:   1,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return false, err
	}
	return true, nil
}
