package service

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/repository/interfaces"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		tokenBlacklist: make(map[string]time.Time),
	}
}

// Register 注册新用户
func (s *UserService) Register(user *model.User, password string) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)

	if len(password) < 6 {
		return errors.New(errors.ErrWeakPassword, "Password must be at least 6 characters")
	}

	// 用户名和邮箱都不能重复
	existing, err := s.userRepo.FindByUsername(user.Username)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "User already exists")
	}

	existing, err = s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}
	return nil
}

// Login 用户登录
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "Invalid credentials")
	}

	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}
	return user, nil
}

// Logout 将令牌加入黑名单
func (s *UserService) Logout(token string) {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()

	s.tokenBlacklist[token] = time.Now()

	// 顺便清理过期的黑名单条目
	for t, added := range s.tokenBlacklist {
		if time.Since(added) > 7*24*time.Hour {
			delete(s.tokenBlacklist, t)
		}
	}
}

// IsTokenBlacklisted 检查令牌是否已被撤销
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	defer s.blacklistMutex.RUnlock()
	_, ok := s.tokenBlacklist[token]
	return ok
}
