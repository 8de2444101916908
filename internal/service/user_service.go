package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/auth"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"gorm.io/gorm"
)

// UserService 后台用户服务接口
type UserService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Create(ctx context.Context, req *CreateUserRequest) (*UserDetail, error)
	Get(id string) (*UserDetail, error)
	List() ([]*UserDetail, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest) (*UserDetail, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Delete(ctx context.Context, id string) error
	EnsureAdmin(username, password string) error
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *UserDetail `json:"user"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string         `json:"username" binding:"required"`
	Password string         `json:"password" binding:"required,min=8"`
	Email    string         `json:"email"`
	FullName string         `json:"fullName"`
	Role     model.UserRole `json:"role" binding:"required"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Email    *string         `json:"email"`
	FullName *string         `json:"fullName"`
	Role     *model.UserRole `json:"role"`
	Active   *bool           `json:"active"`
}

// UserDetail 用户信息,不含密码哈希
type UserDetail struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	FullName    string         `json:"fullName"`
	Role        model.UserRole `json:"role"`
	Active      bool           `json:"active"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// userService 用户服务实现
type userService struct {
	repo     repository.UserRepository
	auditSvc AuditLogService
	tokens   *auth.TokenManager
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, auditSvc AuditLogService, tokens *auth.TokenManager) UserService {
	return &userService{repo: repo, auditSvc: auditSvc, tokens: tokens}
}

// Login 用户登录
// 用户名不存在和密码错误返回同一个错误,避免泄露账户是否存在
func (s *userService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, utils.ErrUnauthorized
	}
	if !utils.VerifyPassword(password, user.PasswordHash) {
		return nil, utils.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}

	s.audit(ctx, "login", user.ID, nil)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: toUserDetail(user)}, nil
}

// Create 创建用户
func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*UserDetail, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("invalid user role: %s", req.Role)
	}
	if req.Email != "" {
		if err := utils.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if _, err := s.repo.FindByUsername(req.Username); err == nil {
		return nil, fmt.Errorf("username %s is already taken", req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.UserModel{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.audit(ctx, "create", user.ID, map[string]string{"username": user.Username, "role": string(user.Role)})
	return toUserDetail(user), nil
}

// Get 获取用户
func (s *userService) Get(id string) (*UserDetail, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return toUserDetail(user), nil
}

// List 列出所有用户
func (s *userService) List() ([]*UserDetail, error) {
	users, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	details := make([]*UserDetail, 0, len(users))
	for _, u := range users {
		details = append(details, toUserDetail(u))
	}
	return details, nil
}

// Update 更新用户信息
func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*UserDetail, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if *req.Email != "" {
			if err := utils.ValidateEmail(*req.Email); err != nil {
				return nil, err
			}
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("invalid user role: %s", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.audit(ctx, "update", id, nil)
	return toUserDetail(user), nil
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.find(id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(oldPassword, user.PasswordHash) {
		return utils.ErrUnauthorized
	}
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := s.repo.Save(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.audit(ctx, "change_password", id, nil)
	return nil
}

// Delete 删除用户
func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.audit(ctx, "delete", id, nil)
	return nil
}

// EnsureAdmin 保证初始管理员存在
// 迁移命令调用,已存在时不做任何修改
func (s *userService) EnsureAdmin(username, password string) error {
	if _, err := s.repo.FindByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	admin := &model.UserModel{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Save(admin)
}

func (s *userService) find(id string) (*model.UserModel, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func toUserDetail(u *model.UserModel) *UserDetail {
	return &UserDetail{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (s *userService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "user", id, details)
}
