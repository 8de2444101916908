package model

import (
	"errors"
	"time"
)

// UserRole 用户角色
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// Valid 判断角色是否合法
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserModel 后台用户数据模型
type UserModel struct {
	ID           string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Username     string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string     `gorm:"type:varchar(128);not null" json:"-"` // bcrypt
	FullName     string     `gorm:"type:varchar(128)" json:"fullName"`
	Role         UserRole   `gorm:"type:varchar(16);not null" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.ID == "" {
		return errors.New("user ID is required")
	}
	if um.Username == "" {
		return errors.New("username is required")
	}
	if um.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if !um.Role.Valid() {
		return errors.New("user role is invalid")
	}
	return nil
}
