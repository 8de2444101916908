package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(user *model.UserModel) error
	FindByID(id string) (*model.UserModel, error)
	FindByUsername(username string) (*model.UserModel, error)
	FindAll() ([]*model.UserModel, error)
	Delete(id string) error
}

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Save 保存用户
func (r *userRepository) Save(user *model.UserModel) error {
	return r.db.Save(user).Error
}

// FindByID 根据 ID 查找用户
func (r *userRepository) FindByID(id string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll 查找所有用户
func (r *userRepository) FindAll() ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Order("username ASC").Find(&users).Error
	return users, err
}

// Delete 删除用户
func (r *userRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.UserModel{}).Error
}
