package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// CustomerFilter 客户列表过滤器
type CustomerFilter struct {
	Page     int
	PageSize int
	Search   string // 姓名/邮箱模糊匹配
}

// CustomerRepository 客户仓储接口
type CustomerRepository interface {
	Save(customer *model.CustomerModel) error
	FindByID(id string) (*model.CustomerModel, error)
	FindByEmail(email string) (*model.CustomerModel, error)
	FindFiltered(filter *CustomerFilter) ([]*model.CustomerModel, int64, error)
	Delete(id string) error
}

// customerRepository 客户仓储实现
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Save 保存客户
func (r *customerRepository) Save(customer *model.CustomerModel) error {
	return r.db.Save(customer).Error
}

// FindByID 根据 ID 查找客户
func (r *customerRepository) FindByID(id string) (*model.CustomerModel, error) {
	var customer model.CustomerModel
	if err := r.db.Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByEmail 根据邮箱查找客户
func (r *customerRepository) FindByEmail(email string) (*model.CustomerModel, error) {
	var customer model.CustomerModel
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindFiltered 按过滤器分页查找客户
func (r *customerRepository) FindFiltered(filter *CustomerFilter) ([]*model.CustomerModel, int64, error) {
	query := r.db.Model(&model.CustomerModel{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("last_name ASC, first_name ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var customers []*model.CustomerModel
	err := query.Find(&customers).Error
	return customers, total, err
}

// Delete 删除客户
func (r *customerRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.CustomerModel{}).Error
}
