package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// DriverFilter 驾驶员列表查询过滤器
type DriverFilter struct {
	Page       int
	PageSize   int
	CustomerID string
	Search     string // 姓名模糊匹配
}

// DriverRepository 驾驶员仓储接口
type DriverRepository interface {
	Save(driver *model.DriverModel) error
	FindByID(id string) (*model.DriverModel, error)
	FindByCustomer(customerID string) ([]*model.DriverModel, error)
	FindFiltered(filter *DriverFilter) ([]*model.DriverModel, int64, error)
	Delete(id string) error
}

// driverRepository 驾驶员仓储实现
type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository 创建驾驶员仓储
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

// Save 保存驾驶员
func (r *driverRepository) Save(driver *model.DriverModel) error {
	return r.db.Save(driver).Error
}

// FindByID 根据 ID 查找驾驶员
func (r *driverRepository) FindByID(id string) (*model.DriverModel, error) {
	var driver model.DriverModel
	if err := r.db.Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// FindByCustomer 查找客户名下的全部驾驶员
func (r *driverRepository) FindByCustomer(customerID string) ([]*model.DriverModel, error) {
	var drivers []*model.DriverModel
	err := r.db.Where("customer_id = ?", customerID).Order("created_at ASC").Find(&drivers).Error
	return drivers, err
}

// FindFiltered 按过滤器分页查找驾驶员
func (r *driverRepository) FindFiltered(filter *DriverFilter) ([]*model.DriverModel, int64, error) {
	query := r.db.Model(&model.DriverModel{})

	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("last_name ASC, first_name ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var drivers []*model.DriverModel
	err := query.Find(&drivers).Error
	return drivers, total, err
}

// Delete 删除驾驶员
func (r *driverRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.DriverModel{}).Error
}
