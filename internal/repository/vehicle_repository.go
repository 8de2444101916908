package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// VehicleFilter 车辆列表过滤器
type VehicleFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string // 车牌/品牌/型号模糊匹配
}

// VehicleRepository 车辆仓储接口
type VehicleRepository interface {
	Save(vehicle *model.VehicleModel) error
	FindByID(id string) (*model.VehicleModel, error)
	FindByPlate(plate string) (*model.VehicleModel, error)
	FindFiltered(filter *VehicleFilter) ([]*model.VehicleModel, int64, error)
	Delete(id string) error
}

// vehicleRepository 车辆仓储实现
type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建车辆仓储
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

// Save 保存车辆
func (r *vehicleRepository) Save(vehicle *model.VehicleModel) error {
	return r.db.Save(vehicle).Error
}

// FindByID 根据 ID 查找车辆
func (r *vehicleRepository) FindByID(id string) (*model.VehicleModel, error) {
	var vehicle model.VehicleModel
	if err := r.db.Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByPlate 根据车牌查找车辆
func (r *vehicleRepository) FindByPlate(plate string) (*model.VehicleModel, error) {
	var vehicle model.VehicleModel
	if err := r.db.Where("license_plate = ?", plate).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindFiltered 按过滤器分页查找车辆
func (r *vehicleRepository) FindFiltered(filter *VehicleFilter) ([]*model.VehicleModel, int64, error) {
	query := r.db.Model(&model.VehicleModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("license_plate LIKE ? OR brand LIKE ? OR model LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("license_plate ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var vehicles []*model.VehicleModel
	err := query.Find(&vehicles).Error
	return vehicles, total, err
}

// Delete 删除车辆
func (r *vehicleRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.VehicleModel{}).Error
}
