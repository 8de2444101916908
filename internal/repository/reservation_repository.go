package repository

import (
	"time"

	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// ReservationFilter 预订列表过滤器
type ReservationFilter struct {
	Page       int
	PageSize   int
	Status     string
	VehicleID  string
	CustomerID string
	From       *time.Time
	To         *time.Time
	SortBy     string
	Order      string // asc/desc
}

// ReservationRepository 预订仓储接口
type ReservationRepository interface {
	Save(reservation *model.ReservationModel) error
	FindByID(id string) (*model.ReservationModel, error)
	FindFiltered(filter *ReservationFilter) ([]*model.ReservationModel, int64, error)
	CountOverlapping(vehicleID string, start, end time.Time, excludeID string) (int64, error)
	Delete(id string) error
}

// reservationRepository 预订仓储实现
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Save 保存预订
func (r *reservationRepository) Save(reservation *model.ReservationModel) error {
	return r.db.Save(reservation).Error
}

// FindByID 根据 ID 查找预订
func (r *reservationRepository) FindByID(id string) (*model.ReservationModel, error) {
	var reservation model.ReservationModel
	if err := r.db.Where("id = ?", id).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindFiltered 按过滤器分页查找预订
func (r *reservationRepository) FindFiltered(filter *ReservationFilter) ([]*model.ReservationModel, int64, error) {
	query := r.db.Model(&model.ReservationModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "start_date"
	}
	order := filter.Order
	if order != "asc" {
		order = "desc"
	}
	query = query.Order(sortBy + " " + order)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var reservations []*model.ReservationModel
	err := query.Find(&reservations).Error
	return reservations, total, err
}

// CountOverlapping 统计与给定档期重叠的未取消预订
// 用于车辆重复预订检查;excludeID 非空时排除自身（更新场景）
func (r *reservationRepository) CountOverlapping(vehicleID string, start, end time.Time, excludeID string) (int64, error) {
	query := r.db.Model(&model.ReservationModel{}).
		Where("vehicle_id = ?", vehicleID).
		Where("status NOT IN ?", []string{string(model.ReservationCancelled), string(model.ReservationCompleted)}).
		Where("start_date < ? AND end_date > ?", end, start)

	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Delete 删除预订
func (r *reservationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.ReservationModel{}).Error
}
