package service

import (
	"fmt"
	"time"

	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// ReportService 运营报表服务接口
// 纯聚合查询,不走仓储层
type ReportService interface {
	RevenueByMonth(from, to time.Time) ([]*RevenueBucket, error)
	StatusBreakdown() ([]*StatusCount, error)
	VehicleUtilization(from, to time.Time) ([]*VehicleUtilization, error)
	TopCustomers(limit int) ([]*CustomerRanking, error)
}

// RevenueBucket 月度营收
type RevenueBucket struct {
	Month   string  `json:"month" example:"2026-08"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StatusCount 预订状态分布
type StatusCount struct {
	Status model.ReservationStatus `json:"status"`
	Count  int64                   `json:"count"`
}

// VehicleUtilization 车辆出租率
type VehicleUtilization struct {
	VehicleID    string  `json:"vehicleId"`
	LicensePlate string  `json:"licensePlate"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	RentedDays   int64   `json:"rentedDays"`
	Utilization  float64 `json:"utilization"` // 0-1,区间内出租天数占比
}

// CustomerRanking 客户排行
type CustomerRanking struct {
	CustomerID   string  `json:"customerId"`
	CustomerName string  `json:"customerName"`
	Reservations int64   `json:"reservations"`
	TotalSpent   float64 `json:"totalSpent"`
}

// reportService 报表服务实现
type reportService struct {
	db *gorm.DB
}

// NewReportService 创建报表服务
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// revenueStatuses 计入营收的预订状态
var revenueStatuses = []model.ReservationStatus{
	model.ReservationPickedUp,
	model.ReservationReturned,
	model.ReservationCompleted,
}

// RevenueByMonth 按月统计营收
// 按取车日期归属月份,只统计已实际成行的预订
func (s *reportService) RevenueByMonth(from, to time.Time) ([]*RevenueBucket, error) {
	var buckets []*RevenueBucket
	// strftime 在 SQLite 与 PostgreSQL 的 to_char 不通用,这里用跨库的前缀截取
	err := s.db.Model(&model.ReservationModel{}).
		Select("substr(CAST(start_date AS TEXT), 1, 7) AS month, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("status IN ?", revenueStatuses).
		Where("start_date >= ? AND start_date < ?", from, to).
		Group("month").
		Order("month ASC").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return buckets, nil
}

// StatusBreakdown 预订状态分布
func (s *reportService) StatusBreakdown() ([]*StatusCount, error) {
	var counts []*StatusCount
	err := s.db.Model(&model.ReservationModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	return counts, nil
}

// VehicleUtilization 统计区间内每辆车的出租天数与出租率
// 只按整天计,取预订区间与查询区间的重叠部分
func (s *reportService) VehicleUtilization(from, to time.Time) ([]*VehicleUtilization, error) {
	span := to.Sub(from).Hours() / 24
	if span <= 0 {
		return nil, fmt.Errorf("invalid report range: from must be before to")
	}

	var vehicles []*model.VehicleModel
	if err := s.db.Order("license_plate ASC").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	var rows []vehicleRentedDays
	err := s.db.Model(&model.ReservationModel{}).
		Select("vehicle_id, COALESCE(SUM(CAST((julianday(MIN(end_date, ?)) - julianday(MAX(start_date, ?))) AS INTEGER)), 0) AS days",
			to, from).
		Where("status IN ?", revenueStatuses).
		Where("start_date < ? AND end_date > ?", to, from).
		Group("vehicle_id").
		Scan(&rows).Error
	if err != nil {
		// julianday 只有 SQLite 支持,PostgreSQL 落回逐行计算
		rows, err = s.utilizationFallback(from, to)
		if err != nil {
			return nil, err
		}
	}

	daysByVehicle := make(map[string]int64, len(rows))
	for _, row := range rows {
		daysByVehicle[row.VehicleID] = row.Days
	}

	result := make([]*VehicleUtilization, 0, len(vehicles))
	for _, v := range vehicles {
		days := daysByVehicle[v.ID]
		result = append(result, &VehicleUtilization{
			VehicleID:    v.ID,
			LicensePlate: v.LicensePlate,
			Brand:        v.Brand,
			Model:        v.Model,
			RentedDays:   days,
			Utilization:  float64(days) / span,
		})
	}
	return result, nil
}

// vehicleRentedDays 车辆出租天数中间结果
type vehicleRentedDays struct {
	VehicleID string
	Days      int64
}

// utilizationFallback 在内存中计算重叠天数
func (s *reportService) utilizationFallback(from, to time.Time) ([]vehicleRentedDays, error) {
	var reservations []*model.ReservationModel
	err := s.db.
		Where("status IN ?", revenueStatuses).
		Where("start_date < ? AND end_date > ?", to, from).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	days := make(map[string]int64)
	for _, r := range reservations {
		start := r.StartDate
		if start.Before(from) {
			start = from
		}
		end := r.EndDate
		if end.After(to) {
			end = to
		}
		days[r.VehicleID] += int64(end.Sub(start).Hours() / 24)
	}

	rows := make([]vehicleRentedDays, 0, len(days))
	for id, d := range days {
		rows = append(rows, vehicleRentedDays{VehicleID: id, Days: d})
	}
	return rows, nil
}

// TopCustomers 按消费额排序的客户排行
func (s *reportService) TopCustomers(limit int) ([]*CustomerRanking, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rankings []*CustomerRanking
	err := s.db.Model(&model.ReservationModel{}).
		Select("reservations.customer_id AS customer_id, customers.first_name || ' ' || customers.last_name AS customer_name, COUNT(*) AS reservations, COALESCE(SUM(reservations.total_amount), 0) AS total_spent").
		Joins("JOIN customers ON customers.id = reservations.customer_id").
		Where("reservations.status IN ?", revenueStatuses).
		Group("reservations.customer_id, customers.first_name, customers.last_name").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rankings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customers: %w", err)
	}
	return rankings, nil
}
