package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"gorm.io/gorm"
)

// VehicleService 车辆服务接口
type VehicleService interface {
	Create(ctx context.Context, req *VehicleRequest) (*model.VehicleModel, error)
	Get(id string) (*model.VehicleModel, error)
	Update(ctx context.Context, id string, req *VehicleRequest) (*model.VehicleModel, error)
	Delete(ctx context.Context, id string) error
	List(filter *repository.VehicleFilter) ([]*model.VehicleModel, int64, error)
}

// VehicleRequest 创建/更新车辆请求
// @Description 车辆信息
type VehicleRequest struct {
	LicensePlate string  `json:"licensePlate" example:"AB-123-C" binding:"required"`
	Brand        string  `json:"brand" example:"Toyota" binding:"required"`
	Model        string  `json:"model" example:"Corolla" binding:"required"`
	Year         int     `json:"year" example:"2022"`
	Color        string  `json:"color"`
	VehicleType  string  `json:"vehicleType" example:"sedan"`
	FuelType     string  `json:"fuelType" example:"petrol"`
	Mileage      int     `json:"mileage"`
	Status       string  `json:"status" example:"available"`
	DailyRate    float64 `json:"dailyRate" example:"49.5"`
}

// vehicleService 车辆服务实现
type vehicleService struct {
	repo     repository.VehicleRepository
	auditSvc AuditLogService
}

// NewVehicleService 创建车辆服务
func NewVehicleService(repo repository.VehicleRepository, auditSvc AuditLogService) VehicleService {
	return &vehicleService{repo: repo, auditSvc: auditSvc}
}

// Create 登记车辆,车牌唯一
func (s *vehicleService) Create(ctx context.Context, req *VehicleRequest) (*model.VehicleModel, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if err := utils.ValidateLicensePlate(plate); err != nil {
		return nil, err
	}
	if existing, err := s.repo.FindByPlate(plate); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: license plate %s already registered", utils.ErrVehicleConflict, plate)
	}

	status := model.VehicleStatus(req.Status)
	if req.Status == "" {
		status = model.VehicleAvailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid vehicle status %q", req.Status)
	}

	now := time.Now()
	vehicle := &model.VehicleModel{
		ID:           uuid.New().String(),
		LicensePlate: plate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		VehicleType:  req.VehicleType,
		FuelType:     req.FuelType,
		Mileage:      req.Mileage,
		Status:       status,
		DailyRate:    req.DailyRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(vehicle); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}

	s.audit(ctx, "create", vehicle.ID, map[string]string{"licensePlate": plate})
	return vehicle, nil
}

// Get 获取车辆
func (s *vehicleService) Get(id string) (*model.VehicleModel, error) {
	vehicle, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// Update 更新车辆信息
func (s *vehicleService) Update(ctx context.Context, id string, req *VehicleRequest) (*model.VehicleModel, error) {
	vehicle, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.LicensePlate != "" {
		plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
		if err := utils.ValidateLicensePlate(plate); err != nil {
			return nil, err
		}
		if existing, err := s.repo.FindByPlate(plate); err == nil && existing.ID != id {
			return nil, fmt.Errorf("%w: license plate %s already registered", utils.ErrVehicleConflict, plate)
		}
		vehicle.LicensePlate = plate
	}
	if req.Brand != "" {
		vehicle.Brand = req.Brand
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}
	if req.Color != "" {
		vehicle.Color = req.Color
	}
	if req.VehicleType != "" {
		vehicle.VehicleType = req.VehicleType
	}
	if req.FuelType != "" {
		vehicle.FuelType = req.FuelType
	}
	if req.Mileage != 0 {
		vehicle.Mileage = req.Mileage
	}
	if req.Status != "" {
		status := model.VehicleStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid vehicle status %q", req.Status)
		}
		vehicle.Status = status
	}
	if req.DailyRate != 0 {
		vehicle.DailyRate = req.DailyRate
	}

	vehicle.UpdatedAt = time.Now()
	if err := s.repo.Save(vehicle); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}

	s.audit(ctx, "update", id, nil)
	return vehicle, nil
}

// Delete 删除车辆
func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	s.audit(ctx, "delete", id, nil)
	return nil
}

// List 按过滤器分页列出车辆
func (s *vehicleService) List(filter *repository.VehicleFilter) ([]*model.VehicleModel, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.repo.FindFiltered(filter)
}

func (s *vehicleService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "vehicle", id, details)
}
