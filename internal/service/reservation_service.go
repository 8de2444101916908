package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/metrics"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"gorm.io/gorm"
)

// ReservationService 预订服务接口
type ReservationService interface {
	Create(ctx context.Context, req *CreateReservationRequest) (*model.ReservationModel, error)
	Get(id string) (*model.ReservationModel, error)
	Update(ctx context.Context, id string, req *UpdateReservationRequest) (*model.ReservationModel, error)
	Delete(ctx context.Context, id string) error
	List(filter *repository.ReservationFilter) ([]*model.ReservationModel, int64, error)
	ChangeStatus(ctx context.Context, id string, to model.ReservationStatus) (*model.ReservationModel, error)
}

// CreateReservationRequest 创建预订请求
// @Description 创建预订的请求参数
type CreateReservationRequest struct {
	CustomerID     string    `json:"customerId" binding:"required"`
	VehicleID      string    `json:"vehicleId" binding:"required"`
	DriverID       string    `json:"driverId"`
	StartDate      time.Time `json:"startDate" binding:"required"`
	EndDate        time.Time `json:"endDate" binding:"required"`
	PickupLocation string    `json:"pickupLocation"`
	ReturnLocation string    `json:"returnLocation"`
	Notes          string    `json:"notes"`
}

// UpdateReservationRequest 更新预订请求
type UpdateReservationRequest struct {
	DriverID       *string    `json:"driverId"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	PickupLocation *string    `json:"pickupLocation"`
	ReturnLocation *string    `json:"returnLocation"`
	Notes          *string    `json:"notes"`
}

// reservationService 预订服务实现
type reservationService struct {
	repo        repository.ReservationRepository
	vehicleRepo repository.VehicleRepository
	auditSvc    AuditLogService
	notifier    Notifier
}

// NewReservationService 创建预订服务
func NewReservationService(repo repository.ReservationRepository, vehicleRepo repository.VehicleRepository, auditSvc AuditLogService, notifier Notifier) ReservationService {
	return &reservationService{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		auditSvc:    auditSvc,
		notifier:    notifier,
	}
}

// Create 创建预订
// 校验档期、车辆可用性,按车辆日费率计算总额,初始状态 pending
func (s *reservationService) Create(ctx context.Context, req *CreateReservationRequest) (*model.ReservationModel, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", utils.ErrInvalidDocument)
	}

	vehicle, err := s.vehicleRepo.FindByID(req.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", utils.ErrNotFound, req.VehicleID)
		}
		return nil, err
	}
	if vehicle.Status == model.VehicleRetired || vehicle.Status == model.VehicleMaintenance {
		return nil, fmt.Errorf("%w: vehicle %s is %s", utils.ErrVehicleConflict, vehicle.LicensePlate, vehicle.Status)
	}

	// 车辆档期冲突检查
	overlapping, err := s.repo.CountOverlapping(req.VehicleID, req.StartDate, req.EndDate, "")
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, utils.ErrVehicleConflict
	}

	days := rentalDays(req.StartDate, req.EndDate)
	now := time.Now()
	reservation := &model.ReservationModel{
		ID:             uuid.New().String(),
		Number:         generateReservationNumber(now),
		CustomerID:     req.CustomerID,
		VehicleID:      req.VehicleID,
		DriverID:       req.DriverID,
		Status:         model.ReservationPending,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		DailyRate:      vehicle.DailyRate,
		TotalAmount:    vehicle.DailyRate * float64(days),
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userIDFrom(ctx),
	}
	if err := reservation.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	metrics.RecordReservationCreated()
	s.audit(ctx, "create", reservation.ID, map[string]string{"number": reservation.Number})
	s.notify("reservation.created", reservation.ID)
	return reservation, nil
}

// Get 获取预订
func (s *reservationService) Get(id string) (*model.ReservationModel, error) {
	reservation, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// Update 更新预订
// 档期变更时重新检查冲突并重算总额;终态预订不可修改
func (s *reservationService) Update(ctx context.Context, id string, req *UpdateReservationRequest) (*model.ReservationModel, error) {
	reservation, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if reservation.Status.Terminal() {
		return nil, fmt.Errorf("%w: reservation is %s", utils.ErrInvalidTransition, reservation.Status)
	}

	if req.DriverID != nil {
		reservation.DriverID = *req.DriverID
	}
	if req.PickupLocation != nil {
		reservation.PickupLocation = *req.PickupLocation
	}
	if req.ReturnLocation != nil {
		reservation.ReturnLocation = *req.ReturnLocation
	}
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}

	datesChanged := false
	if req.StartDate != nil {
		reservation.StartDate = *req.StartDate
		datesChanged = true
	}
	if req.EndDate != nil {
		reservation.EndDate = *req.EndDate
		datesChanged = true
	}
	if datesChanged {
		if !reservation.EndDate.After(reservation.StartDate) {
			return nil, fmt.Errorf("%w: end date must be after start date", utils.ErrInvalidDocument)
		}
		overlapping, err := s.repo.CountOverlapping(reservation.VehicleID, reservation.StartDate, reservation.EndDate, reservation.ID)
		if err != nil {
			return nil, err
		}
		if overlapping > 0 {
			return nil, utils.ErrVehicleConflict
		}
		reservation.TotalAmount = reservation.DailyRate * float64(rentalDays(reservation.StartDate, reservation.EndDate))
	}

	reservation.UpdatedAt = time.Now()
	if err := s.repo.Save(reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	s.audit(ctx, "update", id, nil)
	s.notify("reservation.updated", id)
	return reservation, nil
}

// Delete 删除预订,仅允许删除 pending 或 cancelled 状态的
func (s *reservationService) Delete(ctx context.Context, id string) error {
	reservation, err := s.Get(id)
	if err != nil {
		return err
	}
	if reservation.Status != model.ReservationPending && reservation.Status != model.ReservationCancelled {
		return fmt.Errorf("%w: cannot delete reservation in status %s", utils.ErrInvalidTransition, reservation.Status)
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	s.audit(ctx, "delete", id, nil)
	s.notify("reservation.deleted", id)
	return nil
}

// List 按过滤器分页列出预订
func (s *reservationService) List(filter *repository.ReservationFilter) ([]*model.ReservationModel, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.repo.FindFiltered(filter)
}

// ChangeStatus 预订状态迁移
// 非法迁移返回校验错误;pickedUp/returned 时同步车辆状态
func (s *reservationService) ChangeStatus(ctx context.Context, id string, to model.ReservationStatus) (*model.ReservationModel, error) {
	reservation, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidTransition, to)
	}
	if !reservation.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", utils.ErrInvalidTransition, reservation.Status, to)
	}

	from := reservation.Status
	reservation.Status = to
	reservation.UpdatedAt = time.Now()
	if err := s.repo.Save(reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	// 车辆状态跟随预订流转
	if vehicle, err := s.vehicleRepo.FindByID(reservation.VehicleID); err == nil {
		switch to {
		case model.ReservationPickedUp:
			vehicle.Status = model.VehicleRented
		case model.ReservationReturned, model.ReservationCancelled:
			if vehicle.Status == model.VehicleRented {
				vehicle.Status = model.VehicleAvailable
			}
		}
		vehicle.UpdatedAt = time.Now()
		_ = s.vehicleRepo.Save(vehicle)
	}

	metrics.RecordReservationTransition(string(to))
	s.audit(ctx, "statusChange", id, map[string]string{"from": string(from), "to": string(to)})
	s.notify("reservation.updated", id)
	return reservation, nil
}

func (s *reservationService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "reservation", id, details)
}

func (s *reservationService) notify(event, id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event, map[string]string{"id": id})
}

// rentalDays 租期天数,不足一天按一天计
func rentalDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if end.Sub(start)%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// generateReservationNumber 生成业务单号,形如 R-20260828-a1b2c3
func generateReservationNumber(now time.Time) string {
	return fmt.Sprintf("R-%s-%s", now.Format("20060102"), uuid.New().String()[:6])
}
