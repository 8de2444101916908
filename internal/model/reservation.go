package model

import (
	"errors"
	"time"
)

// ReservationStatus 预订状态
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPickedUp  ReservationStatus = "pickedUp"
	ReservationReturned  ReservationStatus = "returned"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// reservationTransitions 预订状态机
// pending → confirmed → pickedUp → returned → completed,
// 非终态均可取消
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationPickedUp, ReservationCancelled},
	ReservationPickedUp:  {ReservationReturned, ReservationCancelled},
	ReservationReturned:  {ReservationCompleted, ReservationCancelled},
}

// CanTransition 判断状态迁移是否合法
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal 是否为终态
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

// Valid 判断状态值是否合法
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationPickedUp,
		ReservationReturned, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// ReservationModel 预订数据模型
type ReservationModel struct {
	ID             string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Number         string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"number"` // 业务单号
	CustomerID     string            `gorm:"type:varchar(64);not null;index" json:"customerId"`
	VehicleID      string            `gorm:"type:varchar(64);not null;index" json:"vehicleId"`
	DriverID       string            `gorm:"type:varchar(64);index" json:"driverId"` // 可选的附加驾驶员
	Status         ReservationStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	StartDate      time.Time         `gorm:"not null;index" json:"startDate"`
	EndDate        time.Time         `gorm:"not null" json:"endDate"`
	PickupLocation string            `gorm:"type:varchar(255)" json:"pickupLocation"`
	ReturnLocation string            `gorm:"type:varchar(255)" json:"returnLocation"`
	DailyRate      float64           `gorm:"not null" json:"dailyRate"`
	TotalAmount    float64           `gorm:"not null" json:"totalAmount"`
	Notes          string            `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updatedAt"`
	CreatedBy      string            `gorm:"type:varchar(64)" json:"createdBy"`
}

// TableName 指定表名
func (ReservationModel) TableName() string {
	return "reservations"
}

// Validate 验证预订模型
func (rm *ReservationModel) Validate() error {
	if rm.ID == "" {
		return errors.New("reservation ID is required")
	}
	if rm.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if rm.VehicleID == "" {
		return errors.New("vehicle ID is required")
	}
	if !rm.Status.Valid() {
		return errors.New("reservation status is invalid")
	}
	if !rm.EndDate.After(rm.StartDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}
