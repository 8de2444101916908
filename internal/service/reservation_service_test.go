package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

type reservationFixture struct {
	svc      ReservationService
	vehicles VehicleService
	db       *gorm.DB
	notifier *captureNotifier
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	db := testDB(t)
	notifier := &captureNotifier{}
	auditSvc := NewAuditLogService(repository.NewAuditLogRepository(db))
	vehicleRepo := repository.NewVehicleRepository(db)
	return &reservationFixture{
		svc:      NewReservationService(repository.NewReservationRepository(db), vehicleRepo, auditSvc, notifier),
		vehicles: NewVehicleService(vehicleRepo, auditSvc),
		db:       db,
		notifier: notifier,
	}
}

func (f *reservationFixture) seedVehicle(t *testing.T, plate string, rate float64) *model.VehicleModel {
	t.Helper()
	v, err := f.vehicles.Create(context.Background(), &VehicleRequest{
		LicensePlate: plate,
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2022,
		DailyRate:    rate,
	})
	require.NoError(t, err)
	return v
}

func day(offset int) time.Time {
	return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestReservationCreate(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)

	r, err := f.svc.Create(context.Background(), &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(3),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ReservationPending, r.Status)
	assert.Equal(t, 150.0, r.TotalAmount, "3 days at 50 per day")
	assert.NotEmpty(t, r.Number)
	assert.Contains(t, f.notifier.events, "reservation.created")
}

func TestReservationCreateGuards(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)

	// 结束不晚于开始
	_, err := f.svc.Create(context.Background(), &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(3),
		EndDate:    day(0),
	})
	assert.Error(t, err)

	// 未知车辆
	_, err = f.svc.Create(context.Background(), &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  "missing",
		StartDate:  day(0),
		EndDate:    day(1),
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// 维修中的车辆不可预订
	vehicle.Status = model.VehicleMaintenance
	require.NoError(t, repository.NewVehicleRepository(f.db).Save(vehicle))
	_, err = f.svc.Create(context.Background(), &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(1),
	})
	assert.ErrorIs(t, err, utils.ErrVehicleConflict)
}

func TestReservationOverlapConflict(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(5),
	})
	require.NoError(t, err)

	// 档期重叠被拒
	_, err = f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-2",
		VehicleID:  vehicle.ID,
		StartDate:  day(3),
		EndDate:    day(7),
	})
	assert.ErrorIs(t, err, utils.ErrVehicleConflict)

	// 紧邻档期(前一单结束当天开始)不算重叠
	_, err = f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-2",
		VehicleID:  vehicle.ID,
		StartDate:  day(5),
		EndDate:    day(8),
	})
	assert.NoError(t, err)

	// 另一辆车不受影响
	other := f.seedVehicle(t, "XY-999-Z", 40)
	_, err = f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-3",
		VehicleID:  other.ID,
		StartDate:  day(3),
		EndDate:    day(7),
	})
	assert.NoError(t, err)
}

func TestReservationLifecycle(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(2),
	})
	require.NoError(t, err)

	// pending → confirmed → pickedUp → returned → completed
	for _, to := range []model.ReservationStatus{
		model.ReservationConfirmed,
		model.ReservationPickedUp,
		model.ReservationReturned,
		model.ReservationCompleted,
	} {
		r, err = f.svc.ChangeStatus(ctx, r.ID, to)
		require.NoError(t, err)
		assert.Equal(t, to, r.Status)
	}

	// 终态后不可再迁移
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationCancelled)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestReservationVehicleStatusFollows(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()
	vehicleRepo := repository.NewVehicleRepository(f.db)

	r, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(2),
	})
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationConfirmed)
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationPickedUp)
	require.NoError(t, err)

	got, err := vehicleRepo.FindByID(vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleRented, got.Status)

	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationReturned)
	require.NoError(t, err)
	got, err = vehicleRepo.FindByID(vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleAvailable, got.Status)
}

func TestReservationSkipTransitionRejected(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(2),
	})
	require.NoError(t, err)

	// pending 不能直接取车
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationPickedUp)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	// 未知状态
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationStatus("parked"))
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	// 任意非终态可取消
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationCancelled)
	assert.NoError(t, err)
}

func TestReservationUpdate(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(2),
	})
	require.NoError(t, err)

	// 改档期重算总额
	newEnd := day(4)
	updated, err := f.svc.Update(ctx, r.ID, &UpdateReservationRequest{EndDate: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.TotalAmount, "4 days at 50 per day")

	notes := "late pickup"
	updated, err = f.svc.Update(ctx, r.ID, &UpdateReservationRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "late pickup", updated.Notes)

	// 终态预订不可修改
	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationCancelled)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, r.ID, &UpdateReservationRequest{Notes: &notes})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestReservationDeleteGuards(t *testing.T) {
	f := newReservationFixture(t)
	vehicle := f.seedVehicle(t, "AB-123-C", 50)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicle.ID,
		StartDate:  day(0),
		EndDate:    day(2),
	})
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationConfirmed)
	require.NoError(t, err)

	// confirmed 状态不可删除
	assert.ErrorIs(t, f.svc.Delete(ctx, r.ID), utils.ErrInvalidTransition)

	_, err = f.svc.ChangeStatus(ctx, r.ID, model.ReservationCancelled)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, r.ID))

	_, err = f.svc.Get(r.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestReservationListFiltered(t *testing.T) {
	f := newReservationFixture(t)
	a := f.seedVehicle(t, "AB-123-C", 50)
	b := f.seedVehicle(t, "XY-999-Z", 40)
	ctx := context.Background()

	r1, err := f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-1", VehicleID: a.ID, StartDate: day(0), EndDate: day(2),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &CreateReservationRequest{
		CustomerID: "cust-2", VehicleID: b.ID, StartDate: day(0), EndDate: day(2),
	})
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, r1.ID, model.ReservationConfirmed)
	require.NoError(t, err)

	list, total, err := f.svc.List(&repository.ReservationFilter{Status: string(model.ReservationConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, r1.ID, list[0].ID)

	list, total, err = f.svc.List(&repository.ReservationFilter{VehicleID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "cust-2", list[0].CustomerID)

	_, total, err = f.svc.List(&repository.ReservationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRentalDays(t *testing.T) {
	start := day(0)
	assert.Equal(t, 3, rentalDays(start, start.AddDate(0, 0, 3)))
	// 不足一天按一天计
	assert.Equal(t, 1, rentalDays(start, start.Add(6*time.Hour)))
	// 超出整天数进一
	assert.Equal(t, 3, rentalDays(start, start.Add(2*24*time.Hour+time.Hour)))
}
