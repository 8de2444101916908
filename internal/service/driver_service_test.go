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

func newDriverFixture(t *testing.T) (DriverService, *model.CustomerModel, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	auditSvc := NewAuditLogService(repository.NewAuditLogRepository(db))
	customers := NewCustomerService(repository.NewCustomerRepository(db), auditSvc, testEncryptionKey)

	customer, err := customers.Create(context.Background(), &CustomerRequest{FirstName: "Jan", LastName: "Jansen"})
	require.NoError(t, err)

	svc := NewDriverService(
		repository.NewDriverRepository(db),
		repository.NewCustomerRepository(db),
		auditSvc,
		testEncryptionKey,
	)
	return svc, customer, db
}

func TestDriverCreate(t *testing.T) {
	svc, customer, _ := newDriverFixture(t)

	driver, err := svc.Create(context.Background(), &DriverRequest{
		CustomerID:      customer.ID,
		FirstName:       "Piet",
		LastName:        "Jansen",
		LicenseNumber:   "NL-7654321",
		LicenseCategory: "B",
		LicenseExpiry:   time.Now().AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, customer.ID, driver.CustomerID)
	assert.NotEqual(t, "NL-7654321", driver.LicenseNumber, "license number stored encrypted")

	plain, err := utils.Decrypt(driver.LicenseNumber, testEncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, "NL-7654321", plain)
}

func TestDriverCreateGuards(t *testing.T) {
	svc, customer, _ := newDriverFixture(t)

	// 未知客户
	_, err := svc.Create(context.Background(), &DriverRequest{
		CustomerID:    "missing",
		FirstName:     "Piet",
		LastName:      "Jansen",
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// 过期驾照
	_, err = svc.Create(context.Background(), &DriverRequest{
		CustomerID:    customer.ID,
		FirstName:     "Piet",
		LastName:      "Jansen",
		LicenseExpiry: time.Now().AddDate(0, 0, -1),
	})
	assert.Error(t, err)
}

func TestDriverUpdate(t *testing.T) {
	svc, customer, _ := newDriverFixture(t)
	ctx := context.Background()

	driver, err := svc.Create(ctx, &DriverRequest{
		CustomerID:      customer.ID,
		FirstName:       "Piet",
		LastName:        "Jansen",
		LicenseCategory: "B",
		LicenseExpiry:   time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	// 零值字段保持原样,新驾照号重新加密
	updated, err := svc.Update(ctx, driver.ID, &UpdateDriverRequest{
		FirstName:     "Pieter",
		LicenseNumber: "NL-9999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pieter", updated.FirstName)
	assert.Equal(t, "Jansen", updated.LastName)
	assert.Equal(t, "B", updated.LicenseCategory)

	plain, err := utils.Decrypt(updated.LicenseNumber, testEncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, "NL-9999999", plain)

	// 过期驾照拒绝
	expired := time.Now().AddDate(0, 0, -1)
	_, err = svc.Update(ctx, driver.ID, &UpdateDriverRequest{LicenseExpiry: &expired})
	assert.Error(t, err)

	_, err = svc.Update(ctx, "missing", &UpdateDriverRequest{FirstName: "X"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDriverListFiltered(t *testing.T) {
	svc, customer, db := newDriverFixture(t)
	ctx := context.Background()

	auditSvc := NewAuditLogService(repository.NewAuditLogRepository(db))
	customers := NewCustomerService(repository.NewCustomerRepository(db), auditSvc, testEncryptionKey)
	other, err := customers.Create(ctx, &CustomerRequest{FirstName: "Eva", LastName: "Bakker"})
	require.NoError(t, err)

	for _, d := range []DriverRequest{
		{CustomerID: customer.ID, FirstName: "Piet", LastName: "Jansen", LicenseExpiry: time.Now().AddDate(1, 0, 0)},
		{CustomerID: customer.ID, FirstName: "Kees", LastName: "Visser", LicenseExpiry: time.Now().AddDate(1, 0, 0)},
		{CustomerID: other.ID, FirstName: "Anna", LastName: "Visser", LicenseExpiry: time.Now().AddDate(1, 0, 0)},
	} {
		req := d
		_, err := svc.Create(ctx, &req)
		require.NoError(t, err)
	}

	// 不带过滤器拿到全部,按姓氏排序
	drivers, total, err := svc.List(&repository.DriverFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, drivers, 3)
	assert.Equal(t, "Jansen", drivers[0].LastName)

	// 按客户过滤
	drivers, total, err = svc.List(&repository.DriverFilter{Page: 1, PageSize: 10, CustomerID: other.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Anna", drivers[0].FirstName)

	// 姓名模糊匹配
	drivers, total, err = svc.List(&repository.DriverFilter{Page: 1, PageSize: 10, Search: "Visser"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// 分页截断
	drivers, total, err = svc.List(&repository.DriverFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, drivers, 1)
}

func TestDriverListAndDelete(t *testing.T) {
	svc, customer, _ := newDriverFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &DriverRequest{
		CustomerID:    customer.ID,
		FirstName:     "Piet",
		LastName:      "Jansen",
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &DriverRequest{
		CustomerID:    customer.ID,
		FirstName:     "Kees",
		LastName:      "Jansen",
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	drivers, err := svc.ListByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Len(t, drivers, 2)

	require.NoError(t, svc.Delete(ctx, first.ID))
	drivers, err = svc.ListByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	assert.ErrorIs(t, svc.Delete(ctx, first.ID), utils.ErrNotFound)
}
