package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// testEncryptionKey 32 字节 AES-256 密钥
const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func newCustomerService(t *testing.T) CustomerService {
	t.Helper()
	db := testDB(t)
	return NewCustomerService(
		repository.NewCustomerRepository(db),
		NewAuditLogService(repository.NewAuditLogRepository(db)),
		testEncryptionKey,
	)
}

func TestCustomerCreateEncryptsLicense(t *testing.T) {
	svc := newCustomerService(t)
	expiry := time.Now().AddDate(3, 0, 0)

	created, err := svc.Create(context.Background(), &CustomerRequest{
		FirstName:     "Jan",
		LastName:      "Jansen",
		Email:         "jan@example.com",
		LicenseNumber: "NL-1234567",
		LicenseExpiry: &expiry,
	})
	require.NoError(t, err)

	// 落库的是密文
	assert.NotEqual(t, "NL-1234567", created.LicenseNumber)
	assert.NotEmpty(t, created.LicenseNumber)

	plain, err := svc.LicenseNumber(created)
	require.NoError(t, err)
	assert.Equal(t, "NL-1234567", plain)
}

func TestCustomerCreateValidation(t *testing.T) {
	svc := newCustomerService(t)

	_, err := svc.Create(context.Background(), &CustomerRequest{
		FirstName: "Jan",
		LastName:  "Jansen",
		Email:     "not-an-email",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidEmail)

	_, err = svc.Create(context.Background(), &CustomerRequest{
		FirstName: "<script>alert(1)</script>",
		LastName:  "Jansen",
	})
	assert.Error(t, err)
}

func TestCustomerUpdateAndDelete(t *testing.T) {
	svc := newCustomerService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CustomerRequest{FirstName: "Jan", LastName: "Jansen"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &CustomerRequest{FirstName: "Jan", LastName: "Jansen", Phone: "+31 6 1234 5678"})
	require.NoError(t, err)
	assert.Equal(t, "+31 6 1234 5678", updated.Phone)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), utils.ErrNotFound)
}

func TestCustomerListSearch(t *testing.T) {
	svc := newCustomerService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CustomerRequest{FirstName: "Jan", LastName: "Jansen"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CustomerRequest{FirstName: "Piet", LastName: "de Vries"})
	require.NoError(t, err)

	list, total, err := svc.List(&repository.CustomerFilter{Search: "Vries"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Piet", list[0].FirstName)

	_, total, err = svc.List(&repository.CustomerFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
