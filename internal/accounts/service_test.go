package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
)

type fakeStore struct {
	users     map[string]*domain.User
	vendors   map[int64]*domain.Vendor
	customers map[int64]*domain.Customer
	addresses map[int64]*domain.Address
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*domain.User),
		vendors:   make(map[int64]*domain.Vendor),
		customers: make(map[int64]*domain.Customer),
		addresses: make(map[int64]*domain.Address),
	}
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(s)
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, found := s.users[email]; found {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.users[user.Email] = user
	return nil
}

func (s *fakeStore) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	s.vendors[vendor.UserID] = vendor
	return nil
}

func (s *fakeStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	s.customers[customer.UserID] = customer
	return nil
}

func (s *fakeStore) TouchLastLogin(ctx context.Context, userID int64) error {
	for _, u := range s.users {
		if u.ID == userID {
			u.LastLogin = time.Now()
		}
	}
	return nil
}

func (s *fakeStore) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	if a, found := s.addresses[id]; found {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error {
	for _, a := range s.addresses {
		if a.UserID == userID && a.ID != exceptID {
			a.IsDefault = false
		}
	}
	return nil
}

func (s *fakeStore) SaveAddress(ctx context.Context, address *domain.Address) error {
	s.addresses[address.ID] = address
	return nil
}

func (s *fakeStore) defaultCount(userID int64) int {
	n := 0
	for _, a := range s.addresses {
		if a.UserID == userID && a.IsDefault {
			n++
		}
	}
	return n
}

func newTestService(store Store) *Service {
	return NewService(store, "test-secret", 30*time.Minute)
}

func TestRegisterCreatesProfileByRole(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	customer, err := svc.Register(ctx, RegisterInput{
		Email: "Asha@Example.com ", Name: "Asha", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", customer.Email, "email normalized")
	assert.Equal(t, domain.RoleCustomer, customer.Role, "role defaults to customer")
	assert.Contains(t, store.customers, customer.ID)
	assert.NotContains(t, store.vendors, customer.ID)

	vendor, err := svc.Register(ctx, RegisterInput{
		Email: "shop@example.com", Name: "Shop", Password: "secret1", Role: domain.RoleVendor,
	})
	require.NoError(t, err)
	assert.Contains(t, store.vendors, vendor.ID)
	assert.NotContains(t, store.customers, vendor.ID)

	admin, err := svc.Register(ctx, RegisterInput{
		Email: "root@example.com", Name: "Root", Password: "secret1", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotContains(t, store.vendors, admin.ID)
	assert.NotContains(t, store.customers, admin.ID)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Name: "A", Password: "short"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.Register(ctx, RegisterInput{Email: "", Name: "A", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Name: "A", Password: "secret1", Role: "superuser"})
	assert.True(t, errors.Is(err, ErrInvalidArgument), "roles outside the enum are rejected")

	assert.Empty(t, store.users)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Name: "A", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.com", Name: "A again", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Name: "A", Password: "secret1"})
	require.NoError(t, err)

	user, pair, err := svc.Authenticate(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.False(t, user.LastLogin.IsZero())

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, claims["role"])
	assert.Equal(t, "access", claims["use"])

	_, _, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	assert.True(t, errors.Is(err, ErrBadCredentials))

	_, _, err = svc.Authenticate(ctx, "nobody@b.com", "secret1")
	assert.True(t, errors.Is(err, ErrBadCredentials))
}

func TestAuthenticateDisabledUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Name: "A", Password: "secret1"})
	require.NoError(t, err)

	store.users[user.Email].Status = "disabled"
	_, _, err = svc.Authenticate(ctx, "a@b.com", "secret1")
	assert.True(t, errors.Is(err, ErrBadCredentials))
}

func TestUpsertAddressDefaultFlip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	const userID = int64(42)

	a, err := svc.UpsertAddress(ctx, userID, AddressInput{
		AddressLine1: "12 MG Road", City: "Bengaluru", PostalCode: "560001", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, "India", a.Country, "country defaults")
	assert.Equal(t, 1, store.defaultCount(userID))

	b, err := svc.UpsertAddress(ctx, userID, AddressInput{
		AddressLine1: "7 Park Street", City: "Kolkata", PostalCode: "700016", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, b.IsDefault)
	assert.False(t, store.addresses[a.ID].IsDefault, "previous default cleared")
	assert.Equal(t, 1, store.defaultCount(userID))

	// non-default create leaves the current default alone
	_, err = svc.UpsertAddress(ctx, userID, AddressInput{
		AddressLine1: "3 Lake View", City: "Pune", PostalCode: "411001",
	})
	require.NoError(t, err)
	assert.True(t, store.addresses[b.ID].IsDefault)
	assert.Equal(t, 1, store.defaultCount(userID))
}

func TestUpsertAddressSequenceKeepsSingleDefault(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	const userID = int64(9)

	inputs := []AddressInput{
		{AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001", IsDefault: true},
		{AddressLine1: "2 Second St", City: "Delhi", PostalCode: "110002"},
		{AddressLine1: "3 Third St", City: "Delhi", PostalCode: "110003", IsDefault: true},
		{AddressLine1: "4 Fourth St", City: "Delhi", PostalCode: "110004", IsDefault: true},
	}
	for _, in := range inputs {
		_, err := svc.UpsertAddress(ctx, userID, in)
		require.NoError(t, err)
		assert.LessOrEqual(t, store.defaultCount(userID), 1)
	}
	assert.Equal(t, 1, store.defaultCount(userID))
}

func TestUpsertAddressUpdateRedefault(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	const userID = int64(5)

	a, err := svc.UpsertAddress(ctx, userID, AddressInput{
		AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001",
	})
	require.NoError(t, err)
	b, err := svc.UpsertAddress(ctx, userID, AddressInput{
		AddressLine1: "2 Second St", City: "Delhi", PostalCode: "110002", IsDefault: true,
	})
	require.NoError(t, err)

	// promoting an existing address demotes the other one
	updated, err := svc.UpsertAddress(ctx, userID, AddressInput{
		ID: a.ID, AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.False(t, store.addresses[b.ID].IsDefault)
	assert.Equal(t, 1, store.defaultCount(userID))
}

func TestUpsertAddressOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	a, err := svc.UpsertAddress(ctx, 1, AddressInput{
		AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001",
	})
	require.NoError(t, err)

	_, err = svc.UpsertAddress(ctx, 2, AddressInput{
		ID: a.ID, AddressLine1: "Hijack", City: "Delhi", PostalCode: "110001",
	})
	assert.True(t, errors.Is(err, ErrNotFound), "foreign address reads as missing")

	_, err = svc.UpsertAddress(ctx, 1, AddressInput{
		ID: 999999, AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001",
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpsertAddressValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	_, err := svc.UpsertAddress(ctx, 1, AddressInput{City: "Delhi", PostalCode: "110001"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.UpsertAddress(ctx, 1, AddressInput{AddressLine1: "1 First St", PostalCode: "110001"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.UpsertAddress(ctx, 0, AddressInput{AddressLine1: "1 First St", City: "Delhi", PostalCode: "110001"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
