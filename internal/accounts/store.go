package accounts

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
)

// Store is the persistence boundary of account management.
type Store interface {
	// Transaction executes fn atomically.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	TouchLastLogin(ctx context.Context, userID int64) error

	GetAddress(ctx context.Context, id int64) (*domain.Address, error)
	// ClearDefaultAddresses unsets is_default on every address of the user
	// except exceptID (field-level update, not a full record rewrite).
	ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error
	SaveAddress(ctx context.Context, address *domain.Address) error
}

// GormStore is the GORM implementation of Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return s.db.WithContext(ctx).Create(vendor).Error
}

func (s *GormStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	return s.db.WithContext(ctx).Create(customer).Error
}

func (s *GormStore) TouchLastLogin(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

func (s *GormStore) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	var addr domain.Address
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *GormStore) ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error {
	return s.db.WithContext(ctx).
		Model(&domain.Address{}).
		Where("user_id = ? AND is_default = ? AND id <> ?", userID, true, exceptID).
		Update("is_default", false).Error
}

func (s *GormStore) SaveAddress(ctx context.Context, address *domain.Address) error {
	return s.db.WithContext(ctx).Save(address).Error
}
