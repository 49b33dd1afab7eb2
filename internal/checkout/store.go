package checkout

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veloxmart/veloxmart/internal/domain"
)

// Store is the persistence boundary of order placement. Transaction runs
// fn against a store bound to a single database transaction; every write
// inside either commits or rolls back together.
type Store interface {
	// Transaction executes fn atomically. A nested call reuses the
	// enclosing transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// GetProductForUpdate loads a product and locks its row until the
	// enclosing transaction finishes.
	GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error)

	// DecrementProductStock decrements quantity on hand only when enough
	// stock remains; it reports whether the decrement applied.
	DecrementProductStock(ctx context.Context, id int64, qty int) (bool, error)

	// OrderNumberExists reports whether an order already uses number.
	OrderNumberExists(ctx context.Context, number string) (bool, error)

	// CreateOrder persists the order header together with its items.
	CreateOrder(ctx context.Context, order *domain.Order) error
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

func (s *GormStore) GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) DecrementProductStock(ctx context.Context, id int64, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}
