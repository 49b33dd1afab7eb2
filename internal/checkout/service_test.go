package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/pkg/common"
)

// fakeStore is an in-memory Store with snapshot-based rollback, so the
// no-partial-writes postcondition can be asserted.
type fakeStore struct {
	products map[int64]*domain.Product
	orders   []*domain.Order
	numbers  map[string]bool
}

func newFakeStore(products ...*domain.Product) *fakeStore {
	s := &fakeStore{
		products: make(map[int64]*domain.Product),
		numbers:  make(map[string]bool),
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := &fakeStore{
		products: make(map[int64]*domain.Product, len(s.products)),
		orders:   append([]*domain.Order(nil), s.orders...),
		numbers:  make(map[string]bool, len(s.numbers)),
	}
	for id, p := range s.products {
		pc := *p
		cp.products[id] = &pc
	}
	for n := range s.numbers {
		cp.numbers[n] = true
	}
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.products = from.products
	s.orders = from.orders
	s.numbers = from.numbers
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	before := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

func (s *fakeStore) GetProductForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	p, found := s.products[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) DecrementProductStock(ctx context.Context, id int64, qty int) (bool, error) {
	p, found := s.products[id]
	if !found || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (s *fakeStore) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	return s.numbers[number], nil
}

func (s *fakeStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.numbers[order.OrderNumber] = true
	s.orders = append(s.orders, order)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func testProducts() (*domain.Product, *domain.Product) {
	p1 := &domain.Product{ID: 1, VendorID: 11, Name: "Organic Turmeric Powder", Price: 150.00, Quantity: 10}
	p2 := &domain.Product{ID: 2, VendorID: 22, Name: "Herbal Tea", Price: 200.00, Quantity: 5}
	return p1, p2
}

func TestPlaceOrderTotals(t *testing.T) {
	p1, p2 := testProducts()
	store := newFakeStore(p1, p2)
	svc := NewService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 500.00, order.Subtotal)
	assert.Equal(t, 90.00, order.Tax)
	assert.Equal(t, 0.00, order.ShippingCost)
	assert.Equal(t, 0.00, order.Discount)
	assert.Equal(t, 590.00, order.Total)
	assert.Equal(t, order.Total, order.Subtotal+order.ShippingCost+order.Tax-order.Discount)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)

	require.Len(t, order.Items, 2)
	var itemSum float64
	for _, item := range order.Items {
		assert.Equal(t, item.Total, item.Price*float64(item.Quantity))
		itemSum += item.Total
	}
	assert.Equal(t, order.Subtotal, itemSum)
}

func TestPlaceOrderVendorSnapshot(t *testing.T) {
	p1, p2 := testProducts()
	store := newFakeStore(p1, p2)
	svc := NewService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCOD,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), order.Items[0].VendorID)
	assert.Equal(t, int64(22), order.Items[1].VendorID)
}

func TestPlaceOrderTaxRounding(t *testing.T) {
	store := newFakeStore(&domain.Product{ID: 3, VendorID: 1, Price: 9.99, Quantity: 100})
	svc := NewService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        1,
		PaymentMethod: domain.PaymentMethodUPI,
		Items:         []PlaceOrderItem{{ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)
	// 9.99 * 0.18 = 1.7982 -> 1.80
	assert.Equal(t, 1.80, order.Tax)
	assert.Equal(t, 11.79, order.Total)
}

func TestPlaceOrderStockDecrement(t *testing.T) {
	p1, p2 := testProducts()
	store := newFakeStore(p1, p2)
	svc := NewService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, store.products[1].Quantity)
	assert.Equal(t, 0, store.products[2].Quantity)
}

func TestPlaceOrderValidation(t *testing.T) {
	p1, _ := testProducts()
	store := newFakeStore(p1)
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: 7, PaymentMethod: domain.PaymentMethodCard,
	})
	assert.True(t, IsInvalidArgument(err), "empty item list")

	_, err = svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: 7, PaymentMethod: domain.PaymentMethodCard,
		Items: []PlaceOrderItem{{ProductID: 1, Quantity: 0}},
	})
	assert.True(t, IsInvalidArgument(err), "zero quantity")

	_, err = svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: 7, PaymentMethod: "bitcoin",
		Items: []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
	})
	assert.True(t, IsInvalidArgument(err), "unknown payment method")

	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products[1].Quantity)
}

func TestPlaceOrderUnknownProductLeavesNoTrace(t *testing.T) {
	p1, _ := testProducts()
	store := newFakeStore(p1)
	svc := NewService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 99, Quantity: 1},
		},
	})
	assert.True(t, IsNotFound(err))
	assert.Empty(t, store.orders, "no order persisted")
	assert.Equal(t, 10, store.products[1].Quantity, "no stock change")
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	p1, p2 := testProducts()
	store := newFakeStore(p1, p2)
	svc := NewService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 6}, // only 5 on hand
		},
	})
	assert.True(t, IsStockUnavailable(err))
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products[1].Quantity, "first decrement rolled back")
	assert.Equal(t, 5, store.products[2].Quantity)
}

func TestPlaceOrderPriceChanged(t *testing.T) {
	p1, _ := testProducts()
	store := newFakeStore(p1)
	svc := NewService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items:         []PlaceOrderItem{{ProductID: 1, Quantity: 1, ExpectedPrice: floatPtr(120.00)}},
	})
	assert.True(t, IsPriceChanged(err))
	assert.Empty(t, store.orders)

	// matching expected price goes through
	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCard,
		Items:         []PlaceOrderItem{{ProductID: 1, Quantity: 1, ExpectedPrice: floatPtr(150.00)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 150.00, order.Items[0].Price)
}

func TestPlaceOrderNumberShape(t *testing.T) {
	p1, _ := testProducts()
	store := newFakeStore(p1)
	svc := NewService(store)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
			UserID:        7,
			PaymentMethod: domain.PaymentMethodCOD,
			Items:         []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Len(t, order.OrderNumber, 10)
		for _, r := range order.OrderNumber {
			assert.True(t, strings.ContainsRune(common.AlphabetUpperDigits, r))
		}
		assert.False(t, seen[order.OrderNumber], "order numbers must be unique")
		seen[order.OrderNumber] = true
	}
}

func TestPlaceOrderNumberCollisionExhaustsRetries(t *testing.T) {
	p1, _ := testProducts()
	store := newFakeStore(p1)

	// a constant-byte source makes every candidate identical
	gen, err := common.NewCodeGenerator(common.AlphabetUpperDigits, 10, constReader{})
	require.NoError(t, err)
	svc := NewService(store).WithCodeGenerator(gen)

	first, err := gen.Generate()
	require.NoError(t, err)
	store.numbers[first] = true

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:        7,
		PaymentMethod: domain.PaymentMethodCOD,
		Items:         []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
	})
	assert.True(t, IsConflict(err))
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products[1].Quantity)
}

type constReader struct{}

func (constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0x00
	}
	return len(p), nil
}
