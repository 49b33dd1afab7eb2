package checkout

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/pkg/common"
)

// TaxRate is the flat GST rate applied to the order subtotal.
const TaxRate = 0.18

// orderNumberAttempts bounds the uniqueness retry loop for order numbers.
const orderNumberAttempts = 5

// PlaceOrderItem is one requested line of an order. ExpectedPrice is the
// unit price the client last saw; when set, a divergence from the catalog
// price fails the order with PriceChanged instead of silently charging a
// different amount.
type PlaceOrderItem struct {
	ProductID     int64
	Quantity      int
	ExpectedPrice *float64
}

type PlaceOrderInput struct {
	UserID            int64
	ShippingAddressID *int64
	BillingAddressID  *int64
	PaymentMethod     string
	Notes             string
	Items             []PlaceOrderItem
}

// Service implements order placement: price resolution, total
// computation, order number allocation and stock decrement, all inside
// one database transaction.
type Service struct {
	store   Store
	codegen *common.CodeGenerator
}

func NewService(store Store) *Service {
	return &Service{
		store:   store,
		codegen: common.NewOrderNumberGenerator(),
	}
}

// WithCodeGenerator replaces the order number generator (used in tests).
func (s *Service) WithCodeGenerator(g *common.CodeGenerator) *Service {
	s.codegen = g
	return s
}

// PlaceOrder validates the request, resolves catalog prices, computes the
// monetary totals and persists the order aggregate. The whole sequence
// commits or rolls back together; a failing line leaves no partial order
// and no stock change.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if input.UserID <= 0 {
		return nil, invalidArgumentf("missing user")
	}
	if len(input.Items) == 0 {
		return nil, invalidArgumentf("order must contain at least one item")
	}
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, invalidArgumentf("unknown payment method %q", input.PaymentMethod)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, invalidArgumentf("quantity must be positive for product %d", item.ProductID)
		}
	}

	var order *domain.Order
	err := s.store.Transaction(ctx, func(tx Store) error {
		var subtotal float64
		items := make([]domain.OrderItem, 0, len(input.Items))

		for _, item := range input.Items {
			product, err := tx.GetProductForUpdate(ctx, item.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("product %d not found", item.ProductID)
			} else if err != nil {
				return errors.Wrap(err, "load product")
			}

			// The catalog price is authoritative; the client price is only
			// checked, never trusted.
			price := product.Price
			if item.ExpectedPrice != nil && !common.MoneyEqual(price, *item.ExpectedPrice) {
				return priceChangedf("price of product %d changed from %.2f to %.2f",
					product.ID, *item.ExpectedPrice, price)
			}

			lineTotal := common.Round2(price * float64(item.Quantity))
			subtotal += lineTotal
			items = append(items, domain.OrderItem{
				ID:        common.UUIDint64(),
				ProductID: product.ID,
				VendorID:  product.VendorID,
				Quantity:  item.Quantity,
				Price:     price,
				Total:     lineTotal,
			})
		}

		subtotal = common.Round2(subtotal)
		shippingCost := 0.0 // placeholder for a future rate engine
		tax := common.Round2(subtotal * TaxRate)
		discount := 0.0
		total := common.Round2(subtotal + shippingCost + tax - discount)

		number, err := s.allocateOrderNumber(ctx, tx)
		if err != nil {
			return err
		}

		order = &domain.Order{
			ID:                common.UUIDint64(),
			UserID:            input.UserID,
			OrderNumber:       number,
			ShippingAddressID: input.ShippingAddressID,
			BillingAddressID:  input.BillingAddressID,
			Status:            domain.OrderStatusPending,
			PaymentStatus:     domain.PaymentStatusPending,
			PaymentMethod:     input.PaymentMethod,
			Subtotal:          subtotal,
			ShippingCost:      shippingCost,
			Tax:               tax,
			Discount:          discount,
			Total:             total,
			Notes:             input.Notes,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
			Items:             items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "create order")
		}

		for _, item := range items {
			applied, err := tx.DecrementProductStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return errors.Wrap(err, "decrement stock")
			}
			if !applied {
				return stockUnavailablef("insufficient stock for product %d", item.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("user_id", order.UserID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))
	return order, nil
}

// allocateOrderNumber draws random candidates until one is unused, with a
// bounded number of attempts. The uniqueness check runs inside the same
// transaction as the order insert.
func (s *Service) allocateOrderNumber(ctx context.Context, tx Store) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number, err := s.codegen.Generate()
		if err != nil {
			return "", errors.Wrap(err, "generate order number")
		}
		exists, err := tx.OrderNumberExists(ctx, number)
		if err != nil {
			return "", errors.Wrap(err, "check order number")
		}
		if !exists {
			return number, nil
		}
		zap.L().Warn("order number collision, retrying", zap.String("number", number))
	}
	return "", conflictf("could not allocate a unique order number after %d attempts", orderNumberAttempts)
}
