package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/checkout"
	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
)

type orderItemPayload struct {
	ProductID int64    `json:"product_id,string" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	Price     *float64 `json:"price" validate:"omitempty,gt=0"`
}

type orderPayload struct {
	ShippingAddressID *int64             `json:"shipping_address_id,string"`
	BillingAddressID  *int64             `json:"billing_address_id,string"`
	PaymentMethod     string             `json:"payment_method" validate:"required,oneof=cod card upi netbanking"`
	Notes             string             `json:"notes" validate:"omitempty"`
	Items             []orderItemPayload `json:"items" validate:"required,min=1,dive"`
}

type orderStatusPayload struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
}

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPUT("/orders/:id/status", updateOrderStatus)
	webserver.ApiGET("/vendor/orders", listVendorOrders)
}

func placeOrder(c echo.Context) error {
	uid, _ := currentIdentity(c)

	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	items := make([]checkout.PlaceOrderItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, checkout.PlaceOrderItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			ExpectedPrice: item.Price,
		})
	}

	order, err := checkoutService(c).PlaceOrder(c.Request().Context(), checkout.PlaceOrderInput{
		UserID:            uid,
		ShippingAddressID: payload.ShippingAddressID,
		BillingAddressID:  payload.BillingAddressID,
		PaymentMethod:     payload.PaymentMethod,
		Notes:             payload.Notes,
		Items:             items,
	})
	if err != nil {
		return failCheckout(c, err)
	}

	addOprLog(c, order.OrderNumber, "order_create", "order placed")
	return c.JSON(http.StatusCreated, map[string]interface{}{"code": "OK", "data": order})
}

func listOrders(c echo.Context) error {
	uid, role := currentIdentity(c)
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if role != domain.RoleAdmin {
		db = db.Where("user_id = ?", uid)
	}
	if status := c.QueryParam("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := db.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	uid, role := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	db := GetDB(c).Preload("Items").Where("id = ?", id)
	if role != domain.RoleAdmin {
		db = db.Where("user_id = ?", uid)
	}

	var order domain.Order
	if err := db.First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

// updateOrderStatus is fulfillment glue: admins may set any status,
// vendors only statuses for orders containing their items.
func updateOrderStatus(c echo.Context) error {
	_, role := currentIdentity(c)
	if role != domain.RoleAdmin && role != domain.RoleVendor {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to update order status", nil)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.ValidOrderStatus(payload.Status) {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status", nil)
	}

	var order domain.Order
	if err := GetDB(c).Where("id = ?", id).First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	if role == domain.RoleVendor {
		vendor, err := currentVendor(c)
		if err != nil {
			return fail(c, http.StatusForbidden, "NOT_A_VENDOR", "No vendor profile for this user", nil)
		}
		var count int64
		GetDB(c).Model(&domain.OrderItem{}).
			Where("order_id = ? AND vendor_id = ?", order.ID, vendor.ID).
			Count(&count)
		if count == 0 {
			return fail(c, http.StatusForbidden, "FORBIDDEN", "Order contains no items of this vendor", nil)
		}
	}

	updates := map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}
	if payload.TrackingNumber != "" {
		updates["tracking_number"] = payload.TrackingNumber
	}
	if err := GetDB(c).Model(&domain.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}

	GetDB(c).Preload("Items").Where("id = ?", order.ID).First(&order)
	return ok(c, order)
}

// listVendorOrders returns orders containing at least one item owned by
// the calling vendor.
func listVendorOrders(c echo.Context) error {
	vendor, err := currentVendor(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusForbidden, "NOT_A_VENDOR", "No vendor profile for this user", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vendor profile", err.Error())
	}

	page, pageSize := parsePagination(c)
	sub := GetDB(c).Model(&domain.OrderItem{}).
		Select("DISTINCT order_id").
		Where("vendor_id = ?", vendor.ID)

	db := GetDB(c).Model(&domain.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := db.Preload("Items", "vendor_id = ?", vendor.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}
