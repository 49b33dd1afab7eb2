package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
	"github.com/veloxmart/veloxmart/pkg/common"
)

type paymentPayload struct {
	PaymentID string  `json:"payment_id" validate:"required,min=1,max=100"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Status    string  `json:"status" validate:"required,oneof=pending paid failed refunded"`
}

func registerPaymentRoutes() {
	webserver.ApiPOST("/orders/:id/payments", recordPayment)
	webserver.ApiGET("/orders/:id/payments", listPayments)
}

// recordPayment stores a passive payment audit record against an order.
// A paid record also flips the order's payment_status.
func recordPayment(c echo.Context) error {
	uid, role := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	db := GetDB(c).Where("id = ?", id)
	if role != domain.RoleAdmin {
		db = db.Where("user_id = ?", uid)
	}
	var order domain.Order
	if err := db.First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	var payload paymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var dup int64
	GetDB(c).Model(&domain.Payment{}).Where("payment_id = ?", payload.PaymentID).Count(&dup)
	if dup > 0 {
		return fail(c, http.StatusConflict, "PAYMENT_EXISTS", "Payment already recorded", nil)
	}

	payment := domain.Payment{
		ID:            common.UUIDint64(),
		OrderID:       order.ID,
		PaymentID:     payload.PaymentID,
		Amount:        payload.Amount,
		Status:        payload.Status,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     time.Now(),
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if payload.Status == domain.PaymentStatusPaid {
			return tx.Model(&domain.Order{}).
				Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"payment_status": domain.PaymentStatusPaid,
					"updated_at":     time.Now(),
				}).Error
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record payment", err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"code": "OK", "data": payment})
}

func listPayments(c echo.Context) error {
	uid, role := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	db := GetDB(c).Where("id = ?", id)
	if role != domain.RoleAdmin {
		db = db.Where("user_id = ?", uid)
	}
	var order domain.Order
	if err := db.First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	var payments []domain.Payment
	if err := GetDB(c).Where("order_id = ?", order.ID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payments", err.Error())
	}
	return ok(c, payments)
}
