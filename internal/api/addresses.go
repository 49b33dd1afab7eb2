package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/accounts"
	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
)

type addressPayload struct {
	AddressLine1 string `json:"address_line1" validate:"required,min=1,max=255"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"required,min=1,max=100"`
	State        string `json:"state" validate:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" validate:"required,min=1,max=20"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	IsDefault    bool   `json:"is_default"`
}

func registerAddressRoutes() {
	webserver.ApiGET("/addresses", listAddresses)
	webserver.ApiPOST("/addresses", createAddress)
	webserver.ApiGET("/addresses/:id", getAddress)
	webserver.ApiPUT("/addresses/:id", updateAddress)
	webserver.ApiDELETE("/addresses/:id", deleteAddress)
}

func listAddresses(c echo.Context) error {
	uid, _ := currentIdentity(c)
	var addresses []domain.Address
	if err := GetDB(c).Where("user_id = ?", uid).Order("id DESC").Find(&addresses).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query addresses", err.Error())
	}
	return ok(c, addresses)
}

func getAddress(c echo.Context) error {
	uid, _ := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID", nil)
	}
	var addr domain.Address
	if err := GetDB(c).Where("id = ? AND user_id = ?", id, uid).First(&addr).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ADDRESS_NOT_FOUND", "Address not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query address", err.Error())
	}
	return ok(c, addr)
}

func createAddress(c echo.Context) error {
	return upsertAddress(c, 0)
}

func updateAddress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID", nil)
	}
	return upsertAddress(c, id)
}

func upsertAddress(c echo.Context, id int64) error {
	uid, _ := currentIdentity(c)
	var payload addressPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse address parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	addr, err := accountsService(c).UpsertAddress(c.Request().Context(), uid, accounts.AddressInput{
		ID:           id,
		AddressLine1: payload.AddressLine1,
		AddressLine2: payload.AddressLine2,
		City:         payload.City,
		State:        payload.State,
		PostalCode:   payload.PostalCode,
		Country:      payload.Country,
		IsDefault:    payload.IsDefault,
	})
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		return fail(c, http.StatusNotFound, "ADDRESS_NOT_FOUND", "Address not found", nil)
	case errors.Is(err, accounts.ErrInvalidArgument):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save address", err.Error())
	}
	return ok(c, addr)
}

func deleteAddress(c echo.Context) error {
	uid, _ := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid address ID", nil)
	}
	res := GetDB(c).Where("id = ? AND user_id = ?", id, uid).Delete(&domain.Address{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete address", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "ADDRESS_NOT_FOUND", "Address not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
