package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/accounts"
	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
)

type registerPayload struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Phone     string `json:"phone" validate:"omitempty,max=15"`
	Password  string `json:"password" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=customer vendor"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profilePayload struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=15"`
}

func registerUserRoutes() {
	webserver.PubPOST("/auth/register", register)
	webserver.PubPOST("/auth/login", login)
	webserver.ApiGET("/users/me", getProfile)
	webserver.ApiPUT("/users/me", updateProfile)
	webserver.ApiGET("/users/me/vendor", getVendorProfile)
	webserver.ApiGET("/users/me/customer", getCustomerProfile)
}

func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Password != payload.Password2 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password fields didn't match", nil)
	}

	svc := accountsService(c)
	user, err := svc.Register(c.Request().Context(), accounts.RegisterInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Phone:    payload.Phone,
		Password: payload.Password,
		Role:     payload.Role,
	})
	switch {
	case errors.Is(err, accounts.ErrEmailTaken):
		return fail(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered", nil)
	case errors.Is(err, accounts.ErrInvalidArgument):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to register user", err.Error())
	}

	_, pair, err := svc.Authenticate(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue tokens", nil)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"code":    "OK",
		"user":    user,
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, pair, err := accountsService(c).Authenticate(c.Request().Context(), payload.Email, payload.Password)
	if errors.Is(err, accounts.ErrBadCredentials) {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid credentials", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Login failed", err.Error())
	}

	addOprLog(c, user.Email, "login", "user logged in")
	return ok(c, map[string]interface{}{
		"user":    user,
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

func getProfile(c echo.Context) error {
	uid, _ := currentIdentity(c)
	var user domain.User
	if err := GetDB(c).Where("id = ?", uid).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	return ok(c, user)
}

func updateProfile(c echo.Context) error {
	uid, _ := currentIdentity(c)
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name := strings.TrimSpace(payload.Name); name != "" {
		updates["name"] = name
	}
	if phone := strings.TrimSpace(payload.Phone); phone != "" {
		updates["phone"] = phone
	}

	if err := GetDB(c).Model(&domain.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile", err.Error())
	}

	var user domain.User
	GetDB(c).Where("id = ?", uid).First(&user)
	return ok(c, user)
}

func getVendorProfile(c echo.Context) error {
	vendor, err := currentVendor(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "VENDOR_NOT_FOUND", "No vendor profile for this user", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vendor profile", err.Error())
	}
	return ok(c, vendor)
}

func getCustomerProfile(c echo.Context) error {
	uid, _ := currentIdentity(c)
	var customer domain.Customer
	if err := GetDB(c).Where("user_id = ?", uid).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "No customer profile for this user", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer profile", err.Error())
	}
	return ok(c, customer)
}
