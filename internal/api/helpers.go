package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/config"
	"github.com/veloxmart/veloxmart/internal/accounts"
	"github.com/veloxmart/veloxmart/internal/checkout"
	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/pkg/common"
)

// GetDB pulls the request-scoped gorm handle injected by the webserver.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

func getConfig(c echo.Context) *config.AppConfig {
	return c.Get("appconfig").(*config.AppConfig)
}

func accountsService(c echo.Context) *accounts.Service {
	cfg := getConfig(c)
	return accounts.NewService(
		accounts.NewGormStore(GetDB(c)),
		cfg.Web.Secret,
		time.Duration(cfg.Web.JwtExpire)*time.Minute,
	)
}

func checkoutService(c echo.Context) *checkout.Service {
	return checkout.NewService(checkout.NewGormStore(GetDB(c)))
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      "OK",
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize <= 0 {
		pageSize = cast.ToInt(c.QueryParam("pageSize"))
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 500 {
		pageSize = 500
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, is := err.(validator.ValidationErrors); is { //nolint:errorlint
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err.Error())
}

// currentIdentity extracts the caller's user id and role from the JWT
// placed in the context by the auth middleware.
func currentIdentity(c echo.Context) (int64, string) {
	token, is := c.Get("user").(*jwt.Token)
	if !is {
		return 0, ""
	}
	claims, is := token.Claims.(jwt.MapClaims)
	if !is {
		return 0, ""
	}
	uid := cast.ToInt64(claims["sub"])
	role := cast.ToString(claims["role"])
	return uid, role
}

// currentVendor loads the vendor profile of the caller.
func currentVendor(c echo.Context) (*domain.Vendor, error) {
	uid, _ := currentIdentity(c)
	var vendor domain.Vendor
	err := GetDB(c).Where("user_id = ?", uid).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// addOprLog records an audit trail entry; failures only log.
func addOprLog(c echo.Context, name, action, desc string) {
	db := GetDB(c)
	db.Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   name,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}

// failCheckout maps checkout failure kinds onto transport status codes.
func failCheckout(c echo.Context, err error) error {
	switch checkout.KindOf(err) {
	case checkout.KindInvalidArgument:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case checkout.KindNotFound:
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case checkout.KindPriceChanged:
		return fail(c, http.StatusConflict, "PRICE_CHANGED", err.Error(), nil)
	case checkout.KindStockUnavailable:
		return fail(c, http.StatusConflict, "STOCK_UNAVAILABLE", err.Error(), nil)
	case checkout.KindConflict:
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Order placement failed", err.Error())
}
