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

type reviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty"`
}

func registerReviewRoutes() {
	webserver.PubGET("/products/:id/reviews", listReviews)
	webserver.ApiPOST("/products/:id/reviews", createReview)
}

func listReviews(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var reviews []domain.Review
	if err := GetDB(c).Where("product_id = ?", id).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", err.Error())
	}
	return ok(c, reviews)
}

func createReview(c echo.Context) error {
	uid, _ := currentIdentity(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload reviewPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	review := domain.Review{
		ID:        common.UUIDint64(),
		ProductID: product.ID,
		UserID:    uid,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&review).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create review", err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"code": "OK", "data": review})
}
