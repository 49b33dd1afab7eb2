package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
	"github.com/veloxmart/veloxmart/pkg/common"
)

type categoryPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty"`
	Image       string `json:"image" validate:"omitempty,max=1024"`
	ParentID    *int64 `json:"parent_id,string" validate:"omitempty"`
}

func registerCategoryRoutes() {
	webserver.PubGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var categories []domain.Category
	if err := GetDB(c).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func createCategory(c echo.Context) error {
	if _, role := currentIdentity(c); role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only admins can manage categories", nil)
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	var exists int64
	GetDB(c).Model(&domain.Category{}).Where("slug = ?", slugify(name)).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category already exists", nil)
	}

	category := domain.Category{
		ID:          common.UUIDint64(),
		Name:        name,
		Slug:        slugify(name),
		Description: payload.Description,
		Image:       payload.Image,
		ParentID:    payload.ParentID,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"code": "OK", "data": category})
}

func deleteCategory(c echo.Context) error {
	if _, role := currentIdentity(c); role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only admins can manage categories", nil)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
