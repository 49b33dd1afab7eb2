package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
	"github.com/veloxmart/veloxmart/pkg/common"
)

type productPayload struct {
	CategoryID   *int64  `json:"category_id,string" validate:"omitempty"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Description  string  `json:"description" validate:"omitempty"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	ComparePrice float64 `json:"compare_price" validate:"omitempty,gte=0"`
	Sku          string  `json:"sku" validate:"omitempty,max=100"`
	Quantity     *int    `json:"quantity" validate:"required,gte=0"`
	IsFeatured   bool    `json:"is_featured"`
	IsActive     *bool   `json:"is_active"`
}

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/featured", listFeaturedProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
	}
	sortCol, is := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !is {
		sortCol = "created_at"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	db := GetDB(c).Model(&domain.Product{}).Where("is_active = ?", true)
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if categoryID := cast.ToInt64(c.QueryParam("category")); categoryID > 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	if vendorID := cast.ToInt64(c.QueryParam("vendor")); vendorID > 0 {
		db = db.Where("vendor_id = ?", vendorID)
	}
	if minPrice := cast.ToFloat64(c.QueryParam("min_price")); minPrice > 0 {
		db = db.Where("price >= ?", minPrice)
	}
	if maxPrice := cast.ToFloat64(c.QueryParam("max_price")); maxPrice > 0 {
		db = db.Where("price <= ?", maxPrice)
	}
	if c.QueryParam("featured") == "true" {
		db = db.Where("is_featured = ?", true)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Images").
		Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func listFeaturedProducts(c echo.Context) error {
	var rows []domain.Product
	err := GetDB(c).Where("is_active = ? AND is_featured = ?", true, true).
		Preload("Images").
		Order("created_at DESC").
		Limit(12).
		Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	db := GetDB(c).Preload("Images").Preload("Reviews")

	// accept either a numeric id or a slug
	var p domain.Product
	var err error
	if id := cast.ToInt64(c.Param("id")); id > 0 {
		err = db.Where("id = ?", id).First(&p).Error
	} else {
		err = db.Where("slug = ?", c.Param("id")).First(&p).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	vendor, err := currentVendor(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusForbidden, "NOT_A_VENDOR", "Only vendors can create products", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vendor profile", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}
	p := domain.Product{
		ID:           common.UUIDint64(),
		VendorID:     vendor.ID,
		CategoryID:   payload.CategoryID,
		Name:         name,
		Slug:         uniqueSlug(GetDB(c), name),
		Description:  payload.Description,
		Price:        payload.Price,
		ComparePrice: payload.ComparePrice,
		Sku:          strings.TrimSpace(payload.Sku),
		Quantity:     *payload.Quantity,
		IsFeatured:   payload.IsFeatured,
		IsActive:     isActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	addOprLog(c, vendor.BusinessName, "product_create", p.Slug)
	return c.JSON(http.StatusCreated, map[string]interface{}{"code": "OK", "data": p})
}

func updateProduct(c echo.Context) error {
	vendor, err := currentVendor(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusForbidden, "NOT_A_VENDOR", "Only vendors can update products", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vendor profile", err.Error())
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ? AND vendor_id = ?", id, vendor.ID).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p.CategoryID = payload.CategoryID
	p.Name = strings.TrimSpace(payload.Name)
	p.Description = payload.Description
	p.Price = payload.Price
	p.ComparePrice = payload.ComparePrice
	p.Sku = strings.TrimSpace(payload.Sku)
	p.Quantity = *payload.Quantity
	p.IsFeatured = payload.IsFeatured
	if payload.IsActive != nil {
		p.IsActive = *payload.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	vendor, err := currentVendor(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusForbidden, "NOT_A_VENDOR", "Only vendors can delete products", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vendor profile", err.Error())
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	res := GetDB(c).Where("id = ? AND vendor_id = ?", id, vendor.ID).Delete(&domain.Product{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

// uniqueSlug derives a URL slug from the product name, suffixing a
// counter when the plain form is already taken.
func uniqueSlug(db *gorm.DB, name string) string {
	base := slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		db.Model(&domain.Product{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
