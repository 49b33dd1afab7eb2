package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/admin/dashboard", getDashboard)
}

// getDashboard aggregates marketplace-wide figures for the admin UI.
func getDashboard(c echo.Context) error {
	if _, role := currentIdentity(c); role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
	}
	db := GetDB(c)

	var totalSales float64
	db.Model(&domain.Order{}).
		Where("payment_status = ?", domain.PaymentStatusPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalSales)

	var totalOrders, totalProducts, totalCustomers, totalVendors int64
	db.Model(&domain.Order{}).Count(&totalOrders)
	db.Model(&domain.Product{}).Count(&totalProducts)
	db.Model(&domain.Customer{}).Count(&totalCustomers)
	db.Model(&domain.Vendor{}).Count(&totalVendors)

	var recentOrders []domain.Order
	db.Preload("Items").Order("created_at DESC").Limit(5).Find(&recentOrders)

	type topProduct struct {
		ProductID int64   `json:"product_id,string"`
		Name      string  `json:"name"`
		UnitsSold int64   `json:"units_sold"`
		Revenue   float64 `json:"revenue"`
	}
	var topProducts []topProduct
	db.Model(&domain.OrderItem{}).
		Select("order_item.product_id AS product_id, catalog_product.name AS name, "+
			"SUM(order_item.quantity) AS units_sold, SUM(order_item.total) AS revenue").
		Joins("JOIN catalog_product ON catalog_product.id = order_item.product_id").
		Joins("JOIN orders ON orders.id = order_item.order_id AND orders.payment_status = ?", domain.PaymentStatusPaid).
		Group("order_item.product_id, catalog_product.name").
		Order("units_sold DESC").
		Limit(5).
		Scan(&topProducts)

	return ok(c, map[string]interface{}{
		"total_sales":     totalSales,
		"total_orders":    totalOrders,
		"total_products":  totalProducts,
		"total_customers": totalCustomers,
		"total_vendors":   totalVendors,
		"recent_orders":   recentOrders,
		"top_products":    topProducts,
	})
}
