package api

// InitRouter registers every API route group. Call after webserver.Init.
func InitRouter() {
	registerUserRoutes()
	registerAddressRoutes()
	registerCategoryRoutes()
	registerProductRoutes()
	registerReviewRoutes()
	registerOrderRoutes()
	registerPaymentRoutes()
	registerDashboardRoutes()
}
