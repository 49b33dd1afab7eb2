package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Accounts
	&User{},
	&Address{},
	&Vendor{},
	&Customer{},
	// Catalog
	&Category{},
	&Product{},
	&ProductImage{},
	&Review{},
	// Orders
	&Order{},
	&OrderItem{},
	&Payment{},
}
