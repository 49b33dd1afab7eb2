package domain

import "time"

type Category struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index;size:100" json:"name" form:"name"`
	Slug        string    `gorm:"uniqueIndex;size:100" json:"slug" form:"slug"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Image       string    `gorm:"size:1024" json:"image" form:"image"`
	ParentID    *int64    `gorm:"index" json:"parent_id,string" form:"parent_id"`
	IsActive    bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "catalog_category"
}

// Product belongs to one vendor and optionally one category. Quantity is
// decremented by order placement and must stay >= 0.
type Product struct {
	ID           int64     `json:"id,string" form:"id"`
	VendorID     int64     `gorm:"index;not null" json:"vendor_id,string" form:"vendor_id"`
	CategoryID   *int64    `gorm:"index" json:"category_id,string" form:"category_id"`
	Name         string    `gorm:"index;size:255" json:"name" form:"name"`
	Slug         string    `gorm:"uniqueIndex;size:255" json:"slug" form:"slug"`
	Description  string    `gorm:"type:text" json:"description" form:"description"`
	Price        float64   `gorm:"not null" json:"price" form:"price"`
	ComparePrice float64   `json:"compare_price" form:"compare_price"`
	Sku          string    `gorm:"size:100" json:"sku" form:"sku"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity" form:"quantity"`
	IsFeatured   bool      `gorm:"index" json:"is_featured" form:"is_featured"`
	IsActive     bool      `gorm:"index;default:true" json:"is_active" form:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Images  []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Reviews []Review       `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "catalog_product"
}

type ProductImage struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductID int64     `gorm:"index;not null" json:"product_id,string" form:"product_id"`
	Image     string    `gorm:"size:1024" json:"image" form:"image"`
	AltText   string    `gorm:"size:255" json:"alt_text" form:"alt_text"`
	IsPrimary bool      `json:"is_primary" form:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductImage) TableName() string {
	return "catalog_product_image"
}

type Review struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductID int64     `gorm:"index;not null" json:"product_id,string" form:"product_id"`
	UserID    int64     `gorm:"index;not null" json:"user_id,string" form:"user_id"`
	Rating    int       `json:"rating" form:"rating"`
	Comment   string    `gorm:"type:text" json:"comment" form:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Review) TableName() string {
	return "catalog_review"
}
