package domain

import "time"

// User roles. The role is fixed at registration time; no code path
// changes it afterwards.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

type User struct {
	ID        int64     `json:"id,string" form:"id"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email" form:"email"`
	Name      string    `gorm:"size:255" json:"name" form:"name"`
	Phone     string    `gorm:"size:15" json:"phone" form:"phone"`
	Password  string    `gorm:"size:255" json:"-" form:"-"`
	Role      string    `gorm:"size:10;index;default:'customer'" json:"role" form:"role"`
	Status    string    `gorm:"size:20;default:'enabled'" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}

// Address belongs to a user; a user may keep several. At most one address
// per user carries is_default=true at any committed state.
type Address struct {
	ID           int64     `json:"id,string" form:"id"`
	UserID       int64     `gorm:"index;not null" json:"user_id,string" form:"user_id"`
	AddressLine1 string    `gorm:"size:255" json:"address_line1" form:"address_line1"`
	AddressLine2 string    `gorm:"size:255" json:"address_line2" form:"address_line2"`
	City         string    `gorm:"size:100" json:"city" form:"city"`
	State        string    `gorm:"size:100" json:"state" form:"state"`
	PostalCode   string    `gorm:"size:20" json:"postal_code" form:"postal_code"`
	Country      string    `gorm:"size:100;default:'India'" json:"country" form:"country"`
	IsDefault    bool      `gorm:"index" json:"is_default" form:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Address) TableName() string {
	return "user_address"
}

// Vendor is the seller profile attached to a user with role=vendor.
type Vendor struct {
	ID                  int64     `json:"id,string" form:"id"`
	UserID              int64     `gorm:"uniqueIndex;not null" json:"user_id,string" form:"user_id"`
	BusinessName        string    `gorm:"size:255" json:"business_name" form:"business_name"`
	BusinessDescription string    `gorm:"type:text" json:"business_description" form:"business_description"`
	Logo                string    `gorm:"size:1024" json:"logo" form:"logo"`
	GstNumber           string    `gorm:"size:15" json:"gst_number" form:"gst_number"`
	PanNumber           string    `gorm:"size:10" json:"pan_number" form:"pan_number"`
	BankAccountName     string    `gorm:"size:255" json:"bank_account_name" form:"bank_account_name"`
	BankAccountNumber   string    `gorm:"size:20" json:"bank_account_number" form:"bank_account_number"`
	BankIfsc            string    `gorm:"size:11" json:"bank_ifsc" form:"bank_ifsc"`
	IsApproved          bool      `json:"is_approved" form:"is_approved"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Vendor) TableName() string {
	return "user_vendor"
}

// Customer is the buyer profile attached to a user with role=customer.
type Customer struct {
	ID          int64      `json:"id,string" form:"id"`
	UserID      int64      `gorm:"uniqueIndex;not null" json:"user_id,string" form:"user_id"`
	DateOfBirth *time.Time `json:"date_of_birth" form:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "user_customer"
}
