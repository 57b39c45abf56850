package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type User struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null" json:"-"`
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`
	Role      Role   `gorm:"size:16;not null"`
	Phone     string `gorm:"size:32"`
	Address   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID          string `gorm:"primaryKey;size:36;not null"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"size:128;uniqueIndex"`
	CreatedAt   time.Time
}

type Product struct {
	ID          string  `gorm:"primaryKey;size:36;not null"`
	Name        string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	Stock       int     `gorm:"not null;default:0"`
	ImageURL    string  `gorm:"size:512"`
	IsActive    bool    `gorm:"not null;default:true"`
	CategoryID  string  `gorm:"size:36;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartItem is unique per (user, product); repeated adds increment quantity.
type CartItem struct {
	ID        string  `gorm:"primaryKey;size:36;not null"`
	UserID    string  `gorm:"size:36;uniqueIndex:idx_cart_user_product;not null"`
	ProductID string  `gorm:"size:36;uniqueIndex:idx_cart_user_product;not null"`
	Quantity  int     `gorm:"not null"`
	Product   Product `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is immutable after checkout except for Status and UpdatedAt.
// TotalAmount and line-item prices are frozen at checkout time.
type Order struct {
	ID              string      `gorm:"primaryKey;size:36;not null"`
	UserID          string      `gorm:"size:36;index;not null"`
	TotalAmount     float64     `gorm:"not null"`
	ShippingAddress string      `gorm:"size:512;not null"`
	Status          OrderStatus `gorm:"size:32;index;not null"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:36;not null"`
	OrderID   string  `gorm:"size:36;index;not null"`
	ProductID string  `gorm:"size:36;index;not null"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"` // unit price snapshot at purchase time
	Product   Product `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
}

type Payment struct {
	ID              string        `gorm:"primaryKey;size:36;not null"`
	OrderID         string        `gorm:"size:36;index;not null"`
	Amount          float64       `gorm:"not null"`
	Status          PaymentStatus `gorm:"size:32;not null"`
	PaymentIntentID string        `gorm:"size:128;index"`
	PaymentMethod   string        `gorm:"size:32;not null;default:stripe"`
	CreatedAt       time.Time
}

type Review struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	UserID    string `gorm:"size:36;index;not null"`
	ProductID string `gorm:"size:36;index;not null"`
	Rating    int    `gorm:"not null"`
	Comment   string `gorm:"type:text"`
	CreatedAt time.Time
}
