package domain

import "time"

// Role is a freeform descriptor referenced by users.
type Role struct {
	ID   int64  `json:"id"   gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;not null"`
}

type RoleInput struct {
	Name string `json:"name"`
}

type Category struct {
	ID          int64  `json:"id"          gorm:"primaryKey"`
	Name        string `json:"name"        gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          int64     `json:"id"          gorm:"primaryKey"`
	Name        string    `json:"name"        gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price"       gorm:"type:decimal(10,2);not null"`
	CategoryID  int64     `json:"categoryId"  gorm:"not null;index"`
	Category    *Category `json:"-"           gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// ProductInput carries Category as a link field (the referenced category id).
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    int64   `json:"category"`
}

type Order struct {
	ID        int64     `json:"id"        gorm:"primaryKey"`
	UserID    int64     `json:"userId"    gorm:"not null;index"`
	User      *User     `json:"-"         gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time `json:"createdAt"`
	Paid      bool      `json:"paid"      gorm:"not null;default:false"`
}

type OrderInput struct {
	User      int64     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	Paid      bool      `json:"paid"`
}

type OrderItem struct {
	ID        int64    `json:"id"        gorm:"primaryKey"`
	OrderID   int64    `json:"orderId"   gorm:"not null;index"`
	Order     *Order   `json:"-"         gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductID int64    `json:"productId" gorm:"not null;index"`
	Product   *Product `json:"-"         gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Price     float64  `json:"price"     gorm:"type:decimal(10,2);not null"`
}

type OrderItemInput struct {
	Order   int64   `json:"order"`
	Product int64   `json:"product"`
	Price   float64 `json:"price"`
}
