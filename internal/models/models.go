package models

import (
	"time"
)

// Producto is a catalog entry. Precio is an integer in CLP, the smallest
// currency unit.
type Producto struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Nombre          string `gorm:"not null"                  json:"nombre"`
	Descripcion     string `gorm:"not null"                  json:"descripcion"`
	Precio          int    `gorm:"not null"                  json:"precio"`
	Categoria       string `json:"categoria"`
	Stock           int    `gorm:"not null;default:0"        json:"stock"`
	Imagen          string `json:"imagen"`
	Caracteristicas string `json:"caracteristicas"`
	Proveedor       string `json:"proveedor"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	Role      string    `gorm:"not null"            json:"role"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

// CartItem holds one *unit* of a product in a user's cart. The quantity of
// a product is the number of rows for the (user, product) pair, it is never
// stored.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"             json:"id"`
	UserID    uint `gorm:"index:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"index:idx_cart_user_product;not null" json:"product_id"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SchemaMigration records one applied step of the migration ladder.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}
