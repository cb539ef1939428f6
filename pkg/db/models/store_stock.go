package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreStock tracks on-hand quantity of one product at one store.
type StoreStock struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_store_stock_store_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_store_stock_store_product"`
	Qty       int       `gorm:"column:qty;not null;default:0"`
	MinQty    int       `gorm:"column:min_qty;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName matches the singular table created by the migrations.
func (StoreStock) TableName() string {
	return "store_stock"
}
