package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the persisted back-office product record. The POS catalog the
// terminals sell from is a separate in-memory seed; this table backs the
// Products administration page.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         *string         `gorm:"column:sku"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Cost        *decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	Category    string          `gorm:"column:category;not null;default:''"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	Images      pq.StringArray  `gorm:"column:images;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
