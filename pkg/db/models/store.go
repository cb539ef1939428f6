package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/pkg/types"
)

// Store represents one shop of the chain, including its receipt and
// branding configuration.
type Store struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	Address   *string           `gorm:"column:address"`
	Currency  string            `gorm:"column:currency;not null;default:'COP'"`
	TaxRate   decimal.Decimal   `gorm:"column:tax_rate;type:numeric(5,2);not null;default:0"`
	Config    types.StoreConfig `gorm:"column:config;type:jsonb"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
