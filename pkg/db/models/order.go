package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/pkg/enums"
	"github.com/granizoapp/granizo-backend/pkg/types"
)

// Order is the persisted header of one completed sale.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	Subtotal  decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax       decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null;default:0"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'completed'"`
	Payment   types.Payment     `gorm:"column:payment;type:jsonb"`
	CreatedBy *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
