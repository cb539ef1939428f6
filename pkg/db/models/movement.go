package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/granizoapp/granizo-backend/pkg/enums"
)

// Movement is the audit record of one inventory change.
type Movement struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID          `gorm:"column:store_id;type:uuid;not null"`
	ProductID uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	Qty       int                `gorm:"column:qty;not null"`
	Type      enums.MovementType `gorm:"column:type;not null"`
	Reason    *string            `gorm:"column:reason"`
	UserID    *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
