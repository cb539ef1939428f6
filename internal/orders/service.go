package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/granizoapp/granizo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrderInput captures the order header written at checkout.
type CreateOrderInput struct {
	StoreID   uuid.UUID
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Status    enums.OrderStatus
	Payment   types.Payment
	CreatedBy *uuid.UUID
}

// OrderItemInput is one denormalized cart line persisted with the order.
type OrderItemInput struct {
	ProductID *uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Qty       int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

// Service exposes order persistence and back-office reads.
//
// CreateOrder and CreateOrderItems are deliberately two separate writes with
// no wrapping transaction; the checkout sequencer surfaces either failure
// verbatim and keeps the cart for retry.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (uuid.UUID, time.Time, error)
	CreateOrderItems(ctx context.Context, orderID uuid.UUID, items []OrderItemInput) error
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo Repository
}

// NewService builds an orders service backed by the repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (uuid.UUID, time.Time, error) {
	if input.StoreID == uuid.Nil {
		return uuid.Nil, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if input.Total.IsNegative() || input.Subtotal.IsNegative() {
		return uuid.Nil, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "order totals must be non-negative")
	}
	status := input.Status
	if status == "" {
		status = enums.OrderStatusCompleted
	}
	if !status.IsValid() {
		return uuid.Nil, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	order := &models.Order{
		ID:        uuid.New(),
		StoreID:   input.StoreID,
		Subtotal:  input.Subtotal,
		Tax:       input.Tax,
		Total:     input.Total,
		Status:    status,
		Payment:   input.Payment,
		CreatedBy: input.CreatedBy,
	}
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return created.ID, created.CreatedAt, nil
}

func (s *service) CreateOrderItems(ctx context.Context, orderID uuid.UUID, items []OrderItemInput) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	rows := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item name is required")
		}
		if item.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item quantity must be positive")
		}
		rows = append(rows, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Qty:       item.Qty,
			Subtotal:  item.Subtotal,
			Tax:       item.Tax,
		})
	}
	return s.repo.CreateOrderItems(ctx, rows)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus, params pagination.Params) (*OrderList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, cursor, err := s.repo.ListByStore(ctx, storeID, status, params)
	if err != nil {
		return nil, err
	}
	list := &OrderList{Orders: rows}
	if cursor != nil {
		list.NextCursor = pagination.EncodeCursor(*cursor)
	}
	return list, nil
}
