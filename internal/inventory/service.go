package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AdjustInput captures one stock adjustment request.
type AdjustInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Qty       int
	Type      enums.MovementType
	Reason    *string
	UserID    *uuid.UUID
}

// MovementList is one page of movements plus the cursor for the next page.
type MovementList struct {
	Movements  []models.Movement
	NextCursor string
}

// Service exposes inventory reads and the movement-recording adjustment.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*models.StoreStock, error)
	SetMinQty(ctx context.Context, storeID, productID uuid.UUID, minQty int) (*models.StoreStock, error)
	ListStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error)
	ListMovements(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*MovementList, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an inventory service backed by the repository.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Adjust applies the movement to the stock row and records it atomically.
// An "out" that would drop the quantity below zero is refused.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.StoreStock, error) {
	if input.StoreID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id and product id are required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", input.Type))
	}
	if input.Qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if input.Qty == 0 && input.Type != enums.MovementTypeAdjust {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.StoreStock
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		stock, err := repo.GetStock(ctx, input.StoreID, input.ProductID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			stock = &models.StoreStock{
				ID:        uuid.New(),
				StoreID:   input.StoreID,
				ProductID: input.ProductID,
			}
		}

		previous := stock.Qty
		switch input.Type {
		case enums.MovementTypeIn:
			stock.Qty = previous + input.Qty
		case enums.MovementTypeOut:
			if previous < input.Qty {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
			}
			stock.Qty = previous - input.Qty
		case enums.MovementTypeAdjust:
			stock.Qty = input.Qty
		}

		if err := repo.UpsertStock(ctx, stock); err != nil {
			return err
		}

		movement := &models.Movement{
			ID:        uuid.New(),
			StoreID:   input.StoreID,
			ProductID: input.ProductID,
			Qty:       stock.Qty - previous,
			Type:      input.Type,
			Reason:    input.Reason,
			UserID:    input.UserID,
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return err
		}
		updated = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetMinQty updates the alert threshold for the stock row.
func (s *service) SetMinQty(ctx context.Context, storeID, productID uuid.UUID, minQty int) (*models.StoreStock, error) {
	if storeID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id and product id are required")
	}
	if minQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min quantity must be non-negative")
	}

	stock, err := s.repo.GetStock(ctx, storeID, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		stock = &models.StoreStock{
			ID:        uuid.New(),
			StoreID:   storeID,
			ProductID: productID,
		}
	}
	stock.MinQty = minQty
	if err := s.repo.UpsertStock(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *service) ListStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	return s.repo.ListStock(ctx, storeID)
}

func (s *service) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	return s.repo.ListLowStock(ctx, storeID)
}

func (s *service) ListMovements(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*MovementList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	rows, cursor, err := s.repo.ListMovements(ctx, storeID, params)
	if err != nil {
		return nil, err
	}
	list := &MovementList{Movements: rows}
	if cursor != nil {
		list.NextCursor = pagination.EncodeCursor(*cursor)
	}
	return list, nil
}
