package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/api/validators"
	inventorysvc "github.com/granizoapp/granizo-backend/internal/inventory"
	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
)

type stockResponse struct {
	StoreID   uuid.UUID `json:"store_id"`
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
	MinQty    int       `json:"min_qty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newStockResponse(stock *models.StoreStock) stockResponse {
	return stockResponse{
		StoreID:   stock.StoreID,
		ProductID: stock.ProductID,
		Qty:       stock.Qty,
		MinQty:    stock.MinQty,
		UpdatedAt: stock.UpdatedAt,
	}
}

type movementResponse struct {
	ID        uuid.UUID  `json:"id"`
	StoreID   uuid.UUID  `json:"store_id"`
	ProductID uuid.UUID  `json:"product_id"`
	Qty       int        `json:"qty"`
	Type      string     `json:"type"`
	Reason    *string    `json:"reason,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type adjustStockRequest struct {
	StoreID   *string `json:"store_id"`
	ProductID string  `json:"product_id" validate:"required"`
	Qty       int     `json:"qty"`
	Type      string  `json:"type" validate:"required,oneof=in out adjust"`
	Reason    *string `json:"reason"`
	UserID    *string `json:"user_id"`
}

func resolveStoreID(raw *string, fallback uuid.UUID) (uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return fallback, nil
	}
	parsed, err := uuid.Parse(*raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return parsed, nil
}

// InventoryAdjust records one stock movement and applies it atomically.
func InventoryAdjust(svc inventorysvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := resolveStoreID(payload.StoreID, defaultStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		movementType, err := enums.ParseMovementType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		var userID *uuid.UUID
		if payload.UserID != nil && strings.TrimSpace(*payload.UserID) != "" {
			parsed, err := uuid.Parse(*payload.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}
			userID = &parsed
		}

		stock, err := svc.Adjust(r.Context(), inventorysvc.AdjustInput{
			StoreID:   storeID,
			ProductID: productID,
			Qty:       payload.Qty,
			Type:      movementType,
			Reason:    payload.Reason,
			UserID:    userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStockResponse(stock))
	}
}

type setMinQtyRequest struct {
	StoreID   *string `json:"store_id"`
	ProductID string  `json:"product_id" validate:"required"`
	MinQty    int     `json:"min_qty" validate:"min=0"`
}

// InventorySetMinQty updates the low-stock threshold for one product.
func InventorySetMinQty(svc inventorysvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setMinQtyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := resolveStoreID(payload.StoreID, defaultStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		stock, err := svc.SetMinQty(r.Context(), storeID, productID, payload.MinQty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStockResponse(stock))
	}
}

func storeIDFromQuery(r *http.Request, fallback uuid.UUID) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("store_id"))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return parsed, nil
}

// InventoryStock lists current stock levels for a store.
func InventoryStock(svc inventorysvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromQuery(r, defaultStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListStock(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock := make([]stockResponse, 0, len(rows))
		for i := range rows {
			stock = append(stock, newStockResponse(&rows[i]))
		}

		responses.WriteSuccess(w, map[string]any{"stock": stock})
	}
}

// InventoryLowStock lists products at or under their minimum quantity.
func InventoryLowStock(svc inventorysvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromQuery(r, defaultStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListLowStock(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock := make([]stockResponse, 0, len(rows))
		for i := range rows {
			stock = append(stock, newStockResponse(&rows[i]))
		}

		responses.WriteSuccess(w, map[string]any{"stock": stock})
	}
}

// InventoryMovements pages the movement audit trail newest first.
func InventoryMovements(svc inventorysvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromQuery(r, defaultStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListMovements(r.Context(), storeID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements := make([]movementResponse, 0, len(page.Movements))
		for _, m := range page.Movements {
			movements = append(movements, movementResponse{
				ID:        m.ID,
				StoreID:   m.StoreID,
				ProductID: m.ProductID,
				Qty:       m.Qty,
				Type:      string(m.Type),
				Reason:    m.Reason,
				UserID:    m.UserID,
				CreatedAt: m.CreatedAt,
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"movements":   movements,
			"next_cursor": page.NextCursor,
		})
	}
}
