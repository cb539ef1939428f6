package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/api/validators"
	ordersvc "github.com/granizoapp/granizo-backend/internal/orders"
	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/granizoapp/granizo-backend/pkg/types"
)

type orderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	StoreID   uuid.UUID           `json:"store_id"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	Tax       decimal.Decimal     `json:"tax"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	Payment   types.Payment       `json:"payment"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Qty:       item.Qty,
			Subtotal:  item.Subtotal,
			Tax:       item.Tax,
		})
	}
	return orderResponse{
		ID:        order.ID,
		StoreID:   order.StoreID,
		Subtotal:  order.Subtotal,
		Tax:       order.Tax,
		Total:     order.Total,
		Status:    string(order.Status),
		Payment:   order.Payment,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

// OrdersList pages the sales history newest first.
func OrdersList(svc ordersvc.Service, defaultStoreID uuid.UUID, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := defaultStoreID
		if raw := strings.TrimSpace(r.URL.Query().Get("store_id")); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
				return
			}
			storeID = parsed
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		var status enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err = enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
		}

		page, err := svc.List(r.Context(), storeID, status, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders := make([]orderResponse, 0, len(page.Orders))
		for i := range page.Orders {
			orders = append(orders, newOrderResponse(&page.Orders[i]))
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      orders,
			"next_cursor": page.NextCursor,
		})
	}
}

// OrdersDetail fetches one order with its line items.
func OrdersDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
