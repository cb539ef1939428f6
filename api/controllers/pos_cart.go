package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/api/middleware"
	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/api/validators"
	"github.com/granizoapp/granizo-backend/internal/cart"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
)

type cartViewResponse struct {
	Lines          []cart.Line     `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountMode   string          `json:"discount_mode"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

func newCartViewResponse(engine *cart.Engine) cartViewResponse {
	return cartViewResponse{
		Lines:          engine.Lines(),
		Subtotal:       engine.Subtotal(),
		DiscountValue:  engine.DiscountValue(),
		DiscountMode:   string(engine.DiscountMode()),
		DiscountAmount: engine.DiscountAmount(),
		Total:          engine.Total(),
	}
}

func terminalEngine(r *http.Request, carts *cart.Manager) (string, *cart.Engine, error) {
	terminalID := middleware.TerminalIDFromContext(r.Context())
	engine, err := carts.Engine(r.Context(), terminalID)
	if err != nil {
		return "", nil, err
	}
	return terminalID, engine, nil
}

// PosCartFetch returns the terminal's current cart.
func PosCartFetch(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartViewResponse(engine))
	}
}

type addItemRequest struct {
	ProductID  string   `json:"product_id" validate:"required"`
	SizeID     string   `json:"size_id"`
	ToppingIDs []string `json:"topping_ids"`
	Customized bool     `json:"customized"`
}

// PosCartAddItem prices and adds one product configuration to the cart.
func PosCartAddItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		terminalID, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := carts.Catalog().FindProduct(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		line := engine.AddItem(product, payload.SizeID, payload.ToppingIDs, payload.Customized)
		carts.Persist(r.Context(), terminalID, engine)

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"line": line,
			"cart": newCartViewResponse(engine),
		})
	}
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// PosCartUpdateQuantity bumps a line's quantity by a signed delta. Dropping
// to zero or below removes the line.
func PosCartUpdateQuantity(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		terminalID, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.UpdateQuantity(lineID, payload.Delta)
		carts.Persist(r.Context(), terminalID, engine)

		responses.WriteSuccess(w, newCartViewResponse(engine))
	}
}

// PosCartRemoveItem deletes a line outright regardless of quantity.
func PosCartRemoveItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id required"))
			return
		}

		terminalID, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.RemoveItem(lineID)
		carts.Persist(r.Context(), terminalID, engine)

		responses.WriteSuccess(w, newCartViewResponse(engine))
	}
}

type setDiscountRequest struct {
	Value decimal.Decimal `json:"value"`
	Mode  string          `json:"mode" validate:"required,oneof=percent fixed"`
}

// PosCartSetDiscount replaces the cart-level discount.
func PosCartSetDiscount(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseDiscountMode(payload.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount mode"))
			return
		}

		terminalID, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.SetDiscountMode(mode); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := engine.SetDiscount(payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		carts.Persist(r.Context(), terminalID, engine)

		responses.WriteSuccess(w, newCartViewResponse(engine))
	}
}

// PosCartClear resets the cart to empty with no discount.
func PosCartClear(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, engine, err := terminalEngine(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.Reset()
		carts.Persist(r.Context(), terminalID, engine)

		responses.WriteSuccess(w, newCartViewResponse(engine))
	}
}
