package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/api/middleware"
	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/api/validators"
	checkoutsvc "github.com/granizoapp/granizo-backend/internal/checkout"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
)

type checkoutStateResponse struct {
	Stage   string               `json:"stage"`
	Receipt *checkoutsvc.Receipt `json:"receipt,omitempty"`
}

func newCheckoutStateResponse(state *checkoutsvc.State) checkoutStateResponse {
	return checkoutStateResponse{
		Stage:   string(state.Stage),
		Receipt: state.Receipt,
	}
}

// PosCheckoutState returns the terminal's current checkout stage and any
// pending receipt.
func PosCheckoutState(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.State(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStateResponse(state))
	}
}

// PosCheckoutOpen moves the terminal from editing into the payment stage.
func PosCheckoutOpen(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.OpenPayment(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStateResponse(state))
	}
}

// PosCheckoutCancel backs out of the payment stage without touching the cart.
func PosCheckoutCancel(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.CancelPayment(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStateResponse(state))
	}
}

type confirmPaymentRequest struct {
	Method         string          `json:"method" validate:"required,oneof=cash card"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
}

// PosCheckoutConfirm takes the payment and persists the order. On success the
// terminal holds a receipt until it calls close.
func PosCheckoutConfirm(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		receipt, err := svc.ConfirmPayment(r.Context(), middleware.TerminalIDFromContext(r.Context()), method, payload.AmountTendered)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// PosCheckoutClose dismisses the receipt and resets the cart for the next sale.
func PosCheckoutClose(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.CloseReceipt(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStateResponse(state))
	}
}
