package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/api/validators"
	storesvc "github.com/granizoapp/granizo-backend/internal/stores"
	"github.com/granizoapp/granizo-backend/pkg/db/models"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	"github.com/granizoapp/granizo-backend/pkg/types"
)

type storeResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Address   *string           `json:"address,omitempty"`
	Currency  string            `json:"currency"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Config    types.StoreConfig `json:"config"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newStoreResponse(store *models.Store) storeResponse {
	return storeResponse{
		ID:        store.ID,
		Name:      store.Name,
		Address:   store.Address,
		Currency:  store.Currency,
		TaxRate:   store.TaxRate,
		Config:    store.Config,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}
}

type createStoreRequest struct {
	Name     string             `json:"name" validate:"required"`
	Address  *string            `json:"address"`
	Currency string             `json:"currency"`
	TaxRate  decimal.Decimal    `json:"tax_rate"`
	Config   *types.StoreConfig `json:"config"`
}

func StoreCreate(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), storesvc.CreateStoreInput{
			Name:     payload.Name,
			Address:  payload.Address,
			Currency: payload.Currency,
			TaxRate:  payload.TaxRate,
			Config:   payload.Config,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newStoreResponse(store))
	}
}

type updateStoreRequest struct {
	Name     *string          `json:"name"`
	Address  *string          `json:"address"`
	Currency *string          `json:"currency"`
	TaxRate  *decimal.Decimal `json:"tax_rate"`
}

func StoreUpdate(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Update(r.Context(), storeID, storesvc.UpdateStoreInput{
			Name:     payload.Name,
			Address:  payload.Address,
			Currency: payload.Currency,
			TaxRate:  payload.TaxRate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreResponse(store))
	}
}

// StoreUpdateConfig replaces the receipt and branding configuration wholesale.
func StoreUpdateConfig(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		var payload types.StoreConfig
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateConfig(r.Context(), storeID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreResponse(store))
	}
}

func StoreDetail(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		store, err := svc.Get(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreResponse(store))
	}
}

func StoreList(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stores := make([]storeResponse, 0, len(rows))
		for i := range rows {
			stores = append(stores, newStoreResponse(&rows[i]))
		}

		responses.WriteSuccess(w, map[string]any{"stores": stores})
	}
}
