package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/granizoapp/granizo-backend/api/responses"
	"github.com/granizoapp/granizo-backend/internal/catalog"
)

type catalogProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Icon     string          `json:"icon,omitempty"`
	Color    string          `json:"color,omitempty"`
}

type catalogSizeResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type catalogToppingResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CatalogList returns the full terminal catalog in one payload. The POS loads
// it once at startup and prices everything locally from there.
func CatalogList(cat catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := cat.ListProducts()
		sizes := cat.ListSizes()
		toppings := cat.ListToppings()

		productPayload := make([]catalogProductResponse, 0, len(products))
		for _, p := range products {
			productPayload = append(productPayload, catalogProductResponse{
				ID:       p.ID,
				Name:     p.Name,
				Price:    p.Price,
				Category: p.Category,
				Icon:     p.Icon,
				Color:    p.Color,
			})
		}

		sizePayload := make([]catalogSizeResponse, 0, len(sizes))
		for _, s := range sizes {
			sizePayload = append(sizePayload, catalogSizeResponse{
				ID:         s.ID,
				Name:       s.Name,
				Multiplier: s.Multiplier,
			})
		}

		toppingPayload := make([]catalogToppingResponse, 0, len(toppings))
		for _, t := range toppings {
			toppingPayload = append(toppingPayload, catalogToppingResponse{
				ID:    t.ID,
				Name:  t.Name,
				Price: t.Price,
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"products": productPayload,
			"sizes":    sizePayload,
			"toppings": toppingPayload,
		})
	}
}
