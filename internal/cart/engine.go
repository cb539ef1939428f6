package cart

import (
	"fmt"
	"time"

	"github.com/granizoapp/granizo-backend/internal/catalog"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ToppingSnapshot is the denormalized topping copy stored on a line.
type ToppingSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one configured product in the cart. UnitPrice is computed once at
// add time and frozen; later catalog changes never reprice existing lines.
type Line struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Size      string            `json:"size,omitempty"`
	Toppings  []ToppingSnapshot `json:"toppings,omitempty"`
}

// Subtotal returns the line contribution to the cart subtotal.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Engine owns the mutable cart for one terminal session. It is confined to a
// single session; the Manager serializes access across handler goroutines.
type Engine struct {
	catalog       catalog.Provider
	lines         []Line
	discountValue decimal.Decimal
	discountMode  enums.DiscountMode

	now func() time.Time
}

// NewEngine builds an empty cart engine over the given catalog.
func NewEngine(cat catalog.Provider) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	return &Engine{
		catalog:      cat,
		discountMode: enums.DiscountModePercent,
		now:          time.Now,
	}, nil
}

// AddItem prices and appends a configured product. The unit price is
// basePrice × sizeMultiplier + the sum of selected topping prices; an unknown
// size degrades to multiplier 1 and unknown topping ids are dropped.
//
// Line identity: any explicit size or topping selection, or customized=true,
// yields a fresh line id so two customizations never merge. A bare default
// add merges into an existing default line for the same product.
func (e *Engine) AddItem(product catalog.Product, sizeID string, toppingIDs []string, customized bool) Line {
	multiplier := decimal.NewFromInt(1)
	sizeName := ""
	if size, ok := e.catalog.FindSize(sizeID); ok {
		multiplier = size.Multiplier
		sizeName = size.Name
	}

	toppings := e.catalog.FindToppings(toppingIDs)
	unitPrice := product.Price.Mul(multiplier)
	snapshots := make([]ToppingSnapshot, 0, len(toppings))
	for _, topping := range toppings {
		unitPrice = unitPrice.Add(topping.Price)
		snapshots = append(snapshots, ToppingSnapshot{Name: topping.Name, Price: topping.Price})
	}

	isCustomized := customized || sizeID != "" || len(snapshots) > 0

	line := Line{
		ID:        product.ID,
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Quantity:  1,
		Size:      sizeName,
		Toppings:  snapshots,
	}

	if isCustomized {
		line.ID = fmt.Sprintf("%s-%d", product.ID, e.now().UnixNano())
		e.lines = append(e.lines, line)
		e.cleanup()
		return line
	}

	for i := range e.lines {
		if e.lines[i].ID == product.ID {
			e.lines[i].Quantity++
			e.cleanup()
			return e.lines[i]
		}
	}
	e.lines = append(e.lines, line)
	e.cleanup()
	return line
}

// UpdateQuantity applies delta to the matching line. A resulting quantity of
// zero or less removes the line. Unknown ids are a no-op.
func (e *Engine) UpdateQuantity(lineID string, delta int) {
	for i := range e.lines {
		if e.lines[i].ID != lineID {
			continue
		}
		e.lines[i].Quantity += delta
		if e.lines[i].Quantity <= 0 {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
		}
		break
	}
	e.cleanup()
}

// RemoveItem removes the matching line. Unknown ids are a no-op.
func (e *Engine) RemoveItem(lineID string) {
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			break
		}
	}
	e.cleanup()
}

// SetDiscount stores the discount value. Negative values are rejected;
// surcharges are not supported.
func (e *Engine) SetDiscount(value decimal.Decimal) error {
	if value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be non-negative")
	}
	e.discountValue = value
	e.cleanup()
	return nil
}

// SetDiscountMode switches between percent and fixed discounts.
func (e *Engine) SetDiscountMode(mode enums.DiscountMode) error {
	if !mode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid discount mode %q", mode))
	}
	e.discountMode = mode
	e.cleanup()
	return nil
}

// Lines returns the cleaned cart lines in add order.
func (e *Engine) Lines() []Line {
	e.cleanup()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// IsEmpty reports whether the cleaned cart has no lines.
func (e *Engine) IsEmpty() bool {
	e.cleanup()
	return len(e.lines) == 0
}

// DiscountValue returns the stored discount input.
func (e *Engine) DiscountValue() decimal.Decimal {
	return e.discountValue
}

// DiscountMode returns the active discount mode.
func (e *Engine) DiscountMode() enums.DiscountMode {
	return e.discountMode
}

// Subtotal sums line contributions over the cleaned cart.
func (e *Engine) Subtotal() decimal.Decimal {
	e.cleanup()
	subtotal := decimal.Zero
	for _, line := range e.lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return subtotal
}

// DiscountAmount derives the discount from the current mode and value.
func (e *Engine) DiscountAmount() decimal.Decimal {
	if e.discountMode == enums.DiscountModePercent {
		return e.Subtotal().Mul(e.discountValue).Div(oneHundred)
	}
	return e.discountValue
}

// Total is the subtotal minus the discount, clamped at zero.
func (e *Engine) Total() decimal.Decimal {
	total := e.Subtotal().Sub(e.DiscountAmount())
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Reset clears the cart for the next sale.
func (e *Engine) Reset() {
	e.lines = nil
	e.discountValue = decimal.Zero
	e.discountMode = enums.DiscountModePercent
}

// cleanup drops structurally invalid lines and malformed toppings within
// surviving lines. It runs after every mutation and before every read, so
// corrupt entries that arrive through the session restore path never reach
// callers. Idempotent: a clean cart passes through unchanged.
func (e *Engine) cleanup() {
	cleaned := e.lines[:0]
	for _, line := range e.lines {
		if line.ID == "" || line.Name == "" {
			continue
		}
		if line.Quantity < 0 || line.UnitPrice.IsNegative() {
			continue
		}
		if len(line.Toppings) > 0 {
			keep := line.Toppings[:0]
			for _, topping := range line.Toppings {
				if topping.Name == "" || topping.Price.IsNegative() {
					continue
				}
				keep = append(keep, topping)
			}
			line.Toppings = keep
		}
		cleaned = append(cleaned, line)
	}
	e.lines = cleaned
}
