package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/granizoapp/granizo-backend/internal/cart"
	"github.com/granizoapp/granizo-backend/internal/orders"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderWriter interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (uuid.UUID, time.Time, error)
	CreateOrderItems(ctx context.Context, orderID uuid.UUID, items []orders.OrderItemInput) error
}

// Receipt is the confirmation snapshot shown after a successful payment.
// It is the only reference the terminal keeps to the persisted order.
type Receipt struct {
	OrderID        uuid.UUID       `json:"order_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Lines          []cart.Line     `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	Payment        types.Payment   `json:"payment"`
}

// Sequencer drives one terminal's sale through Editing, AwaitingPayment and
// Confirmed. Like the cart engine it is single-session state; the Service
// serializes access across handlers.
type Sequencer struct {
	stage   enums.CheckoutStage
	cart    *cart.Engine
	storeID uuid.UUID
	writer  orderWriter

	openedAt time.Time
	receipt  *Receipt
	now      func() time.Time
}

// NewSequencer builds a sequencer in the Editing stage over the given cart.
func NewSequencer(engine *cart.Engine, storeID uuid.UUID, writer orderWriter) (*Sequencer, error) {
	if engine == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id required")
	}
	if writer == nil {
		return nil, fmt.Errorf("order writer required")
	}
	return &Sequencer{
		stage:   enums.CheckoutStageEditing,
		cart:    engine,
		storeID: storeID,
		writer:  writer,
		now:     time.Now,
	}, nil
}

// Stage returns the current checkout stage.
func (s *Sequencer) Stage() enums.CheckoutStage {
	return s.stage
}

// Cart returns the cart engine the sequencer drives.
func (s *Sequencer) Cart() *cart.Engine {
	return s.cart
}

// Receipt returns the last confirmation snapshot, if one is pending.
func (s *Sequencer) Receipt() (*Receipt, bool) {
	if s.receipt == nil {
		return nil, false
	}
	return s.receipt, true
}

// PaymentOpenedAt reports when the payment stage was entered.
func (s *Sequencer) PaymentOpenedAt() time.Time {
	return s.openedAt
}

// OpenPayment moves Editing to AwaitingPayment. An empty cart is refused and
// the stage does not move.
func (s *Sequencer) OpenPayment() error {
	if s.stage != enums.CheckoutStageEditing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot open payment from stage %q", s.stage))
	}
	if s.cart.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	s.stage = enums.CheckoutStageAwaitingPayment
	s.openedAt = s.now()
	return nil
}

// CancelPayment returns from AwaitingPayment to Editing with the cart intact.
func (s *Sequencer) CancelPayment() error {
	if s.stage != enums.CheckoutStageAwaitingPayment {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot cancel payment from stage %q", s.stage))
	}
	s.stage = enums.CheckoutStageEditing
	return nil
}

// ConfirmPayment captures the payment and persists the order. A cash payment
// below the total is refused and the stage stays AwaitingPayment. The order
// header and its items are two separate writes; if either fails the error is
// surfaced verbatim and the cart is kept for retry.
func (s *Sequencer) ConfirmPayment(ctx context.Context, method enums.PaymentMethod, amountTendered decimal.Decimal) (*Receipt, error) {
	if s.stage != enums.CheckoutStageAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot confirm payment from stage %q", s.stage))
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}
	if amountTendered.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount tendered must be non-negative")
	}

	total := s.cart.Total()
	change := decimal.Zero
	if method == enums.PaymentMethodCash {
		if amountTendered.LessThan(total) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientPayment, "insufficient amount")
		}
		change = amountTendered.Sub(total)
		if change.IsNegative() {
			change = decimal.Zero
		}
	}

	payment := types.Payment{
		Method:         method.String(),
		AmountReceived: amountTendered,
		Change:         change,
	}
	subtotal := s.cart.Subtotal()
	discount := s.cart.DiscountAmount()
	lines := s.cart.Lines()

	orderID, createdAt, err := s.writer.CreateOrder(ctx, orders.CreateOrderInput{
		StoreID:  s.storeID,
		Subtotal: subtotal,
		Tax:      decimal.Zero,
		Total:    total,
		Status:   enums.OrderStatusCompleted,
		Payment:  payment,
	})
	if err != nil {
		return nil, err
	}

	items := make([]orders.OrderItemInput, 0, len(lines))
	for _, line := range lines {
		name := line.Name
		if line.Size != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, line.Size)
		}
		items = append(items, orders.OrderItemInput{
			Name:      name,
			UnitPrice: line.UnitPrice,
			Qty:       line.Quantity,
			Subtotal:  line.Subtotal(),
			Tax:       decimal.Zero,
		})
	}
	// second write of the pair; the header stays behind if this fails
	if err := s.writer.CreateOrderItems(ctx, orderID, items); err != nil {
		return nil, err
	}

	s.receipt = &Receipt{
		OrderID:        orderID,
		CreatedAt:      createdAt,
		Lines:          lines,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          total,
		Payment:        payment,
	}
	s.stage = enums.CheckoutStageConfirmed
	return s.receipt, nil
}

// CloseReceipt dismisses the confirmation and resets the cart for the next
// sale. The reset happens exactly once per confirmed order.
func (s *Sequencer) CloseReceipt() error {
	if s.stage != enums.CheckoutStageConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot close receipt from stage %q", s.stage))
	}
	s.cart.Reset()
	s.receipt = nil
	s.stage = enums.CheckoutStageEditing
	return nil
}
