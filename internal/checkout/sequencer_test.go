package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/granizoapp/granizo-backend/internal/cart"
	"github.com/granizoapp/granizo-backend/internal/catalog"
	"github.com/granizoapp/granizo-backend/internal/orders"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type stubOrderWriter struct {
	orderErr error
	itemsErr error

	orderCalls int
	itemsCalls int
	header     orders.CreateOrderInput
	items      []orders.OrderItemInput
	orderID    uuid.UUID
	createdAt  time.Time
}

func newStubOrderWriter() *stubOrderWriter {
	return &stubOrderWriter{
		orderID:   uuid.New(),
		createdAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *stubOrderWriter) CreateOrder(_ context.Context, input orders.CreateOrderInput) (uuid.UUID, time.Time, error) {
	s.orderCalls++
	if s.orderErr != nil {
		return uuid.Nil, time.Time{}, s.orderErr
	}
	s.header = input
	return s.orderID, s.createdAt, nil
}

func (s *stubOrderWriter) CreateOrderItems(_ context.Context, orderID uuid.UUID, items []orders.OrderItemInput) error {
	s.itemsCalls++
	if s.itemsErr != nil {
		return s.itemsErr
	}
	s.items = items
	return nil
}

// newPricedSequencer returns a sequencer whose cart totals 9.63:
// one large Fresa with extra fruit (5.35) at quantity 2, 10% discount.
func newPricedSequencer(t *testing.T, writer orderWriter) *Sequencer {
	t.Helper()

	cat := catalog.Default()
	engine, err := cart.NewEngine(cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	fresa, ok := cat.FindProduct("granizado-fresa")
	if !ok {
		t.Fatal("missing seed product")
	}
	line := engine.AddItem(fresa, "large", []string{"fruit"}, false)
	engine.UpdateQuantity(line.ID, 1)
	if err := engine.SetDiscount(dec("10")); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	seq, err := NewSequencer(engine, uuid.New(), writer)
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	return seq
}

func TestOpenPaymentEmptyCartGuard(t *testing.T) {
	t.Parallel()

	engine, err := cart.NewEngine(catalog.Default())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	seq, err := NewSequencer(engine, uuid.New(), newStubOrderWriter())
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}

	err = seq.OpenPayment()
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if seq.Stage() != enums.CheckoutStageEditing {
		t.Fatalf("stage must stay editing, got %s", seq.Stage())
	}
}

func TestCancelPaymentReturnsToEditing(t *testing.T) {
	t.Parallel()

	seq := newPricedSequencer(t, newStubOrderWriter())
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}
	if err := seq.CancelPayment(); err != nil {
		t.Fatalf("cancel payment: %v", err)
	}
	if seq.Stage() != enums.CheckoutStageEditing {
		t.Fatalf("expected editing, got %s", seq.Stage())
	}
	if seq.Cart().IsEmpty() {
		t.Fatal("cancel must keep the cart")
	}

	// cancel is only legal while awaiting payment
	if err := seq.CancelPayment(); err == nil {
		t.Fatal("expected state conflict")
	}
}

func TestConfirmPaymentInsufficientCash(t *testing.T) {
	t.Parallel()

	writer := newStubOrderWriter()
	seq := newPricedSequencer(t, writer)
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}

	_, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCash, dec("5.00"))
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeInsufficientPayment {
		t.Fatalf("expected insufficient payment error, got %v", err)
	}
	if seq.Stage() != enums.CheckoutStageAwaitingPayment {
		t.Fatalf("stage must stay awaiting payment, got %s", seq.Stage())
	}
	if writer.orderCalls != 0 {
		t.Fatal("no write may happen on a refused payment")
	}
}

func TestConfirmPaymentCashChange(t *testing.T) {
	t.Parallel()

	writer := newStubOrderWriter()
	seq := newPricedSequencer(t, writer)
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}

	receipt, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCash, dec("10.00"))
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if !receipt.Payment.Change.Equal(dec("0.37")) {
		t.Fatalf("expected change 0.37, got %s", receipt.Payment.Change)
	}
	if !receipt.Total.Equal(dec("9.63")) {
		t.Fatalf("expected total 9.63, got %s", receipt.Total)
	}
	if seq.Stage() != enums.CheckoutStageConfirmed {
		t.Fatalf("expected confirmed, got %s", seq.Stage())
	}
	if receipt.OrderID != writer.orderID {
		t.Fatalf("receipt must carry the persisted order id")
	}

	if !writer.header.Subtotal.Equal(dec("10.70")) {
		t.Fatalf("expected persisted subtotal 10.70, got %s", writer.header.Subtotal)
	}
	if len(writer.items) != 1 {
		t.Fatalf("expected one persisted item, got %d", len(writer.items))
	}
	if writer.items[0].Name != "Granizado Fresa (Grande)" {
		t.Fatalf("unexpected item name %q", writer.items[0].Name)
	}
}

func TestConfirmPaymentCardHasNoChange(t *testing.T) {
	t.Parallel()

	seq := newPricedSequencer(t, newStubOrderWriter())
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}

	// card payments capture the exact total regardless of the tendered field
	receipt, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCard, dec("9.63"))
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if !receipt.Payment.Change.IsZero() {
		t.Fatalf("card change must be zero, got %s", receipt.Payment.Change)
	}
}

func TestConfirmPaymentHeaderWriteFailureKeepsCart(t *testing.T) {
	t.Parallel()

	writer := newStubOrderWriter()
	writer.orderErr = errors.New("connection reset")
	seq := newPricedSequencer(t, writer)
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}

	_, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCash, dec("10.00"))
	if !errors.Is(err, writer.orderErr) {
		t.Fatalf("expected repo error surfaced verbatim, got %v", err)
	}
	if seq.Stage() != enums.CheckoutStageAwaitingPayment {
		t.Fatalf("stage must stay awaiting payment for retry, got %s", seq.Stage())
	}
	if seq.Cart().IsEmpty() {
		t.Fatal("cart must survive a failed write")
	}
}

func TestConfirmPaymentItemsWriteFailureKeepsCart(t *testing.T) {
	t.Parallel()

	writer := newStubOrderWriter()
	writer.itemsErr = errors.New("connection reset")
	seq := newPricedSequencer(t, writer)
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}

	_, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCash, dec("10.00"))
	if !errors.Is(err, writer.itemsErr) {
		t.Fatalf("expected repo error surfaced verbatim, got %v", err)
	}
	// the header write already happened; this is the known two-write gap
	if writer.orderCalls != 1 {
		t.Fatalf("expected one header write, got %d", writer.orderCalls)
	}
	if seq.Stage() != enums.CheckoutStageAwaitingPayment {
		t.Fatalf("stage must stay awaiting payment, got %s", seq.Stage())
	}
	if seq.Cart().IsEmpty() {
		t.Fatal("cart must survive a failed write")
	}
}

func TestConfirmPaymentValidation(t *testing.T) {
	t.Parallel()

	seq := newPricedSequencer(t, newStubOrderWriter())
	ctx := context.Background()

	// confirming before opening payment is a state conflict
	if _, err := seq.ConfirmPayment(ctx, enums.PaymentMethodCash, dec("10")); err == nil {
		t.Fatal("expected state conflict")
	}

	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}
	if _, err := seq.ConfirmPayment(ctx, enums.PaymentMethod("crypto"), dec("10")); err == nil {
		t.Fatal("expected invalid method error")
	}
	if _, err := seq.ConfirmPayment(ctx, enums.PaymentMethodCash, dec("-1")); err == nil {
		t.Fatal("expected negative tender rejection")
	}
}

func TestCloseReceiptResetsCartOnce(t *testing.T) {
	t.Parallel()

	seq := newPricedSequencer(t, newStubOrderWriter())
	if err := seq.OpenPayment(); err != nil {
		t.Fatalf("open payment: %v", err)
	}
	if _, err := seq.ConfirmPayment(context.Background(), enums.PaymentMethodCash, dec("10.00")); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}

	if err := seq.CloseReceipt(); err != nil {
		t.Fatalf("close receipt: %v", err)
	}
	if seq.Stage() != enums.CheckoutStageEditing {
		t.Fatalf("expected editing, got %s", seq.Stage())
	}
	if !seq.Cart().IsEmpty() {
		t.Fatal("closing the receipt must reset the cart")
	}
	if _, ok := seq.Receipt(); ok {
		t.Fatal("receipt must be cleared")
	}

	// a second close is a state conflict, not a second reset
	if err := seq.CloseReceipt(); err == nil {
		t.Fatal("expected state conflict")
	}
}
