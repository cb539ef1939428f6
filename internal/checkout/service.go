package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/granizoapp/granizo-backend/internal/cart"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	"github.com/granizoapp/granizo-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the checkout view for one terminal.
type State struct {
	Stage   enums.CheckoutStage
	Receipt *Receipt
}

// Service owns one sequencer per terminal and orchestrates the payment flow
// around the cart manager, session persistence and metrics.
type Service struct {
	mu         sync.Mutex
	sequencers map[string]*Sequencer

	carts   *cart.Manager
	writer  orderWriter
	storeID uuid.UUID
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// NewService builds the checkout service.
func NewService(carts *cart.Manager, writer orderWriter, storeID uuid.UUID, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	if writer == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		sequencers: make(map[string]*Sequencer),
		carts:      carts,
		writer:     writer,
		storeID:    storeID,
		metrics:    m,
		logg:       logg,
	}, nil
}

// Sequencer returns the terminal's sequencer, creating it over the terminal's
// cart engine on first access.
func (s *Service) Sequencer(ctx context.Context, terminalID string) (*Sequencer, error) {
	engine, err := s.carts.Engine(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq, ok := s.sequencers[terminalID]; ok {
		return seq, nil
	}
	seq, err := NewSequencer(engine, s.storeID, s.writer)
	if err != nil {
		return nil, err
	}
	s.sequencers[terminalID] = seq
	return seq, nil
}

// State reports the terminal's current stage and pending receipt.
func (s *Service) State(ctx context.Context, terminalID string) (*State, error) {
	seq, err := s.Sequencer(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	state := &State{Stage: seq.Stage()}
	if receipt, ok := seq.Receipt(); ok {
		state.Receipt = receipt
	}
	return state, nil
}

// OpenPayment starts the payment stage for the terminal.
func (s *Service) OpenPayment(ctx context.Context, terminalID string) (*State, error) {
	seq, err := s.Sequencer(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if err := seq.OpenPayment(); err != nil {
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}
	return &State{Stage: seq.Stage()}, nil
}

// CancelPayment dismisses the payment stage and returns to editing.
func (s *Service) CancelPayment(ctx context.Context, terminalID string) (*State, error) {
	seq, err := s.Sequencer(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if err := seq.CancelPayment(); err != nil {
		return nil, err
	}
	return &State{Stage: seq.Stage()}, nil
}

// ConfirmPayment captures the payment, persists the order and returns the
// receipt snapshot.
func (s *Service) ConfirmPayment(ctx context.Context, terminalID string, method enums.PaymentMethod, amountTendered decimal.Decimal) (*Receipt, error) {
	seq, err := s.Sequencer(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	receipt, err := seq.ConfirmPayment(ctx, method, amountTendered)
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}

	logCtx := s.logg.WithOrderID(s.logg.WithTerminalID(ctx, terminalID), receipt.OrderID.String())
	s.logg.Info(logCtx, "order confirmed")

	s.metrics.IncConfirmed(method.String())
	if !seq.PaymentOpenedAt().IsZero() {
		s.metrics.ObserveDuration(method.String(), seq.now().Sub(seq.PaymentOpenedAt()))
	}
	s.carts.Persist(ctx, terminalID, seq.Cart())
	return receipt, nil
}

// CloseReceipt finishes the sale and resets the terminal's cart.
func (s *Service) CloseReceipt(ctx context.Context, terminalID string) (*State, error) {
	seq, err := s.Sequencer(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if err := seq.CloseReceipt(); err != nil {
		return nil, err
	}
	s.carts.Persist(ctx, terminalID, seq.Cart())
	return &State{Stage: seq.Stage()}, nil
}

func failureReason(err error) string {
	coded := pkgerrors.As(err)
	if coded == nil {
		return "order_write"
	}
	switch coded.Code() {
	case pkgerrors.CodeInsufficientPayment:
		return "insufficient_payment"
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeStateConflict:
		return "state_conflict"
	default:
		return "order_write"
	}
}
