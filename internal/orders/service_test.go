package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/granizoapp/granizo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	createdOrder *models.Order
	createdItems []models.OrderItem
	orderErr     error
	itemsErr     error
	found        *models.Order
	listed       []models.Order
	listCursor   *pagination.Cursor
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	order.CreatedAt = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.createdOrder = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	s.createdItems = items
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubOrdersRepo) ListByStore(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	return s.listed, s.listCursor, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		StoreID:  uuid.New(),
		Subtotal: decimal.RequireFromString("10.70"),
		Total:    decimal.RequireFromString("9.63"),
		Payment: types.Payment{
			Method:         enums.PaymentMethodCash.String(),
			AmountReceived: decimal.RequireFromString("10.00"),
			Change:         decimal.RequireFromString("0.37"),
		},
	}
}

func TestCreateOrderDefaultsStatusAndReturnsID(t *testing.T) {
	t.Parallel()

	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)

	orderID, createdAt, err := svc.CreateOrder(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if orderID == uuid.Nil {
		t.Fatal("expected generated order id")
	}
	if createdAt.IsZero() {
		t.Fatal("expected created-at from repo")
	}
	if repo.createdOrder.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected default status completed, got %s", repo.createdOrder.Status)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrdersRepo{})
	ctx := context.Background()

	missing := validCreateInput()
	missing.StoreID = uuid.Nil
	if _, _, err := svc.CreateOrder(ctx, missing); pkgerrors.As(err) == nil {
		t.Fatalf("expected coded validation error, got %v", err)
	}

	negative := validCreateInput()
	negative.Total = decimal.RequireFromString("-1")
	if _, _, err := svc.CreateOrder(ctx, negative); err == nil {
		t.Fatal("expected error for negative total")
	}

	badStatus := validCreateInput()
	badStatus.Status = enums.OrderStatus("mystery")
	if _, _, err := svc.CreateOrder(ctx, badStatus); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestCreateOrderPropagatesRepoErrorVerbatim(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	svc := newTestService(t, &stubOrdersRepo{orderErr: boom})

	_, _, err := svc.CreateOrder(context.Background(), validCreateInput())
	if !errors.Is(err, boom) {
		t.Fatalf("expected undecorated repo error, got %v", err)
	}
}

func TestCreateOrderItems(t *testing.T) {
	t.Parallel()

	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()
	orderID := uuid.New()

	items := []OrderItemInput{
		{Name: "Granizado Mix", UnitPrice: decimal.RequireFromString("4.5"), Qty: 1, Subtotal: decimal.RequireFromString("4.5")},
	}
	if err := svc.CreateOrderItems(ctx, orderID, items); err != nil {
		t.Fatalf("create items: %v", err)
	}
	if len(repo.createdItems) != 1 || repo.createdItems[0].OrderID != orderID {
		t.Fatalf("unexpected persisted items: %+v", repo.createdItems)
	}

	if err := svc.CreateOrderItems(ctx, orderID, nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
	if err := svc.CreateOrderItems(ctx, uuid.Nil, items); err == nil {
		t.Fatal("expected error for missing order id")
	}
	bad := []OrderItemInput{{Name: "x", Qty: 0}}
	if err := svc.CreateOrderItems(ctx, orderID, bad); err == nil {
		t.Fatal("expected error for non-positive quantity")
	}
}

func TestGetMapsRecordNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrdersRepo{})
	_, err := svc.Get(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	t.Parallel()

	cursor := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	svc := newTestService(t, &stubOrdersRepo{
		listed:     []models.Order{{ID: uuid.New()}},
		listCursor: cursor,
	})

	list, err := svc.List(context.Background(), uuid.New(), "", pagination.Params{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.NextCursor == "" {
		t.Fatal("expected encoded next cursor")
	}
	parsed, err := pagination.ParseCursor(list.NextCursor)
	if err != nil || parsed.ID != cursor.ID {
		t.Fatalf("cursor round trip failed: %v %v", parsed, err)
	}

	if _, err := svc.List(context.Background(), uuid.Nil, "", pagination.Params{}); err == nil {
		t.Fatal("expected validation error for missing store id")
	}
}
