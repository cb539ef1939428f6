package inventory

import (
	"context"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines persistence operations for stock rows and movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetStock(ctx context.Context, storeID, productID uuid.UUID) (*models.StoreStock, error)
	UpsertStock(ctx context.Context, stock *models.StoreStock) error
	ListStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error)
	CreateMovement(ctx context.Context, movement *models.Movement) error
	ListMovements(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Movement, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetStock(ctx context.Context, storeID, productID uuid.UUID) (*models.StoreStock, error) {
	var stock models.StoreStock
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *repository) UpsertStock(ctx context.Context, stock *models.StoreStock) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qty", "min_qty", "updated_at"}),
		}).
		Create(stock).Error
}

func (r *repository) ListStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error) {
	var rows []models.StoreStock
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.StoreStock, error) {
	var rows []models.StoreStock
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND qty <= min_qty", storeID).
		Order("qty ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Movement, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Movement{}).Where("store_id = ?", storeID)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Movement
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	if hasMore {
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
