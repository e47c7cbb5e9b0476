package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

const pantrySnapshotQuery = `
SELECT p.id, p.user_id, p.food_id, p.quantity, p.unit,
       f.name, f.category_id, c.name
FROM pantry_items p
JOIN foods f ON f.id = p.food_id
LEFT JOIN categories c ON c.id = f.category_id
WHERE p.user_id = $1
ORDER BY p.created_at ASC, p.id ASC`

// PantryReader loads pantry snapshots with a single join. Generation reads
// the pantry outside any transaction, so it does not need GORM.
type PantryReader struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPantryReader creates a new pantry reader
func NewPantryReader(db *pgxpool.Pool, logger *zap.Logger) outbound.PantryReader {
	return &PantryReader{db: db, logger: logger}
}

// GetPantryItems returns the user's pantry, oldest item first
func (r *PantryReader) GetPantryItems(ctx context.Context, userID uuid.UUID) (pantry.Snapshot, error) {
	rows, err := r.db.Query(ctx, pantrySnapshotQuery, userID.String())
	if err != nil {
		r.logger.Error("Failed to query pantry",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	snapshot, err := pgx.CollectRows(rows, scanPantryItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pantry items: %w", err)
	}
	return snapshot, nil
}

func scanPantryItem(row pgx.CollectableRow) (pantry.Item, error) {
	var (
		item         pantry.Item
		id           string
		userID       string
		foodID       string
		categoryID   *string
		categoryName *string
	)

	if err := row.Scan(
		&id,
		&userID,
		&foodID,
		&item.Quantity,
		&item.Unit,
		&item.Food.Name,
		&categoryID,
		&categoryName,
	); err != nil {
		return item, err
	}

	var err error
	if item.ID, err = uuid.Parse(id); err != nil {
		return item, err
	}
	if item.UserID, err = uuid.Parse(userID); err != nil {
		return item, err
	}
	if item.FoodID, err = uuid.Parse(foodID); err != nil {
		return item, err
	}
	item.Food.ID = item.FoodID

	if categoryID != nil {
		cid, err := uuid.Parse(*categoryID)
		if err != nil {
			return item, err
		}
		item.Food.CategoryID = &cid
		if categoryName != nil {
			item.Food.Category = &pantry.Category{ID: cid, Name: *categoryName}
		}
	}

	return item, nil
}
