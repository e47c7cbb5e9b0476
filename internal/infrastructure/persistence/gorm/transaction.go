package gorm

import (
	"context"

	"github.com/larderly/planner/internal/ports/outbound"
	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager runs use-case callbacks inside a gorm transaction
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) outbound.TransactionManager {
	return &TransactionManager{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls join the outer transaction.
func (m *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
