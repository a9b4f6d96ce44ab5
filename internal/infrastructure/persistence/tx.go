package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTxManager implements shared.TxManager on a gorm connection. The open
// transaction travels in the context, so repositories join it transparently
// through conn.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTx runs fn inside one transaction. A unit started under an already
// open transaction joins it instead of nesting.
func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// conn resolves the connection for one repository call, joining the open
// transaction when the context carries one.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
