package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repositories fall back to their own handle when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// WithTx returns a copy bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}

// DB returns the transaction if present, otherwise fallback, scoped to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	if c.Ctx != nil {
		return db.WithContext(c.Ctx)
	}
	return db
}
