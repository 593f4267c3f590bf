package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
)

// TxRunner is the transaction boundary shared by service writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
	// Nested runs fn inside a savepoint of dbc.Tx. A failing fn rolls back
	// to the savepoint only and leaves the outer transaction usable.
	Nested(dbc dbctx.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return apperr.New(apperr.CodeUpstream, "db.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (r *gormTxRunner) Nested(dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if dbc.Tx == nil {
		return r.InTx(dbc.Ctx, fn)
	}
	return dbc.Tx.Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
}
