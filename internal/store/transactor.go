package store

import (
	"context"
	"database/sql"
)

// Transactor runs a function inside a single atomic unit. Implementations
// back it with a database transaction; test fakes may run the function
// directly. Services use it to group multiple store writes so that either
// all of them apply or none do.
type Transactor interface {
	// Transact executes fn atomically. If fn returns an error, all writes
	// performed through transaction-bound stores are rolled back.
	Transact(ctx context.Context, fn TxFn) error
}

// sqlTransactor implements Transactor over a *sql.DB using RunInTransaction.
type sqlTransactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor backed by the given database handle.
func NewTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

// Transact implements Transactor.Transact.
func (t *sqlTransactor) Transact(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}
