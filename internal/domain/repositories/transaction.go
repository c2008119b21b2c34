package repositories

import (
	"context"
)

// TxFn is a function executed within a transaction boundary.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single store transaction.
// Repositories called with the transaction context automatically
// participate in it.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
