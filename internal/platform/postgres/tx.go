package postgres

import (
	"context"
	"database/sql"
	"time"

	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// TxRunner runs fn in one read-committed transaction carried through ctx,
// so stores using tx.QuerierFrom join it. Callers should keep fn short: it
// holds one pooled connection until commit.
type TxRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTxRunner bounds each transaction by timeout unless ctx already has a
// deadline. Zero uses five seconds.
func NewTxRunner(db *sql.DB, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &TxRunner{db: db, timeout: timeout}
}

func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
