package service

import (
	"context"
	"time"

	dErrors "tandem/pkg/domain-errors"
)

// DirectTx runs fn without a store transaction. The in-memory stores write
// a generation atomically, so the per-user lock is the only guard needed.
type DirectTx struct {
	Timeout time.Duration
}

func (t DirectTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if t.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, t.Timeout)
			defer cancel()
		}
	}
	return fn(ctx)
}
