// Package ctxutil provides small context helpers shared across packages.
package ctxutil

import "context"

// Canceled reports whether ctx is already done, returning its error
// (context.Canceled or context.DeadlineExceeded) when it is. Operations call
// this at entry so a dead context fails before any work starts.
//
// ctx.Err() is nil until Done closes, so no select is required here.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
