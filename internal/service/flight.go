package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedFetchTimeout bounds an upstream fetch shared by concurrent callers.
const sharedFetchTimeout = 30 * time.Second

// shared runs fn once for all concurrent callers of key. fn runs detached
// from the cancellation of whichever caller started it, so one abandoned
// request cannot fail the others. Each caller stops waiting when its own ctx
// is done.
func shared(ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := g.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
