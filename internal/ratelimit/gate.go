package ratelimit

import "context"

// Gate decides whether a submission from one client identity is admitted.
//
// Implementations may be backed by an in-process map, a shared cache, or a
// stub in tests. The gate is advisory abuse mitigation, not a security
// control: callers are expected to fail open when Allow returns an error.
type Gate interface {
	Allow(ctx context.Context, identity string) (bool, error)
}
