// Package task runs groups of context-aware functions concurrently.
//
//	users, err := task.WhenAll(ctx,
//	    func(ctx context.Context) (User, error) { return repo.Find(ctx, a) },
//	    func(ctx context.Context) (User, error) { return repo.Find(ctx, b) },
//	)
//
// WhenAll cancels the remaining functions on the first error. WhenAny returns
// the first success and cancels the rest. Go runs a background function
// detached from the caller's cancellation, recovering and logging panics.
package task
