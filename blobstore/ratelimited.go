package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Store and throttles its operations with a token
// bucket. It keeps a chatty compaction or backfill from starving the
// backing storage.
type RateLimited struct {
	inner   Store
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with the given operations-per-second budget
// and burst size.
func NewRateLimited(inner Store, opsPerSecond float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), burst),
	}
}

func (r *RateLimited) Put(ctx context.Context, key string, body io.Reader) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.Put(ctx, key, body)
}

func (r *RateLimited) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Get(ctx, key)
}

func (r *RateLimited) Delete(ctx context.Context, key string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.Delete(ctx, key)
}

func (r *RateLimited) List(ctx context.Context, prefix string) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.List(ctx, prefix)
}
