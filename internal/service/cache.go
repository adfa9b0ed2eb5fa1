package service

import (
	"context"

	"github.com/dealerbook/dealerbook/internal/cache"
)

// fromCache reads a listing from the cache, tracing the lookup
func (p ServiceParams) fromCache(ctx context.Context, prefix, key string) (interface{}, bool) {
	if p.Cache == nil {
		return nil, false
	}
	span := cache.StartCacheSpan(ctx, prefix, "get", map[string]interface{}{"key": key})
	value, ok := p.Cache.Get(ctx, key)
	cache.FinishSpan(span, ok)
	return value, ok
}

func (p ServiceParams) toCache(ctx context.Context, key string, value interface{}) {
	if p.Cache == nil {
		return
	}
	p.Cache.Set(ctx, key, value, 0)
}
