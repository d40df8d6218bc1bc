package tenant

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrUnknownDomain is returned when no tenant owns a domain.
var ErrUnknownDomain = errors.New("unknown domain")

// Finder loads a tenant by its exact normalized domain. A missing tenant is
// reported as gorm.ErrRecordNotFound.
type Finder[T any] interface {
	GetByDomain(ctx context.Context, domain string) (*T, error)
}

// Cache is an optional read-through cache keyed by tenant domain.
type Cache[T any] interface {
	Get(ctx context.Context, domain string) (*T, bool)
	Set(ctx context.Context, domain string, v *T)
	Delete(ctx context.Context, domains ...string)
}

// Resolver maps the domain a widget reports to the tenant that owns it. An
// exact match wins over a parent-domain match.
type Resolver[T any] struct {
	finder Finder[T]
	cache  Cache[T]
}

func NewResolver[T any](finder Finder[T], cache Cache[T]) *Resolver[T] {
	return &Resolver[T]{finder: finder, cache: cache}
}

// Resolve returns ErrUnknownDomain when neither the domain nor any of its
// parents is registered.
func (r *Resolver[T]) Resolve(ctx context.Context, rawDomain string) (*T, error) {
	for _, candidate := range CandidateDomains(NormalizeDomain(rawDomain)) {
		if r.cache != nil {
			if v, ok := r.cache.Get(ctx, candidate); ok {
				return v, nil
			}
		}

		v, err := r.finder.GetByDomain(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve tenant %q: %w", candidate, err)
		}

		if r.cache != nil {
			r.cache.Set(ctx, candidate, v)
		}
		return v, nil
	}

	return nil, ErrUnknownDomain
}

// Forget drops cached entries after a tenant's domain changed or the tenant
// was deleted.
func (r *Resolver[T]) Forget(ctx context.Context, domains ...string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, domains...)
}
