package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNormalizeDomain(t *testing.T) {
	tests := map[string]string{
		"acme.com":                         "acme.com",
		"  ACME.com ":                      "acme.com",
		"https://www.Acme.com/contact?x=1": "acme.com",
		"http://acme.com:8080":             "acme.com",
		"www.acme.com.":                    "acme.com",
		"shop.acme.com":                    "shop.acme.com",
		"":                                 "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeDomain(in), in)
	}
}

func TestCandidateDomains(t *testing.T) {
	assert.Equal(t, []string{"shop.eu.acme.com", "eu.acme.com", "acme.com"}, CandidateDomains("shop.eu.acme.com"))
	assert.Equal(t, []string{"acme.com"}, CandidateDomains("acme.com"))
	assert.Equal(t, []string{"localhost"}, CandidateDomains("localhost"))
	assert.Nil(t, CandidateDomains(""))
}

type company struct {
	Name   string
	Domain string
}

type mapFinder struct {
	byDomain map[string]*company
	calls    []string
	err      error
}

func (f *mapFinder) GetByDomain(ctx context.Context, domain string) (*company, error) {
	f.calls = append(f.calls, domain)
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byDomain[domain]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mapCache struct {
	entries map[string]*company
}

func (c *mapCache) Get(ctx context.Context, domain string) (*company, bool) {
	v, ok := c.entries[domain]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, domain string, v *company) {
	c.entries[domain] = v
}

func (c *mapCache) Delete(ctx context.Context, domains ...string) {
	for _, d := range domains {
		delete(c.entries, d)
	}
}

func TestResolver_ExactThenParent(t *testing.T) {
	acme := &company{Name: "Acme", Domain: "acme.com"}
	shop := &company{Name: "Acme Shop", Domain: "shop.acme.com"}
	finder := &mapFinder{byDomain: map[string]*company{"acme.com": acme, "shop.acme.com": shop}}
	r := NewResolver[company](finder, nil)

	got, err := r.Resolve(context.Background(), "https://shop.acme.com/widget")
	require.NoError(t, err)
	assert.Equal(t, shop, got)

	got, err = r.Resolve(context.Background(), "blog.acme.com")
	require.NoError(t, err)
	assert.Equal(t, acme, got)

	_, err = r.Resolve(context.Background(), "evil.com")
	assert.ErrorIs(t, err, ErrUnknownDomain)

	_, err = r.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestResolver_UsesCache(t *testing.T) {
	acme := &company{Name: "Acme", Domain: "acme.com"}
	finder := &mapFinder{byDomain: map[string]*company{"acme.com": acme}}
	cache := &mapCache{entries: map[string]*company{}}
	r := NewResolver[company](finder, cache)

	_, err := r.Resolve(context.Background(), "ACME.com")
	require.NoError(t, err)
	assert.Contains(t, cache.entries, "acme.com")

	finder.calls = nil
	_, err = r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Empty(t, finder.calls)

	r.Forget(context.Background(), "acme.com")
	assert.NotContains(t, cache.entries, "acme.com")
}

func TestResolver_StoreError(t *testing.T) {
	r := NewResolver[company](&mapFinder{err: errors.New("db down")}, nil)

	_, err := r.Resolve(context.Background(), "acme.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownDomain)
}
