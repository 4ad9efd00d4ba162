package cache

import (
	"fmt"

	"exchpoint/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoCurrencyCache caches currency records by code for the Rate
// Registry read path. Every rate mutation must Del the code.
type RistrettoCurrencyCache struct {
	cache *ristretto.Cache
}

func NewCurrencyCache(maxItems int64) (*RistrettoCurrencyCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create currency cache failed: %w", err)
	}
	return &RistrettoCurrencyCache{cache: c}, nil
}

func (c *RistrettoCurrencyCache) Get(code string) (domain.Currency, bool) {
	if v, ok := c.cache.Get(code); ok {
		currency, ok := v.(domain.Currency)
		return currency, ok
	}
	return domain.Currency{}, false
}

func (c *RistrettoCurrencyCache) Set(currency domain.Currency) {
	c.cache.Set(currency.Code, currency, 1)
}

func (c *RistrettoCurrencyCache) Del(code string) {
	c.cache.Del(code)
}

func (c *RistrettoCurrencyCache) Close() { c.cache.Close() }
