package referral

import (
	"context"

	"github.com/MegaUnlimited-io/farmcash-public/internal/platform"
)

// StorageKey is the single key the cache uses.
const StorageKey = "farmcash_referral"

// Cache remembers the referral code a visitor arrived with until signup
// completes. Values are stored as-is, without expiry or validation.
type Cache struct {
	storage platform.Storage
}

func NewCache(storage platform.Storage) *Cache {
	return &Cache{storage: storage}
}

// Store saves code; an empty code is ignored.
func (c *Cache) Store(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return c.storage.SetItem(ctx, StorageKey, code)
}

func (c *Cache) Get(ctx context.Context) (string, bool, error) {
	return c.storage.GetItem(ctx, StorageKey)
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.storage.RemoveItem(ctx, StorageKey)
}
