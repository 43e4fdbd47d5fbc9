package matching

import (
	"slices"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/patrickmn/go-cache"
)

// CachedEmbedder запоминает векторы недавно встречавшихся текстов.
// Для одного скана тексты повторяются по категориям, поэтому кэш почти всегда попадает.
type CachedEmbedder struct {
	next  Embedder
	cache *cache.Cache
}

func NewCachedEmbedder(next Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		next:  next,
		cache: cache.New(ttl, ttl*2),
	}
}

func (c *CachedEmbedder) Embed(text string) (domain.Vector, error) {
	if v, ok := c.cache.Get(text); ok {
		return slices.Clone(v.(domain.Vector)), nil
	}

	vector, err := c.next.Embed(text)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(text, slices.Clone(vector))
	return vector, nil
}

// Len возвращает число закэшированных векторов.
func (c *CachedEmbedder) Len() int {
	return c.cache.ItemCount()
}
