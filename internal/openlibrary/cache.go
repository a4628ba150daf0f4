package openlibrary

import (
	"context"

	"github.com/mathwizard1232/openlibrary-client-2/internal/cache"
)

// CachedBook is the cache envelope for a search lookup. NotFound entries
// are stored too, with a shorter TTL, so repeated misses stay cheap.
type CachedBook struct {
	Book     *Book `json:"book,omitempty"`
	NotFound bool  `json:"not_found,omitempty"`
}

// SearchByISBNCached is SearchByISBN behind the response cache. Returns
// the book (nil when not found), whether the answer came from cache, and
// any error.
func (c *Client) SearchByISBNCached(ctx context.Context, isbn string) (*Book, bool, error) {
	result, fromCache, err := cache.GetOrFetchWithTTL("openlibrary_search_cache", "isbn:"+isbn,
		func() (*CachedBook, error) {
			book, fetchErr := c.SearchByISBN(ctx, isbn)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return &CachedBook{Book: book, NotFound: book == nil}, nil
		},
		cache.SelectNegativeCacheTTL(func(r *CachedBook) bool {
			return r.NotFound
		}))
	if err != nil {
		return nil, false, err
	}
	return result.Book, fromCache, nil
}

// GetWorkCached is GetWork behind the response cache.
func (c *Client) GetWorkCached(ctx context.Context, olid string) (*Work, bool, error) {
	work, fromCache, err := cache.GetOrFetch("openlibrary_work_cache", olid, func() (*Work, error) {
		return c.GetWork(ctx, olid)
	})
	if err != nil {
		return nil, false, err
	}
	return work, fromCache, nil
}
