package openlibrary

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathwizard1232/openlibrary-client-2/internal/cache"
	"github.com/mathwizard1232/openlibrary-client-2/internal/testutil"
)

func setupResponseCache(t *testing.T) {
	t.Helper()

	testutil.ResetConfig(t)
	testutil.SetupTestCache(t, testutil.NewTestEnv(t))

	require.NoError(t, cache.ResetGlobalCache())
	t.Cleanup(func() { _ = cache.ResetGlobalCache() })
}

func TestSearchByISBNCached(t *testing.T) {
	setupResponseCache(t)

	var hits int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"num_found": 1, "docs": [{"key": "/works/OL1W", "title": "Cached Book"}]}`))
	}))

	book, fromCache, err := client.SearchByISBNCached(context.Background(), "0123456789")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.False(t, fromCache)
	assert.Equal(t, "Cached Book", book.Title)

	book, fromCache, err = client.SearchByISBNCached(context.Background(), "0123456789")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.True(t, fromCache)
	assert.Equal(t, 1, hits, "second lookup must be served from cache")
}

func TestSearchByISBNCachedNotFound(t *testing.T) {
	setupResponseCache(t)

	var hits int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"num_found": 0, "docs": []}`))
	}))

	book, _, err := client.SearchByISBNCached(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Nil(t, book)

	book, fromCache, err := client.SearchByISBNCached(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Nil(t, book)
	assert.True(t, fromCache)
	assert.Equal(t, 1, hits, "misses are cached too")
}

func TestGetWorkCached(t *testing.T) {
	setupResponseCache(t)

	var hits int
	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL123W.json", func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"title": "Test Work"}`))
	})
	client, _ := newTestClient(t, mux)

	work, fromCache, err := client.GetWorkCached(context.Background(), "OL123W")
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "Test Work", work.Title)

	work, fromCache, err = client.GetWorkCached(context.Background(), "OL123W")
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "Test Work", work.Title)
	assert.Equal(t, 1, hits)
}
