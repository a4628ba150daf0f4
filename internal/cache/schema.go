package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// SearchCacheSchema defines the schema for OpenLibrary search result cache
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_search_cached_at ON openlibrary_search_cache(cached_at);
`

// WorkCacheSchema defines the schema for OpenLibrary work resource cache
const WorkCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_work_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_work_cached_at ON openlibrary_work_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SearchCacheSchema,
	WorkCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"openlibrary_search_cache": true,
	"openlibrary_work_cache":   true,
}
