package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	olerrors "github.com/mathwizard1232/openlibrary-client-2/internal/errors"
)

// Search finds the closest matching work for a title and/or author.
// At least one of title and author must be provided; validation fails
// before any network access. Returns (nil, nil) when nothing matched.
func (c *Client) Search(ctx context.Context, title, author string) (*Book, error) {
	results, err := c.searchWorks(ctx, title, author, 0)
	if err != nil {
		return nil, err
	}

	if results.NumFound == 0 || len(results.Docs) == 0 {
		slog.Debug("No search results", "title", title, "author", author)
		return nil, nil
	}

	return results.FirstAsBook()
}

// SearchAll finds up to limit works matching a title and/or author.
// Duplicate hits sharing a (title, authors) key collapse to the most
// complete document, ordered by first occurrence. Returns (nil, nil)
// when nothing matched.
func (c *Client) SearchAll(ctx context.Context, title, author string, limit int) ([]*Book, error) {
	results, err := c.searchWorks(ctx, title, author, limit)
	if err != nil {
		return nil, err
	}

	if results.NumFound == 0 || len(results.Docs) == 0 {
		slog.Debug("No search results", "title", title, "author", author)
		return nil, nil
	}

	retained := dedupeDocuments(results.Documents(), limit)
	books := make([]*Book, len(retained))
	for i := range retained {
		books[i] = retained[i].ToBook()
	}

	slog.Debug("Deduplicated search results", "docs", len(results.Docs), "returned", len(books))
	return books, nil
}

// SearchByISBN finds the work matching an ISBN-10 or ISBN-13. Hyphens
// and surrounding whitespace are stripped before the lookup. Returns
// (nil, nil) when no work matched; ISBN search returns at most the
// matching work, so no dedupe pass is needed.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) (*Book, error) {
	isbn = strings.TrimSpace(strings.ReplaceAll(isbn, "-", ""))

	endpoint := fmt.Sprintf("%s/search.json?isbn=%s", c.baseURL, url.QueryEscape(isbn))

	var results Results
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}

	if len(results.Docs) == 0 {
		slog.Debug("No ISBN match", "isbn", isbn)
		return nil, nil
	}

	return results.Docs[0].ToBook(), nil
}

// searchWorks issues the single search round trip shared by Search and
// SearchAll. Query parameters keep the documented order: title, then
// author, then limit.
func (c *Client) searchWorks(ctx context.Context, title, author string, limit int) (*Results, error) {
	if title == "" && author == "" {
		return nil, olerrors.NewInvalidQueryError("author or title required for metadata search")
	}

	endpoint := c.baseURL + "/search.json?"
	if title != "" {
		endpoint += "title=" + url.QueryEscape(title)
	}
	if author != "" {
		if title != "" {
			endpoint += "&"
		}
		endpoint += "author=" + url.QueryEscape(author)
	}
	if limit > 0 {
		endpoint += fmt.Sprintf("&limit=%d", limit)
	}

	var results Results
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
