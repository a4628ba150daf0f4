package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
)

// Work is a work resource as stored by OpenLibrary. Fields beyond the
// modelled ones survive a get/save round trip untouched in Extra.
type Work struct {
	OLID        string
	Title       string
	Description string
	Subjects    []string
	Extra       map[string]any
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// PublishYear extracts the first four-digit year from a free-form
// publish date, or "" when none is present. Callers normalize dates
// with it before submitting new works.
func PublishYear(date string) string {
	return yearPattern.FindString(date)
}

// GetWork fetches a work resource by its OLID.
func (c *Client) GetWork(ctx context.Context, olid string) (*Work, error) {
	endpoint := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(olid))

	var body map[string]any
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	return workFromJSON(olid, body), nil
}

// SaveWork writes a work resource back, recording comment in the edit
// history. The body sent is the work's JSON with the olid-derived key
// and work type set.
func (c *Client) SaveWork(ctx context.Context, work *Work, comment string) error {
	body := work.json()
	body["_comment"] = comment

	endpoint := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(work.OLID))
	if err := c.putJSON(ctx, endpoint, body); err != nil {
		return fmt.Errorf("save work %s: %w", work.OLID, err)
	}
	return nil
}

// AddCover attaches a cover image to the work by URL.
func (c *Client) AddCover(ctx context.Context, olid, coverURL string) error {
	endpoint := fmt.Sprintf("%s/works/%s/-/add-cover", c.baseURL, url.PathEscape(olid))
	form := url.Values{}
	form.Set("url", coverURL)
	form.Set("upload", "submit")

	if err := c.postForm(ctx, endpoint, form); err != nil {
		return fmt.Errorf("add cover to work %s: %w", olid, err)
	}
	return nil
}

// AddSubjects merges subjects into the work's existing subject list and
// saves the result. Already-present subjects are not duplicated.
func (c *Client) AddSubjects(ctx context.Context, olid string, subjects []string, comment string) error {
	work, err := c.GetWork(ctx, olid)
	if err != nil {
		return err
	}

	work.Subjects = mergeUnique(work.Subjects, subjects)
	if comment == "" {
		comment = fmt.Sprintf("adding %d subjects", len(subjects))
	}
	return c.SaveWork(ctx, work, comment)
}

// RemoveSubjects removes subjects from the work's subject list and
// saves the result.
func (c *Client) RemoveSubjects(ctx context.Context, olid string, subjects []string, comment string) error {
	work, err := c.GetWork(ctx, olid)
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		drop[s] = true
	}
	kept := work.Subjects[:0]
	for _, s := range work.Subjects {
		if !drop[s] {
			kept = append(kept, s)
		}
	}
	work.Subjects = kept

	if comment == "" {
		comment = fmt.Sprintf("removing %d subjects", len(subjects))
	}
	return c.SaveWork(ctx, work, comment)
}

// DeleteWork deletes a work and its editions, recording comment in the
// edit history.
func (c *Client) DeleteWork(ctx context.Context, olid, comment string) error {
	endpoint := fmt.Sprintf("%s/works/%s/-/delete.json?comment=%s",
		c.baseURL, url.PathEscape(olid), url.QueryEscape(comment))

	if err := c.postForm(ctx, endpoint, url.Values{}); err != nil {
		return fmt.Errorf("delete work %s: %w", olid, err)
	}
	slog.Info("Deleted work", "olid", olid)
	return nil
}

// Editions lists all editions of a work, following next-page links one
// request at a time until no link is returned.
func (c *Client) Editions(ctx context.Context, olid string) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/works/%s/editions.json", c.baseURL, url.PathEscape(olid))

	var entries []map[string]any
	for {
		var page struct {
			Entries []map[string]any `json:"entries"`
			Links   struct {
				Next string `json:"next"`
			} `json:"links"`
		}
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		entries = append(entries, page.Entries...)

		if page.Links.Next == "" {
			break
		}
		endpoint = c.baseURL + page.Links.Next
	}

	slog.Debug("Fetched editions", "olid", olid, "count", len(entries))
	return entries, nil
}

// workFromJSON lifts the modelled fields out of a raw work document,
// leaving the rest in Extra.
func workFromJSON(olid string, body map[string]any) *Work {
	work := &Work{OLID: olid, Extra: make(map[string]any)}

	for key, value := range body {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				work.Title = s
			}
		case "description":
			work.Description = textValue(value)
		case "subjects":
			if items, ok := value.([]any); ok {
				for _, item := range items {
					if s, ok := item.(string); ok {
						work.Subjects = append(work.Subjects, s)
					}
				}
			}
		case "key", "type":
			// regenerated on save
		default:
			work.Extra[key] = value
		}
	}

	return work
}

// json builds the representation sent back to the API on save.
func (w *Work) json() map[string]any {
	body := make(map[string]any, len(w.Extra)+4)
	for key, value := range w.Extra {
		body[key] = value
	}

	body["key"] = "/works/" + w.OLID
	body["type"] = map[string]any{"key": "/type/work"}
	if w.Title != "" {
		body["title"] = w.Title
	}
	if w.Description != "" {
		body["description"] = map[string]any{"type": "/type/text", "value": w.Description}
	}
	if len(w.Subjects) > 0 {
		body["subjects"] = w.Subjects
	}
	return body
}

// textValue unwraps OpenLibrary's two text encodings: a bare string or
// a {type: /type/text, value: ...} object.
func textValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return ""
}

// mergeUnique appends items from additions not already present in base,
// preserving order of first appearance.
func mergeUnique(base, additions []string) []string {
	seen := make(map[string]bool, len(base))
	merged := make([]string, 0, len(base)+len(additions))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			merged = append(merged, s)
		}
	}
	for _, s := range additions {
		if !seen[s] {
			seen[s] = true
			merged = append(merged, s)
		}
	}
	return merged
}
