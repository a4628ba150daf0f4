package openlibrary

import (
	"encoding/json"
	"strings"
)

// Document is one element of a search response's docs array. The search
// API returns two shapes: the ISBN/legacy form with flat author_name and
// author_key arrays, and the general form with author objects already
// assembled. Both decode into the same struct; absent fields stay zero.
type Document struct {
	Title       string   `json:"title"`
	Key         string   `json:"key"`
	Authors     []Author `json:"authors"`
	AuthorName  []string `json:"author_name"`
	AuthorKey   []string `json:"author_key"`
	Publisher   []string `json:"publisher"`
	PublishDate []string `json:"publish_date"`
	ISBN        []string `json:"isbn"`

	// fieldCount is the number of top-level fields present on the raw
	// JSON object, including ones not modelled above. The dedupe pass
	// uses it to prefer more complete records.
	fieldCount int
}

// UnmarshalJSON decodes the modelled fields and records how many
// top-level fields the raw object carried.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var doc plain
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Document(doc)
	d.fieldCount = len(raw)
	return nil
}

// FieldCount returns the number of top-level fields the source JSON
// object carried, or 0 for a zero-value Document.
func (d *Document) FieldCount() int {
	return d.fieldCount
}

// AuthorNames returns the author names as present on the document,
// preferring assembled author objects over the raw author_name array.
func (d *Document) AuthorNames() []string {
	if len(d.Authors) > 0 {
		names := make([]string, len(d.Authors))
		for i, a := range d.Authors {
			names[i] = a.Name
		}
		return names
	}
	return d.AuthorName
}

// ToBook converts the document into a canonical Book. Missing optional
// fields become empty strings or absent identifiers; ToBook never fails.
func (d *Document) ToBook() *Book {
	book := &Book{
		Title:       d.Title,
		Authors:     d.bookAuthors(),
		Publisher:   firstOrEmpty(d.Publisher),
		PublishDate: firstOrEmpty(d.PublishDate),
	}

	if d.Key != "" {
		book.AddID("olid", olidFromKey(d.Key))
	}

	for _, isbn := range d.ISBN {
		if len(isbn) == 13 {
			book.AddID("isbn_13", isbn)
		} else {
			book.AddID("isbn_10", isbn)
		}
	}

	return book
}

// bookAuthors builds the author list from whichever shape the document
// carries. For the flat arrays, names beyond the end of author_key get
// no OLID.
func (d *Document) bookAuthors() []Author {
	if len(d.Authors) > 0 {
		authors := make([]Author, len(d.Authors))
		copy(authors, d.Authors)
		return authors
	}

	if len(d.AuthorName) == 0 {
		return nil
	}

	authors := make([]Author, len(d.AuthorName))
	for i, name := range d.AuthorName {
		authors[i] = Author{Name: name}
		if i < len(d.AuthorKey) {
			authors[i].OLID = d.AuthorKey[i]
		}
	}
	return authors
}

// olidFromKey extracts the identifier suffix from a key path such as
// "/works/OL123W".
func olidFromKey(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
