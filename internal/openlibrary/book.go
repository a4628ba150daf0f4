package openlibrary

// Author is a single contributor to a book. OLID is empty when the
// search result carried no author key for this position.
type Author struct {
	Name string `json:"name"`
	OLID string `json:"olid,omitempty"`
}

// Book is the canonical record produced from one search result document.
// Missing source fields degrade to empty strings, never to errors.
type Book struct {
	Title       string              `json:"title"`
	Authors     []Author            `json:"authors,omitempty"`
	Publisher   string              `json:"publisher,omitempty"`
	PublishDate string              `json:"publish_date,omitempty"`
	Identifiers map[string][]string `json:"identifiers,omitempty"`
}

// AddID appends a value under the given identifier kind (e.g. "olid",
// "isbn_10", "isbn_13"). Values accumulate in the order they are added.
func (b *Book) AddID(kind, value string) {
	if b.Identifiers == nil {
		b.Identifiers = make(map[string][]string)
	}
	b.Identifiers[kind] = append(b.Identifiers[kind], value)
}

// ID returns the first value stored under the given identifier kind,
// or "" when the kind is absent.
func (b *Book) ID(kind string) string {
	values := b.Identifiers[kind]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// OLID returns the work's OpenLibrary identifier, if one was extracted
// from the document's key path.
func (b *Book) OLID() string {
	return b.ID("olid")
}
