package openlibrary

import (
	"sort"
	"strings"
)

// dedupeKey collapses duplicate search hits. Title is lowercased;
// author names are sorted (case preserved) so author order differences
// do not create distinct keys.
type dedupeKey struct {
	title   string
	authors string
}

func keyFor(doc *Document) dedupeKey {
	names := doc.AuthorNames()
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	return dedupeKey{
		title:   strings.ToLower(doc.Title),
		authors: strings.Join(sorted, "\x1f"),
	}
}

// dedupeDocuments reduces the document list to at most limit entries,
// one per (title, authors) key, ordered by first occurrence. When a key
// repeats, the stored document is replaced only if the newcomer carries
// strictly more raw fields; ties keep the first-seen document.
func dedupeDocuments(docs []Document, limit int) []Document {
	seen := make(map[dedupeKey]int)
	var retained []Document

	for _, doc := range docs {
		key := keyFor(&doc)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(retained)
			retained = append(retained, doc)
			continue
		}
		if doc.FieldCount() > retained[idx].FieldCount() {
			retained[idx] = doc
		}
	}

	if limit > 0 && len(retained) > limit {
		retained = retained[:limit]
	}
	return retained
}
