package openlibrary

import "errors"

// ErrEmptyResult is returned by FirstAsBook when the response carried no
// documents. Callers should check NumFound or Docs length first.
var ErrEmptyResult = errors.New("openlibrary: search returned no documents")

// Results is a typed view over a raw search response.
type Results struct {
	NumFound int        `json:"num_found"`
	Docs     []Document `json:"docs"`
}

// FirstAsBook normalizes the first document into a Book. It is only
// valid when a result is known to exist.
func (r *Results) FirstAsBook() (*Book, error) {
	if len(r.Docs) == 0 {
		return nil, ErrEmptyResult
	}
	return r.Docs[0].ToBook(), nil
}

// Documents exposes the raw document list for further processing. The
// slice is not copied; callers must not hold it across mutations of the
// underlying response.
func (r *Results) Documents() []Document {
	return r.Docs
}
