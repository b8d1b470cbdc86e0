package index

// Criteria describes one search request against a single index.
//
// The keyword clause matches any tokenized text field (OR across tokens);
// Keywords and Ranges are AND'ed against it. Empty criteria are valid and
// select every document in recency order.
type Criteria struct {
	// Keyword is the free-text clause. Tokenized with the same analyzer
	// used at index time, so accented and unaccented queries match.
	// A non-empty keyword that tokenizes to nothing (stop words only,
	// punctuation) matches no documents; an empty keyword leaves the
	// clause out entirely.
	Keyword string

	// Keywords are exact-match filters: field name -> required value.
	Keywords map[string]string

	// Ranges are numeric range filters, AND'ed together.
	Ranges []Range

	// Skip/Take paginate the ranked hit stream inside the engine.
	// Take <= 0 means no limit.
	Skip int
	Take int
}

// Range constrains one numeric document field. Unset bounds are open.
type Range struct {
	Field  string
	Min    int64
	Max    int64
	HasMin bool
	HasMax bool
}

// MatchesFilters reports whether doc satisfies every exact and range
// filter. The keyword clause is evaluated separately by the engine.
func (c *Criteria) MatchesFilters(doc *Document) bool {
	for field, want := range c.Keywords {
		if doc.Keywords[field] != want {
			return false
		}
	}
	for _, r := range c.Ranges {
		v, ok := doc.Numerics[r.Field]
		if !ok {
			return false
		}
		if r.HasMin && v < r.Min {
			return false
		}
		if r.HasMax && v > r.Max {
			return false
		}
	}
	return true
}

// Empty reports whether the criteria carry no keyword and no filters,
// i.e. a match-all query.
func (c *Criteria) Empty() bool {
	return c.Keyword == "" && len(c.Keywords) == 0 && len(c.Ranges) == 0
}
