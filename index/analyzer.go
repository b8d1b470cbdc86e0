package index

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Stop words dropped during tokenization. The platform's content is
// mostly Vietnamese with English job titles mixed in, so both lists are
// kept in folded form.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "in": true, "for": true, "to": true, "with": true,
	"va": true, "cua": true, "la": true, "cac": true, "nhung": true,
	"co": true, "tai": true, "ve": true, "cho": true,
}

// Analyzer tokenizes free text for indexing and querying. The same
// analyzer instance must be used on both sides so folded tokens line up.
type Analyzer struct {
	weights map[string]float64
}

// NewAnalyzer creates an analyzer with per-field score weights.
// Fields absent from weights get weight 1.0.
func NewAnalyzer(weights map[string]float64) *Analyzer {
	w := make(map[string]float64, len(weights))
	for field, weight := range weights {
		if weight > 0 {
			w[field] = weight
		}
	}
	return &Analyzer{weights: w}
}

// Weight returns the score weight for a text field.
func (a *Analyzer) Weight(field string) float64 {
	if w, ok := a.weights[field]; ok {
		return w
	}
	return 1.0
}

// Fold lowercases s and strips diacritics so that accented and
// unaccented spellings produce identical tokens ("Kỹ sư" -> "ky su").
func Fold(s string) string {
	s = strings.ToLower(s)
	// NFD splits base letters from combining marks, runes.Remove drops
	// the marks, NFC recomposes what is left.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	// đ is a standalone letter, not a combining mark
	folded = strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		return r
	}, folded)
	return folded
}

// Tokens folds s and splits it into stop-word-filtered terms.
func (a *Analyzer) Tokens(s string) []string {
	folded := Fold(s)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// maxDocTerms bounds the distinct terms one document may contribute.
// A document's postings are replaced in a single transaction, and the
// backend rejects transactions past a size limit; the bound keeps a
// pathological document from hitting it.
const maxDocTerms = 4096

// Terms computes the weighted term frequencies for a document's text
// fields: token -> sum over fields of weight(field) * tf(token, field).
// These become the posting values the engine sums at query time.
// At most maxDocTerms terms are kept, preferring the highest-weighted.
func (a *Analyzer) Terms(doc *Document) map[string]float64 {
	terms := make(map[string]float64)
	for field, text := range doc.Text {
		if text == "" {
			continue
		}
		weight := a.Weight(field)
		for _, tok := range a.Tokens(text) {
			terms[tok] += weight
		}
	}
	return capTerms(terms)
}

// capTerms trims terms down to maxDocTerms entries. The selection is
// deterministic (weight descending, then token) because the delete path
// must derive the exact set the write path stored.
func capTerms(terms map[string]float64) map[string]float64 {
	if len(terms) <= maxDocTerms {
		return terms
	}

	type weighted struct {
		token  string
		weight float64
	}
	all := make([]weighted, 0, len(terms))
	for token, weight := range terms {
		all = append(all, weighted{token: token, weight: weight})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight > all[j].weight
		}
		return all[i].token < all[j].token
	})

	capped := make(map[string]float64, maxDocTerms)
	for _, w := range all[:maxDocTerms] {
		capped[w.token] = w.weight
	}
	return capped
}
