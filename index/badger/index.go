package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
)

// Posting scores are weighted term frequencies stored as scaled
// integers; floats never touch the disk format.
const scoreScale = 1000

// ctxCheckInterval bounds how many keys a query scans between context
// deadline checks.
const ctxCheckInterval = 256

// Index is a badger-backed inverted index for one entity type.
// It implements both index.Writer and index.Engine. Badger's snapshot
// transactions give readers a consistent view without blocking writers,
// and each Upsert replaces a document atomically.
type Index struct {
	backend  *Backend
	ns       string
	analyzer *index.Analyzer
	logger   *slog.Logger
}

var _ index.Index = (*Index)(nil)

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndex creates an index over backend under the given namespace.
// The analyzer must be the same one used to build query criteria so
// folded tokens line up between the write and read paths.
func NewIndex(backend *Backend, namespace string, analyzer *index.Analyzer, opts ...Option) (*Index, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	if namespace == "" {
		return nil, ErrNamespaceRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	ix := &Index{
		backend:  backend,
		ns:       namespace,
		analyzer: analyzer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// Upsert stores or replaces the document for doc.Id.
func (ix *Index) Upsert(ctx context.Context, doc *index.Document) error {
	_, err := ix.upsert(ctx, doc)
	return err
}

// upsert reports whether the write was skipped because the stored
// document was already identical.
func (ix *Index) upsert(ctx context.Context, doc *index.Document) (skipped bool, err error) {
	if doc == nil {
		return false, index.ErrNilDocument
	}
	if doc.Id == 0 {
		return false, index.ErrMissingId
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data := index.MarshalDocument(doc)
	fp := make([]byte, 8)
	binary.LittleEndian.PutUint64(fp, index.Fingerprint(doc))

	err = ix.withWriteRetry(func(tx *badger.Txn) error {
		stored, err := readFingerprint(tx, makeFingerprintKey(ix.ns, doc.Id))
		if err != nil {
			return err
		}
		if stored != nil && bytes.Equal(stored, fp) {
			skipped = true
			return nil
		}

		// Replace whole document: postings of the previous version are
		// removed before the new ones are written, all in one txn, so
		// readers see either the old document or the new one.
		old, err := readDocument(tx, makeDocKey(ix.ns, doc.Id))
		if err != nil {
			return err
		}
		if old != nil {
			if err := ix.deletePostings(tx, old); err != nil {
				return err
			}
		}

		if err := tx.Set(makeDocKey(ix.ns, doc.Id), data); err != nil {
			return err
		}
		if err := tx.Set(makeFingerprintKey(ix.ns, doc.Id), fp); err != nil {
			return err
		}
		if err := ix.writePostings(tx, doc); err != nil {
			return err
		}
		return tx.Commit()
	})

	if err != nil {
		return false, fmt.Errorf("indexing document %d: %w", doc.Id, err)
	}
	if skipped {
		ix.logger.Debug("upsert skipped, document unchanged", "namespace", ix.ns, "id", doc.Id)
	}
	return skipped, nil
}

// UpsertMany indexes a batch of documents, reporting failures per
// document. A failed document never blocks the rest of the batch; only
// context cancellation aborts the run.
func (ix *Index) UpsertMany(ctx context.Context, docs []*index.Document) (*index.BatchReport, error) {
	report := &index.BatchReport{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		skipped, err := ix.upsert(ctx, doc)
		switch {
		case err != nil:
			var id core.ID
			if doc != nil {
				id = doc.Id
			}
			ix.logger.Warn("batch upsert failure", "namespace", ix.ns, "id", id, "err", err)
			report.Failed = append(report.Failed, index.BatchFailure{Id: id, Err: err})
		case skipped:
			report.Skipped++
		default:
			report.Indexed++
		}
	}
	return report, nil
}

// Delete removes the document for id. Absent ids are a no-op.
func (ix *Index) Delete(ctx context.Context, id core.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := ix.withWriteRetry(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, makeDocKey(ix.ns, id))
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		if err := ix.deletePostings(tx, doc); err != nil {
			return err
		}
		if err := tx.Delete(makeDocKey(ix.ns, id)); err != nil {
			return err
		}
		if err := tx.Delete(makeFingerprintKey(ix.ns, id)); err != nil {
			return err
		}
		return tx.Commit()
	})

	if err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	return nil
}

// Clear drops every key of this namespace. The caller (full reindex)
// must follow up with a complete rebuild to avoid a lasting empty index.
func (ix *Index) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ix.backend.DropPrefix(makeNamespacePrefix(ix.ns)); err != nil {
		return fmt.Errorf("clearing index %q: %w", ix.ns, err)
	}
	return nil
}

// Search executes criteria and returns the requested page of ranked hits
// plus the pre-pagination total.
func (ix *Index) Search(ctx context.Context, criteria index.Criteria) (*index.Result, error) {
	var hits []scoredHit

	err := ix.backend.View(func(tx *badger.Txn) error {
		tokens := dedupe(ix.analyzer.Tokens(criteria.Keyword))
		if len(tokens) == 0 {
			// A keyword that tokenizes away entirely (stop words,
			// punctuation) matches nothing. Only a truly empty keyword
			// falls through to the match-all scan.
			if strings.TrimSpace(criteria.Keyword) != "" {
				return nil
			}
			var err error
			hits, err = ix.scanAll(ctx, tx, &criteria)
			return err
		}

		scores := make(map[core.ID]int64)
		for _, token := range tokens {
			if err := ix.collectPostings(ctx, tx, token, scores); err != nil {
				return err
			}
		}

		for id, score := range scores {
			if err := checkQueryCtx(ctx); err != nil {
				return err
			}
			doc, err := readDocument(tx, makeDocKey(ix.ns, id))
			if err != nil {
				return err
			}
			if doc == nil {
				// Posting without a document should not happen; treat
				// it as a tombstone rather than corruption.
				continue
			}
			if !criteria.MatchesFilters(doc) {
				continue
			}
			hits = append(hits, scoredHit{
				id:        id,
				score:     score,
				updatedAt: doc.UpdatedAt.UnixMicro(),
				boosted:   doc.Boosted,
			})
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, index.ErrQueryTimeout) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}

	rankHits(hits)
	return paginate(hits, criteria.Skip, criteria.Take), nil
}

// withWriteRetry re-runs a write transaction on optimistic-concurrency
// conflicts. Concurrent upserts to the same id resolve last-writer-wins;
// retrying the loser keeps that guarantee instead of surfacing a
// spurious failure.
func (ix *Index) withWriteRetry(fn func(tx *badger.Txn) error) error {
	const maxAttempts = 5
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = ix.backend.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		ix.logger.Debug("write conflict, retrying", "namespace", ix.ns, "attempt", attempt)
	}
	return err
}

// scoredHit carries the tie-break keys alongside the score so ranking
// never has to re-read documents.
type scoredHit struct {
	id        core.ID
	score     int64
	updatedAt int64
	boosted   bool
}

// rankHits orders by score descending, then recency, then the urgency
// boost, then ascending id. The id tie-break makes ordering fully
// deterministic.
func rankHits(hits []scoredHit) {
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.updatedAt != b.updatedAt {
			return a.updatedAt > b.updatedAt
		}
		if a.boosted != b.boosted {
			return a.boosted
		}
		return a.id < b.id
	})
}

func paginate(hits []scoredHit, skip, take int) *index.Result {
	total := len(hits)
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}
	end := total
	if take > 0 && skip+take < total {
		end = skip + take
	}

	page := make([]index.Hit, 0, end-skip)
	for _, h := range hits[skip:end] {
		page = append(page, index.Hit{Id: h.id, Score: float64(h.score) / scoreScale})
	}
	return &index.Result{Hits: page, Total: total}
}

// scanAll handles the match-all path: every document, filter-checked,
// with zero text score so ordering falls through to recency.
func (ix *Index) scanAll(ctx context.Context, tx *badger.Txn, criteria *index.Criteria) ([]scoredHit, error) {
	var hits []scoredHit

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeDocPrefix(ix.ns)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	n := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		if n++; n%ctxCheckInterval == 0 {
			if err := checkQueryCtx(ctx); err != nil {
				return nil, err
			}
		}

		var doc *index.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = index.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if !criteria.MatchesFilters(doc) {
			continue
		}
		hits = append(hits, scoredHit{
			id:        doc.Id,
			updatedAt: doc.UpdatedAt.UnixMicro(),
			boosted:   doc.Boosted,
		})
	}
	return hits, nil
}

// collectPostings adds the weighted scores of one query token into
// scores, OR-merging with the other tokens.
func (ix *Index) collectPostings(ctx context.Context, tx *badger.Txn, token string, scores map[core.ID]int64) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePostingPrefix(ix.ns, token)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	n := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		if n++; n%ctxCheckInterval == 0 {
			if err := checkQueryCtx(ctx); err != nil {
				return err
			}
		}

		id := postingId(iter.Item().Key())
		var score int64
		err := iter.Item().Value(func(val []byte) error {
			var err error
			score, _, err = varint.UnmarshalInt64(val)
			return err
		})
		if err != nil {
			return err
		}
		scores[id] += score
	}
	return nil
}

// writePostings stores one posting per analyzed term of the document.
// The analyzer caps terms per document, so the whole replacement stays
// within a single transaction.
func (ix *Index) writePostings(tx *badger.Txn, doc *index.Document) error {
	for token, weight := range ix.analyzer.Terms(doc) {
		scaled := int64(math.Round(weight * scoreScale))
		buf := make([]byte, varint.SizeInt64(scaled))
		varint.MarshalInt64(scaled, buf)
		if err := tx.Set(makePostingKey(ix.ns, token, doc.Id), buf); err != nil {
			return err
		}
	}
	return nil
}

// deletePostings removes the postings derived from a stored document.
func (ix *Index) deletePostings(tx *badger.Txn, doc *index.Document) error {
	for token := range ix.analyzer.Terms(doc) {
		if err := tx.Delete(makePostingKey(ix.ns, token, doc.Id)); err != nil {
			return err
		}
	}
	return nil
}

func readDocument(tx *badger.Txn, key []byte) (*index.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *index.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = index.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

func readFingerprint(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// checkQueryCtx maps a blown deadline onto the query timeout sentinel.
func checkQueryCtx(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", index.ErrQueryTimeout, err)
	default:
		return err
	}
}

func dedupe(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
