// Package chunker implements the windowed delivery of search results to the
// calling agent. A search can match far more items than the agent can
// consume in one round trip, so the full result set is materialised once,
// split into fixed-size chunks and handed out one chunk per call.
//
// The Windower holds at most one session at a time. Starting a new search
// discards any unfinished session, and the session is destroyed the moment
// the last chunk is delivered. Malformed or exhausted state never produces
// an error: the caller is an automated agent that must always receive a
// well-formed document it can parse and act on, so every degenerate case
// degrades to an empty Chunk instead.
package chunker

import (
	"sync"

	"github.com/google/uuid"

	"embymcp/pkg/media"
)

// Chunk is one page of search results plus the pagination control data the
// agent uses to decide whether to ask for more. ChunkSize is the number of
// items in this chunk, which on the final page may be smaller than the
// window size. ChunkNumber is the one-based count of delivered pages; it is
// zero only on responses that carry no page at all.
type Chunk struct {
	SearchID            string       `json:"search_id"`
	TotalNumberOfItems  int          `json:"total_number_of_items"`
	ChunkSize           int          `json:"chunk_size"`
	ChunkNumber         int          `json:"chunk_number"`
	MoreChunksAvailable bool         `json:"more_chunks_available"`
	Items               []media.Item `json:"items"`
}

// session tracks pagination progress for one search. chunkNumber counts
// chunks already delivered, so the next chunk starts at
// chunkNumber*chunkSize.
type session struct {
	searchID    string
	items       []media.Item
	totalCount  int
	chunkSize   int
	chunkNumber int
}

// valid reports whether the stored control data is structurally sane. A
// session that fails this check is discarded rather than trusted.
func (s *session) valid() bool {
	return s.totalCount > 0 && s.chunkSize > 0 && s.chunkNumber >= 0 && len(s.items) > 0
}

// Windower owns the single result-window slot for one logical agent
// session. It is safe for concurrent use; overlapping tool calls are
// serialised so a new search atomically replaces any in-flight pagination.
type Windower struct {
	mu   sync.Mutex
	sess *session
}

// New returns a Windower with no active session.
func New() *Windower {
	return &Windower{}
}

// emptyChunk is the terminal "nothing more to give" response. The items
// slice is non-nil so the document always marshals with an items array.
func emptyChunk() Chunk {
	return Chunk{Items: []media.Item{}}
}

// StartSearch installs a fresh result set and returns the first chunk. Any
// previously stored session is discarded unconditionally. When the result
// set fits in a single chunk (or maxWindow is zero or negative, meaning
// unwindowed) the whole set is returned at once and no session is kept.
func (w *Windower) StartSearch(items []media.Item, maxWindow int) Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sess = nil
	total := len(items)
	searchID := uuid.NewString()

	if total == 0 {
		c := emptyChunk()
		c.SearchID = searchID
		return c
	}
	if maxWindow <= 0 || maxWindow >= total {
		return Chunk{
			SearchID:           searchID,
			TotalNumberOfItems: total,
			ChunkSize:          total,
			ChunkNumber:        1,
			Items:              items,
		}
	}

	w.sess = &session{
		searchID:   searchID,
		items:      items,
		totalCount: total,
		chunkSize:  maxWindow,
	}
	// The first chunk goes through the same path as every later one so
	// the page-advance logic lives in exactly one place.
	return w.nextLocked()
}

// NextChunk returns the next chunk of the active session. With no session
// stored it returns the empty Chunk, and it is safe to call repeatedly
// after exhaustion.
func (w *Windower) NextChunk() Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nextLocked()
}

func (w *Windower) nextLocked() Chunk {
	s := w.sess
	if s == nil {
		return emptyChunk()
	}
	if !s.valid() {
		// Corrupted control data: clear and answer as if no session
		// existed rather than failing the call.
		w.sess = nil
		return emptyChunk()
	}

	start := s.chunkNumber * s.chunkSize
	remaining := s.totalCount - start
	if remaining <= 0 {
		// Nothing left but the caller asked anyway. Soft error: report
		// what we know about the search and drop the session.
		c := emptyChunk()
		c.SearchID = s.searchID
		c.TotalNumberOfItems = s.totalCount
		c.ChunkNumber = s.chunkNumber
		w.sess = nil
		return c
	}

	size := s.chunkSize
	more := true
	if remaining <= s.chunkSize {
		size = remaining
		more = false
	}
	page := s.items[start : start+size]

	delivered := s.chunkNumber + 1
	if more {
		s.chunkNumber = delivered
	} else {
		w.sess = nil
	}

	return Chunk{
		SearchID:            s.searchID,
		TotalNumberOfItems:  s.totalCount,
		ChunkSize:           size,
		ChunkNumber:         delivered,
		MoreChunksAvailable: more,
		Items:               page,
	}
}

// active reports whether a session is currently mid-pagination.
func (w *Windower) active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess != nil
}
