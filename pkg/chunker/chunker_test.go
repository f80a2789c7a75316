package chunker

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embymcp/pkg/media"
)

func makeItems(n int) []media.Item {
	items := make([]media.Item, n)
	for i := range items {
		items[i] = media.Item{ItemID: fmt.Sprintf("id-%d", i), Title: fmt.Sprintf("Track %d", i)}
	}
	return items
}

// drain runs StartSearch and then NextChunk until more_chunks_available is
// false, returning every chunk that carried a page.
func drain(t *testing.T, w *Windower, items []media.Item, window int) []Chunk {
	t.Helper()
	chunks := []Chunk{w.StartSearch(items, window)}
	for chunks[len(chunks)-1].MoreChunksAvailable {
		chunks = append(chunks, w.NextChunk())
	}
	return chunks
}

// Concatenated chunks must reproduce the original list exactly: same order,
// no duplicates, no omissions.
func TestPartitionCorrectness(t *testing.T) {
	for _, tc := range []struct{ n, w int }{
		{25, 10}, {10, 3}, {100, 7}, {11, 10}, {2, 1},
	} {
		t.Run(fmt.Sprintf("n=%d w=%d", tc.n, tc.w), func(t *testing.T) {
			items := makeItems(tc.n)
			chunks := drain(t, New(), items, tc.w)

			var got []media.Item
			for _, c := range chunks {
				got = append(got, c.Items...)
			}
			assert.Equal(t, items, got)
		})
	}
}

// Exhausting n items with window w takes exactly ceil(n/w) calls and the
// final chunk reports no more available.
func TestTermination(t *testing.T) {
	for _, tc := range []struct{ n, w int }{
		{25, 10}, {30, 10}, {1, 1}, {99, 10}, {50, 7},
	} {
		items := makeItems(tc.n)
		chunks := drain(t, New(), items, tc.w)

		want := (tc.n + tc.w - 1) / tc.w
		assert.Len(t, chunks, want, "n=%d w=%d", tc.n, tc.w)
		assert.False(t, chunks[len(chunks)-1].MoreChunksAvailable)
	}
}

// After exhaustion NextChunk keeps returning the empty chunk without error.
func TestIdempotentTerminalState(t *testing.T) {
	w := New()
	drain(t, w, makeItems(25), 10)

	for i := 0; i < 3; i++ {
		c := w.NextChunk()
		assert.Equal(t, emptyChunk(), c, "call %d", i)
	}
	assert.False(t, w.active())
}

// Starting a new search mid-pagination discards the prior session.
func TestStartSearchReplacesSession(t *testing.T) {
	w := New()
	first := w.StartSearch(makeItems(30), 10)
	require.True(t, first.MoreChunksAvailable)

	second := w.StartSearch([]media.Item{{ItemID: "other-0"}, {ItemID: "other-1"}, {ItemID: "other-2"}}, 2)
	assert.NotEqual(t, first.SearchID, second.SearchID)
	assert.Equal(t, 3, second.TotalNumberOfItems)

	c := w.NextChunk()
	assert.Equal(t, second.SearchID, c.SearchID)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "other-2", c.Items[0].ItemID)
	assert.False(t, c.MoreChunksAvailable)
}

// A result set that fits in one window is returned whole and no session is
// retained; the immediate NextChunk must not yield a second copy.
func TestFitInOnePage(t *testing.T) {
	items := makeItems(3)
	for _, window := range []int{10, 3, 0, -1} {
		w := New()
		c := w.StartSearch(items, window)
		assert.Equal(t, 3, c.TotalNumberOfItems, "window=%d", window)
		assert.Equal(t, 3, c.ChunkSize)
		assert.Equal(t, 1, c.ChunkNumber)
		assert.False(t, c.MoreChunksAvailable)
		assert.Equal(t, items, c.Items)
		assert.False(t, w.active())

		assert.Equal(t, emptyChunk(), w.NextChunk())
	}
}

func TestScenario25By10(t *testing.T) {
	w := New()
	c := w.StartSearch(makeItems(25), 10)
	assert.Equal(t, 1, c.ChunkNumber)
	assert.Equal(t, 10, c.ChunkSize)
	assert.True(t, c.MoreChunksAvailable)
	assert.Equal(t, 25, c.TotalNumberOfItems)
	searchID := c.SearchID
	require.NotEmpty(t, searchID)

	c = w.NextChunk()
	assert.Equal(t, 2, c.ChunkNumber)
	assert.Equal(t, 10, c.ChunkSize)
	assert.True(t, c.MoreChunksAvailable)
	assert.Equal(t, searchID, c.SearchID)

	c = w.NextChunk()
	assert.Equal(t, 3, c.ChunkNumber)
	assert.Equal(t, 5, c.ChunkSize)
	assert.False(t, c.MoreChunksAvailable)
	assert.Equal(t, searchID, c.SearchID)

	assert.Equal(t, emptyChunk(), w.NextChunk())
}

func TestZeroResults(t *testing.T) {
	w := New()
	c := w.StartSearch(nil, 10)
	assert.NotEmpty(t, c.SearchID)
	assert.Equal(t, 0, c.TotalNumberOfItems)
	assert.Equal(t, 0, c.ChunkSize)
	assert.Equal(t, 0, c.ChunkNumber)
	assert.False(t, c.MoreChunksAvailable)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.False(t, w.active())
}

// Fresh searches never reuse a search id.
func TestSearchIDsUnique(t *testing.T) {
	w := New()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c := w.StartSearch(makeItems(5), 2)
		assert.False(t, seen[c.SearchID])
		seen[c.SearchID] = true
	}
}

// Corrupted control data self-heals: the session is cleared and the caller
// gets the terminal empty chunk, not an error.
func TestCorruptSessionSelfHeals(t *testing.T) {
	cases := map[string]*session{
		"zero total":     {searchID: "s", items: makeItems(5), totalCount: 0, chunkSize: 2},
		"zero chunkSize": {searchID: "s", items: makeItems(5), totalCount: 5, chunkSize: 0},
		"negative count": {searchID: "s", items: makeItems(5), totalCount: 5, chunkSize: 2, chunkNumber: -1},
		"no items":       {searchID: "s", items: nil, totalCount: 5, chunkSize: 2},
	}
	for name, sess := range cases {
		t.Run(name, func(t *testing.T) {
			w := New()
			w.sess = sess
			assert.Equal(t, emptyChunk(), w.NextChunk())
			assert.False(t, w.active())
		})
	}
}

// A session whose offset already ran past the end is the soft-error case:
// the response still identifies the search but carries no page, and the
// session is dropped.
func TestExhaustedOffsetSoftError(t *testing.T) {
	w := New()
	w.sess = &session{searchID: "stale", items: makeItems(4), totalCount: 4, chunkSize: 2, chunkNumber: 2}

	c := w.NextChunk()
	assert.Equal(t, "stale", c.SearchID)
	assert.Equal(t, 4, c.TotalNumberOfItems)
	assert.Equal(t, 0, c.ChunkSize)
	assert.Equal(t, 2, c.ChunkNumber)
	assert.False(t, c.MoreChunksAvailable)
	assert.Empty(t, c.Items)
	assert.False(t, w.active())
}

// Every chunk, including the degenerate ones, marshals with all control
// fields and an items array present.
func TestChunkWireShape(t *testing.T) {
	for name, c := range map[string]Chunk{
		"empty":      emptyChunk(),
		"first page": New().StartSearch(makeItems(25), 10),
	} {
		b, err := json.Marshal(c)
		require.NoError(t, err, name)
		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		for _, key := range []string{"search_id", "total_number_of_items", "chunk_size", "chunk_number", "more_chunks_available", "items"} {
			assert.Contains(t, m, key, "%s missing %s", name, key)
		}
		assert.IsType(t, []any{}, m["items"], name)
	}
}
