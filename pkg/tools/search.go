package tools

import (
	"context"
	"fmt"
	"strings"

	"embymcp/pkg/media"
	"embymcp/pkg/metrics"
)

// errDoc wraps an error message in the {"error": ...} document shape the
// search tools use, so the agent always receives parseable JSON.
func errDoc(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// tSearchForItem runs a catalog search against the selected library and
// returns the first chunk of the windowed result set. Failures do not
// disturb any pagination already in progress.
func (s *Server) tSearchForItem(ctx context.Context, args map[string]any) (any, error) {
	lib := s.currentLibrary()
	if lib == nil {
		return errDoc(errNoLibrarySelected), nil
	}

	f := media.SearchFilters{
		SearchTerm: str(args["title_or_album"]),
		Artist:     str(args["artist_name"]),
		Genre:      str(args["genre_name"]),
		Years:      str(args["broadcast_release_years"]),
		Lyrics:     str(args["lyrics_or_description"]),
	}

	items, err := s.Catalog.SearchItems(ctx, lib.ID, f)
	if err != nil {
		return errDoc(fmt.Sprintf("ERROR: failed to retrieve item list because: %v", err)), nil
	}
	metrics.SearchResultItems.Observe(float64(len(items)))

	chunk := s.Windower.StartSearch(items, s.MaxItems)
	metrics.ChunksDelivered.Inc()

	if s.Recorder != nil {
		if err := s.Recorder.RecordSearch(ctx, chunk.SearchID, lib.Name, searchSummary(f), len(items)); err != nil {
			s.Log.WithError(err).Warn("failed to record search")
		}
	}
	return chunk, nil
}

// tNextSearchChunk hands out the next page of the active search. With no
// active search it returns the canonical empty document, repeatedly if
// asked.
func (s *Server) tNextSearchChunk(_ context.Context) (any, error) {
	chunk := s.Windower.NextChunk()
	metrics.ChunksDelivered.Inc()
	return chunk, nil
}

// searchSummary flattens the filters into a short audit-log line.
func searchSummary(f media.SearchFilters) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("term", f.SearchTerm)
	add("artist", f.Artist)
	add("genre", f.Genre)
	add("years", f.Years)
	add("lyrics", f.Lyrics)
	return strings.Join(parts, " ")
}
