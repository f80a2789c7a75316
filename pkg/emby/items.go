package emby

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"embymcp/pkg/media"
)

// itemFields are the extra metadata fields requested with item queries.
const itemFields = "Genres,MediaSources,DateCreated,Overview,ProductionYear,PremiereDate,Path"

// itemsEnvelope is Emby's standard QueryResult wire shape.
type itemsEnvelope struct {
	Items            []embyItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
}

// embyItem is the subset of Emby's BaseItemDto consumed by this client.
type embyItem struct {
	Name              string   `json:"Name"`
	ID                string   `json:"Id"`
	Type              string   `json:"Type"`
	CollectionType    string   `json:"CollectionType"`
	Artists           []string `json:"Artists"`
	Album             string   `json:"Album"`
	AlbumID           string   `json:"AlbumId"`
	AlbumArtist       string   `json:"AlbumArtist"`
	ParentIndexNumber int      `json:"ParentIndexNumber"`
	IndexNumber       int      `json:"IndexNumber"`
	DateCreated       string   `json:"DateCreated"`
	PremiereDate      string   `json:"PremiereDate"`
	ProductionYear    int      `json:"ProductionYear"`
	Genres            []string `json:"Genres"`
	Overview          string   `json:"Overview"`
	MediaType         string   `json:"MediaType"`
	Bitrate           int      `json:"Bitrate"`
	RunTimeTicks      int64    `json:"RunTimeTicks"`
	Path              string   `json:"Path"`
	PlaylistItemID    string   `json:"PlaylistItemId"`
	MediaSources      []struct {
		MediaStreams []struct {
			Title                string `json:"Title"`
			IsTextSubtitleStream bool   `json:"IsTextSubtitleStream"`
			Extradata            string `json:"Extradata"`
		} `json:"MediaStreams"`
	} `json:"MediaSources"`
}

// lyrics pulls embedded lyrics out of the item's media streams. Emby stores
// them as a text subtitle stream titled "lyrics".
func (it *embyItem) lyrics() string {
	for _, src := range it.MediaSources {
		for _, stream := range src.MediaStreams {
			if stream.IsTextSubtitleStream && strings.EqualFold(stream.Title, "lyrics") {
				return stream.Extradata
			}
		}
	}
	return ""
}

// toItem converts the raw wire item into the curated agent-facing shape.
func (it *embyItem) toItem() media.Item {
	item := media.Item{
		Title:          it.Name,
		Artists:        it.Artists,
		Album:          it.Album,
		AlbumID:        it.AlbumID,
		AlbumArtist:    it.AlbumArtist,
		DiskNumber:     it.ParentIndexNumber,
		TrackNumber:    it.IndexNumber,
		CreationDate:   it.DateCreated,
		PremiereDate:   it.PremiereDate,
		ProductionYear: it.ProductionYear,
		Genres:         it.Genres,
		Overview:       it.Overview,
		Lyrics:         it.lyrics(),
		MediaType:      it.MediaType,
		RunTime:        ticksToClock(it.RunTimeTicks),
		Bitrate:        it.Bitrate,
		ItemID:         it.ID,
		FilePath:       it.Path,
	}
	if item.Artists == nil {
		item.Artists = []string{}
	}
	if item.Genres == nil {
		item.Genres = []string{}
	}
	return item
}

// SearchItems queries the catalog for Audio and Video items matching the
// filters, scoped to libraryID when non-empty. Filter criteria narrow the
// selection; Emby has no lyrics search, so the lyrics phrase is matched
// client-side against the lyrics and overview of each returned item using
// diacritics-insensitive folding.
func (c *Client) SearchItems(ctx context.Context, libraryID string, f media.SearchFilters) ([]media.Item, error) {
	q := url.Values{
		"Recursive":  {"true"},
		"MediaTypes": {"Audio,Video"},
		"Fields":     {itemFields},
	}
	if libraryID != "" {
		q.Set("ParentId", libraryID)
	}
	if f.SearchTerm != "" {
		q.Set("SearchTerm", f.SearchTerm)
	}
	if f.Artist != "" {
		q.Set("Artists", f.Artist)
	}
	if f.Genre != "" {
		q.Set("Genres", f.Genre)
	}
	if f.Years != "" {
		q.Set("Years", f.Years)
	}
	if f.FirstDate != "" {
		q.Set("MinStartDate", f.FirstDate)
	}
	if f.LastDate != "" {
		q.Set("MaxEndDate", f.LastDate)
	}
	var flags []string
	if f.IsUnplayed {
		flags = append(flags, "IsUnplayed")
	}
	if f.IsPlayed {
		flags = append(flags, "IsPlayed")
	}
	if f.IsFavorite {
		flags = append(flags, "IsFavorite")
	}
	if len(flags) > 0 {
		q.Set("Filters", strings.Join(flags, ","))
	}
	if f.Limit > 0 {
		q.Set("Limit", strconv.Itoa(f.Limit))
	}

	var env itemsEnvelope
	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	if err := c.do(ctx, "GET", path, "search_items", q, nil, &env); err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(env.Items))
	for i := range env.Items {
		item := env.Items[i].toItem()
		if f.Lyrics != "" && !foldContains(item.Lyrics, f.Lyrics) && !foldContains(item.Overview, f.Lyrics) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
