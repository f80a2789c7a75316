package emby

import (
	"context"
	"net/url"

	"embymcp/pkg/media"
)

// Libraries lists the server's media libraries. Only CollectionFolder
// entries are included; virtual views are skipped.
func (c *Client) Libraries(ctx context.Context) ([]media.Library, error) {
	var env itemsEnvelope
	if err := c.do(ctx, "GET", "/Library/MediaFolders", "libraries", nil, nil, &env); err != nil {
		return nil, err
	}
	libs := make([]media.Library, 0, len(env.Items))
	for _, it := range env.Items {
		if it.Type != "CollectionFolder" {
			continue
		}
		libs = append(libs, media.Library{Name: it.Name, ID: it.ID, Type: it.CollectionType})
	}
	return libs, nil
}

// Genres returns the genre names available within the given library, or
// across the whole server when libraryID is empty.
func (c *Client) Genres(ctx context.Context, libraryID string) ([]string, error) {
	q := url.Values{"Recursive": {"true"}}
	if libraryID != "" {
		q.Set("ParentId", libraryID)
	}
	var env itemsEnvelope
	if err := c.do(ctx, "GET", "/Genres", "genres", q, nil, &env); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(env.Items))
	for _, it := range env.Items {
		genres = append(genres, it.Name)
	}
	return genres, nil
}
