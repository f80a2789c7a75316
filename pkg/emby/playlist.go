package emby

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"embymcp/pkg/media"
)

// ErrNoPlaylistLibrary is returned when the server has no playlists
// library, so playlist operations cannot be performed.
var ErrNoPlaylistLibrary = errors.New("no playlist library is available on the server")

const playlistFields = "Genres,MediaSources,DateCreated,Overview,ProductionYear,PremiereDate,ParentId"

// playlistLibraryID finds the server's playlists library.
func (c *Client) playlistLibraryID(ctx context.Context) (string, error) {
	libs, err := c.Libraries(ctx)
	if err != nil {
		return "", err
	}
	for _, lib := range libs {
		if lib.Type == "playlists" {
			return lib.ID, nil
		}
	}
	return "", ErrNoPlaylistLibrary
}

// accessEnvelope is the QueryResult returned by the item access endpoint.
type accessEnvelope struct {
	Items []struct {
		Name               string `json:"Name"`
		ID                 string `json:"Id"`
		UserItemShareLevel string `json:"UserItemShareLevel"`
	} `json:"Items"`
	TotalRecordCount int `json:"TotalRecordCount"`
}

// Playlists lists the playlists visible to the user, or the single playlist
// named by playlistID. Per-playlist user access is looked up separately;
// failures there are ignored since they usually just mean the list is not
// ours to manage.
func (c *Client) Playlists(ctx context.Context, playlistID string) ([]media.Playlist, error) {
	libID, err := c.playlistLibraryID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"ParentId":  {libID},
		"Recursive": {"true"},
		"Fields":    {playlistFields},
	}
	if playlistID != "" {
		q.Set("Ids", playlistID)
	}
	var env itemsEnvelope
	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	if err := c.do(ctx, "GET", path, "playlists", q, nil, &env); err != nil {
		return nil, err
	}

	lists := make([]media.Playlist, 0, len(env.Items))
	for _, it := range env.Items {
		if !strings.EqualFold(it.Type, "Playlist") {
			continue
		}
		pl := media.Playlist{
			Name:        it.Name,
			Overview:    it.Overview,
			Genres:      it.Genres,
			DateCreated: it.DateCreated,
			RunTime:     ticksToClock(it.RunTimeTicks),
			UserAccess:  []media.AccessEntry{},
			MediaType:   it.Type,
			PlaylistID:  it.ID,
		}
		if pl.Genres == nil {
			pl.Genres = []string{}
		}

		var acc accessEnvelope
		aq := url.Values{"ItemId": {it.ID}}
		if err := c.do(ctx, "GET", "/Users/ItemAccess", "playlist_access", aq, nil, &acc); err == nil {
			for _, u := range acc.Items {
				entry := media.AccessEntry{UserName: u.Name, UserID: u.ID, AccessLevel: u.UserItemShareLevel}
				pl.UserAccess = append(pl.UserAccess, entry)
				if u.ID == c.userID && (u.UserItemShareLevel == "Manage" || u.UserItemShareLevel == "ManageDelete") {
					pl.CanShare = true
				}
			}
		}
		lists = append(lists, pl)
	}
	return lists, nil
}

// PlaylistItems returns the audio and video entries on a playlist in play
// order. Each entry carries its playlist-local id, which removal and
// reordering operate on.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]media.PlaylistEntry, error) {
	q := url.Values{
		"UserId": {c.userID},
		"Fields": {"Genres,MediaStreams,DateCreated,Overview"},
	}
	var env itemsEnvelope
	path := fmt.Sprintf("/Playlists/%s/Items", playlistID)
	if err := c.do(ctx, "GET", path, "playlist_items", q, nil, &env); err != nil {
		return nil, err
	}

	entries := make([]media.PlaylistEntry, 0, len(env.Items))
	for i := range env.Items {
		it := &env.Items[i]
		if !strings.EqualFold(it.MediaType, "Audio") && !strings.EqualFold(it.MediaType, "Video") {
			continue
		}
		entries = append(entries, media.PlaylistEntry{
			Item:    it.toItem(),
			EntryID: it.PlaylistItemID,
			Index:   strconv.Itoa(len(entries)),
		})
	}
	return entries, nil
}

// CreatePlaylist makes a new, initially empty playlist and returns its id.
// mediaType defaults to Audio. Names are unique ignoring case; creating a
// second playlist with an existing name is rejected.
func (c *Client) CreatePlaylist(ctx context.Context, name, mediaType, overview string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("playlist name cannot be empty")
	}
	existing, err := c.Playlists(ctx, "")
	if err != nil && !errors.Is(err, ErrNoPlaylistLibrary) {
		return "", err
	}
	for _, pl := range existing {
		if strings.EqualFold(pl.Name, name) {
			return "", fmt.Errorf("playlist with name %q already exists", name)
		}
	}
	if mediaType == "" {
		mediaType = "Audio"
	}

	q := url.Values{"Name": {name}, "MediaType": {mediaType}}
	var res struct {
		ID string `json:"Id"`
	}
	if err := c.do(ctx, "POST", "/Playlists", "create_playlist", q, nil, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", errors.New("server did not return a playlist id")
	}
	if overview != "" {
		if err := c.updateItemFields(ctx, res.ID, "", overview); err != nil {
			return res.ID, err
		}
	}
	return res.ID, nil
}

// UpdatePlaylist changes the name and/or overview of an existing playlist.
// At least one of the two must be non-empty.
func (c *Client) UpdatePlaylist(ctx context.Context, playlistID, name, overview string) error {
	if name == "" && overview == "" {
		return errors.New("no changes specified, provide at least one of: name, overview")
	}
	if name != "" {
		existing, err := c.Playlists(ctx, "")
		if err != nil && !errors.Is(err, ErrNoPlaylistLibrary) {
			return err
		}
		for _, pl := range existing {
			if strings.EqualFold(pl.Name, name) && pl.PlaylistID != playlistID {
				return fmt.Errorf("playlist with name %q already exists", name)
			}
		}
	}
	return c.updateItemFields(ctx, playlistID, name, overview)
}

// updateItemFields edits metadata on an item. The item update endpoint
// replaces the whole object, so the current one is fetched first and posted
// back with the changed fields.
func (c *Client) updateItemFields(ctx context.Context, itemID, name, overview string) error {
	var obj map[string]any
	getPath := fmt.Sprintf("/Users/%s/Items/%s", c.userID, itemID)
	if err := c.do(ctx, "GET", getPath, "get_item", nil, nil, &obj); err != nil {
		return err
	}
	if name != "" {
		obj["Name"] = name
	}
	if overview != "" {
		obj["Overview"] = overview
	}
	postPath := fmt.Sprintf("/Items/%s", itemID)
	return c.do(ctx, "POST", postPath, "update_item", nil, obj, nil)
}

// AddPlaylistItems appends the comma separated catalog item ids to the
// playlist and reports how many were added. Emby silently skips ids it
// cannot add, so a zero count is surfaced as an error.
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID, itemIDs string) (int, error) {
	q := url.Values{"Ids": {itemIDs}, "UserId": {c.userID}}
	var res struct {
		ItemAddedCount int `json:"ItemAddedCount"`
	}
	path := fmt.Sprintf("/Playlists/%s/Items", playlistID)
	if err := c.do(ctx, "POST", path, "add_playlist_items", q, nil, &res); err != nil {
		return 0, err
	}
	if res.ItemAddedCount == 0 {
		return 0, errors.New("no items were added to the playlist")
	}
	return res.ItemAddedCount, nil
}

// RemovePlaylistItems deletes entries from a playlist. entryIDs is a comma
// separated list of playlist entry ids, not catalog item ids.
func (c *Client) RemovePlaylistItems(ctx context.Context, playlistID, entryIDs string) error {
	q := url.Values{"EntryIds": {entryIDs}}
	path := fmt.Sprintf("/Playlists/%s/Items/Delete", playlistID)
	return c.do(ctx, "POST", path, "remove_playlist_items", q, nil, nil)
}

// MovePlaylistItem moves one entry to a new zero-based position.
func (c *Client) MovePlaylistItem(ctx context.Context, playlistID, entryID string, newIndex int) error {
	path := fmt.Sprintf("/Playlists/%s/Items/%s/Move/%d", playlistID, entryID, newIndex)
	return c.do(ctx, "POST", path, "move_playlist_item", nil, nil, nil)
}

// SetSharing changes who can see a playlist. ShareUsers grants the given
// users the given access level and requires both to be set; the other modes
// flip the playlist's public visibility.
func (c *Client) SetSharing(ctx context.Context, playlistID string, mode media.ShareMode, userIDs []string, access string) error {
	switch mode {
	case media.SharePublic:
		path := fmt.Sprintf("/Items/%s/MakePublic", playlistID)
		return c.do(ctx, "POST", path, "share_playlist", nil, nil, nil)
	case media.SharePrivate:
		path := fmt.Sprintf("/Items/%s/MakePrivate", playlistID)
		return c.do(ctx, "POST", path, "share_playlist", nil, nil, nil)
	case media.ShareUsers:
		if len(userIDs) == 0 || access == "" {
			return fmt.Errorf("share mode %s requires user ids and an access level", mode)
		}
		body := map[string]any{
			"ItemIds":    []string{playlistID},
			"UserIds":    userIDs,
			"ItemAccess": access,
		}
		return c.do(ctx, "POST", "/Items/Access", "share_playlist", nil, body, nil)
	default:
		return fmt.Errorf("invalid share mode %q, must be one of: Public, Private, Shared", mode)
	}
}
