package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"embymcp/pkg/media"
)

func (s *Server) tCreatePlaylist(ctx context.Context, args map[string]any) (any, error) {
	name := str(args["playlist_name"])
	if name == "" {
		return "ERROR: no playlist name was supplied.", nil
	}
	mediaType := str(args["media_type"])
	description := str(args["description"])
	itemIDs := str(args["item_ids"])

	id, err := s.Playlists.CreatePlaylist(ctx, name, mediaType, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	result := map[string]any{"playlist_id": id, "success": true}
	if itemIDs != "" {
		if _, err := s.Playlists.AddPlaylistItems(ctx, id, itemIDs); err != nil {
			// The playlist exists at this point, so report its id
			// along with the add failure instead of erroring out.
			result["error"] = fmt.Sprintf("ERROR: successfully created the playlist but failed to add items to it because: %v", err)
		}
	}
	return result, nil
}

func (s *Server) tModifyPlaylist(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	if id == "" {
		return "ERROR: no playlist_id was supplied. Obtain playlist_id from tool retrieve_playlist_list", nil
	}
	if err := s.Playlists.UpdatePlaylist(ctx, id, str(args["new_name"]), str(args["new_description"])); err != nil {
		return nil, fmt.Errorf("failed to modify playlist: %w", err)
	}
	return "Playlist successfully modified", nil
}

func (s *Server) tPlaylistList(ctx context.Context, args map[string]any) (any, error) {
	lists, err := s.Playlists.Playlists(ctx, str(args["playlist_id"]))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve list of playlists: %w", err)
	}
	// Surface the friendly access name instead of Emby's internal one.
	for i := range lists {
		for j := range lists[i].UserAccess {
			if lists[i].UserAccess[j].AccessLevel == "ManageDelete" {
				lists[i].UserAccess[j].AccessLevel = "Full Control"
			}
		}
	}
	return lists, nil
}

func (s *Server) tPlaylistItems(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	if id == "" {
		return "ERROR: no playlist_id was supplied. Obtain playlist_id from tool retrieve_playlist_list", nil
	}
	entries, err := s.Playlists.PlaylistItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve list of items for playlist ID %s: %w", id, err)
	}
	return entries, nil
}

func (s *Server) tAddPlaylistItems(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	itemIDs := str(args["item_ids"])
	if id == "" || itemIDs == "" {
		return "ERROR: both playlist_id and item_ids must be supplied.", nil
	}
	n, err := s.Playlists.AddPlaylistItems(ctx, id, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to add items to playlist ID %s: %w", id, err)
	}
	return fmt.Sprintf("Successfully added %d items to playlist.", n), nil
}

func (s *Server) tRemovePlaylistItems(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	entryIDs := str(args["playlist_item_numbers"])
	if id == "" || entryIDs == "" {
		return "ERROR: both playlist_id and playlist_item_numbers must be supplied.", nil
	}
	if err := s.Playlists.RemovePlaylistItems(ctx, id, entryIDs); err != nil {
		return nil, fmt.Errorf("failed to remove items from playlist ID %s: %w", id, err)
	}
	return "Successfully removed items from playlist.", nil
}

func (s *Server) tReorderPlaylist(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	entryID := str(args["playlist_item_number"])
	indexStr := str(args["playlist_item_index"])
	if id == "" || entryID == "" || indexStr == "" {
		return "ERROR: playlist_id, playlist_item_number and playlist_item_index must all be supplied.", nil
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return fmt.Sprintf("ERROR: playlist_item_index must be a zero-based position, got %q", indexStr), nil
	}
	if err := s.Playlists.MovePlaylistItem(ctx, id, entryID, index); err != nil {
		return nil, fmt.Errorf("failed to reorder items on playlist ID %s: %w", id, err)
	}
	return "Successfully reordered items on playlist.", nil
}

func (s *Server) tSharePublic(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	if id == "" {
		return "ERROR: no playlist_id was supplied. Obtain playlist_id from tool retrieve_playlist_list", nil
	}
	if err := s.Playlists.SetSharing(ctx, id, media.SharePublic, nil, ""); err != nil {
		return nil, fmt.Errorf("failed to share playlist ID %s: %w", id, err)
	}
	return "Successfully shared playlist with other users.", nil
}

// accessLevels are the levels the sharing tool accepts, including the
// friendly alias for ManageDelete.
var accessLevels = map[string]string{
	"None":         "None",
	"Read":         "Read",
	"Write":        "Write",
	"Manage":       "Manage",
	"ManageDelete": "ManageDelete",
	"Full Control": "ManageDelete",
}

func (s *Server) tShareUserAccess(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	userIDs := str(args["user_ids"])
	level := str(args["access_level"])
	if id == "" || userIDs == "" {
		return "ERROR: both playlist_id and user_ids must be supplied.", nil
	}
	mapped, ok := accessLevels[level]
	if !ok {
		return fmt.Sprintf("ERROR: unknown access_level %s.", level), nil
	}
	if err := s.Playlists.SetSharing(ctx, id, media.ShareUsers, strings.Split(userIDs, ","), mapped); err != nil {
		return nil, fmt.Errorf("failed to share playlist ID %s: %w", id, err)
	}
	return "Successfully shared playlist with other users.", nil
}

func (s *Server) tStopSharing(ctx context.Context, args map[string]any) (any, error) {
	id := str(args["playlist_id"])
	if id == "" {
		return "ERROR: no playlist_id was supplied. Obtain playlist_id from tool retrieve_playlist_list", nil
	}
	if err := s.Playlists.SetSharing(ctx, id, media.SharePrivate, nil, ""); err != nil {
		return nil, fmt.Errorf("failed to stop sharing playlist ID %s: %w", id, err)
	}
	return "Successfully stopped sharing playlist with other users.", nil
}
