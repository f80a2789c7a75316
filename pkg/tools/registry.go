package tools

// initTools defines the schemas and descriptions surfaced to MCP clients.
// The descriptions are written for the consuming agent: they spell out
// where argument values come from and how the pagination control data is
// meant to be used.
func (s *Server) initTools() {
	obj := func(props map[string]any, required ...string) map[string]any {
		schema := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	}
	strProp := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}

	s.tools = []ToolDesc{
		{
			Name:        "retrieve_user_list",
			Description: "Retrieve the media server's user names and user IDs.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name:        "retrieve_library_list",
			Description: "Retrieve the list of media libraries, each with name, id and type.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name:        "select_library",
			Description: "Select the library that later searches operate on, by library name.",
			InputSchema: obj(map[string]any{
				"library_name": strProp("Name of the library, obtained from tool retrieve_library_list."),
			}, "library_name"),
		},
		{
			Name:        "retrieve_current_library",
			Description: "Retrieve the currently selected library.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name:        "retrieve_genre_list",
			Description: "Retrieve the genres available in the currently selected library.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name: "search_for_item",
			Description: "Search the selected library for media items by title or album, artist, genre, " +
				"release years and lyrics phrase. Parameters AND together to narrow the results. " +
				"The response carries control data (total_number_of_items, chunk_size, chunk_number, " +
				"more_chunks_available); when more_chunks_available is true, fetch the remaining results " +
				"with retrieve_next_search_chunk. Use the returned item_id values with other tools.",
			InputSchema: obj(map[string]any{
				"title_or_album":          strProp("Name of the item, track, episode or album."),
				"artist_name":             strProp("Name of the artist."),
				"genre_name":              strProp("A genre name returned by tool retrieve_genre_list."),
				"broadcast_release_years": strProp("Release year(s), comma separated."),
				"lyrics_or_description":   strProp("A phrase to find in the lyrics or long description."),
			}),
		},
		{
			Name: "retrieve_next_search_chunk",
			Description: "Retrieve the next chunk of results from the search started by search_for_item. " +
				"Repeat until more_chunks_available is false or no data is returned.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name:        "create_playlist",
			Description: "Create a new playlist, optionally with a description and initial items.",
			InputSchema: obj(map[string]any{
				"playlist_name": strProp("Name for the new playlist."),
				"media_type":    strProp("Type of media the playlist accepts, 'Audio' or 'Video'. Defaults to 'Audio'."),
				"description":   strProp("A short description of the playlist."),
				"item_ids":      strProp("Comma separated item_id values from search_for_item to add on creation."),
			}, "playlist_name"),
		},
		{
			Name:        "modify_playlist_name",
			Description: "Change the name and/or description of an existing playlist.",
			InputSchema: obj(map[string]any{
				"playlist_id":     strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
				"new_name":        strProp("New name, or empty for no change."),
				"new_description": strProp("New description, or empty for no change."),
			}, "playlist_id"),
		},
		{
			Name:        "retrieve_playlist_list",
			Description: "Retrieve the playlists available to us, or a single playlist when playlist_id is given.",
			InputSchema: obj(map[string]any{
				"playlist_id": strProp("Restrict the listing to this playlist ID, or empty for all playlists."),
			}),
		},
		{
			Name:        "retrieve_playlist_items",
			Description: "Retrieve the media items on a playlist in play order, including each item's playlist_item_number.",
			InputSchema: obj(map[string]any{
				"playlist_id": strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
			}, "playlist_id"),
		},
		{
			Name:        "add_items_to_playlist",
			Description: "Add one or more items to the end of an existing playlist.",
			InputSchema: obj(map[string]any{
				"playlist_id": strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
				"item_ids":    strProp("Comma separated item_id values from search_for_item."),
			}, "playlist_id", "item_ids"),
		},
		{
			Name:        "remove_items_from_playlist",
			Description: "Remove one or more items from a playlist by their playlist_item_number.",
			InputSchema: obj(map[string]any{
				"playlist_id":           strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
				"playlist_item_numbers": strProp("Comma separated playlist_item_number values from retrieve_playlist_items."),
			}, "playlist_id", "playlist_item_numbers"),
		},
		{
			Name:        "reorder_items_on_playlist",
			Description: "Move one item to a new position on a playlist. The position is the zero-based playlist_item_index.",
			InputSchema: obj(map[string]any{
				"playlist_id":          strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
				"playlist_item_number": strProp("The playlist_item_number of the item to move, from retrieve_playlist_items."),
				"playlist_item_index":  strProp("The new zero-based position; zero is the top of the list."),
			}, "playlist_id", "playlist_item_number", "playlist_item_index"),
		},
		{
			Name:        "share_playlist_public",
			Description: "Share a playlist with all other users of the media server as Read access.",
			InputSchema: obj(map[string]any{
				"playlist_id": strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
			}, "playlist_id"),
		},
		{
			Name:        "share_playlist_user_access",
			Description: "Share a playlist with specific users at a specific access level.",
			InputSchema: obj(map[string]any{
				"playlist_id":  strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
				"user_ids":     strProp("Comma separated user_id values from retrieve_user_list."),
				"access_level": strProp("One of: 'None', 'Read', 'Write', 'Manage', 'Full Control'."),
			}, "playlist_id", "user_ids", "access_level"),
		},
		{
			Name: "stop_sharing_playlist",
			Description: "Stop the public sharing of a playlist. Users granted specific access keep it; " +
				"check with retrieve_playlist_list and revoke via share_playlist_user_access if needed.",
			InputSchema: obj(map[string]any{
				"playlist_id": strProp("ID of the playlist, obtained from tool retrieve_playlist_list."),
			}, "playlist_id"),
		},
		{
			Name: "retrieve_player_list",
			Description: "Retrieve the media players we can control. Supply only the session_id to other " +
				"player tools; do not display device_id or session_id to the user.",
			InputSchema: obj(map[string]any{
				"media_type": strProp("List only players of this media type ('Audio', 'Video', 'Photo'), or empty for all."),
			}),
		},
		{
			Name:        "retrieve_player_queue",
			Description: "Retrieve the items in the play queue of a media player.",
			InputSchema: obj(map[string]any{
				"session_id": strProp("ID of the player session, obtained from tool retrieve_player_list."),
			}, "session_id"),
		},
		{
			Name: "control_media_player",
			Description: "Control a media player by sending it a command. Valid commands: 'PlayNow', 'Stop', " +
				"'Pause', 'Unpause', 'NextTrack', 'PreviousTrack', 'Seek', 'Rewind', 'FastForward'. PlayNow " +
				"requires item_ids; Seek, Rewind and FastForward accept a time in milliseconds.",
			InputSchema: obj(map[string]any{
				"session_id":        strProp("ID of the player session, obtained from tool retrieve_player_list."),
				"command":           strProp("The command to send."),
				"item_ids":          strProp("Comma separated item_id values to play. Required for 'PlayNow'."),
				"time_milliseconds": map[string]any{"type": "integer", "description": "Time in milliseconds for 'Seek', 'Rewind', 'FastForward'. 0 uses defaults."},
			}, "session_id", "command"),
		},
	}
}
