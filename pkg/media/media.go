// Package media defines provider-agnostic data structures and service
// interfaces for querying a media catalog and controlling playback.
// Implementations can wrap Emby or any other media server. By depending on
// this package the tool layer can remain agnostic about the underlying
// platform.
//
// The JSON tags mirror the documents handed to the calling agent, so values
// can be marshalled directly into tool responses.
package media

import "context"

// Item is a single media item (a track or an episode) as presented to the
// calling agent. Only a curated subset of the server's metadata is exposed.
type Item struct {
	Title          string   `json:"title"`
	Artists        []string `json:"artists"`
	Album          string   `json:"album"`
	AlbumID        string   `json:"album_id"`
	AlbumArtist    string   `json:"album_artist"`
	DiskNumber     int      `json:"disk_number"`
	TrackNumber    int      `json:"track_number"`
	CreationDate   string   `json:"creation_date"`
	PremiereDate   string   `json:"premiere_date"`
	ProductionYear int      `json:"production_year"`
	Genres         []string `json:"genres"`
	Overview       string   `json:"overview"`
	Lyrics         string   `json:"lyrics"`
	MediaType      string   `json:"media_type"`
	RunTime        string   `json:"run_time"`
	Bitrate        int      `json:"bitrate"`
	ItemID         string   `json:"item_id"`
	FilePath       string   `json:"file_path,omitempty"`
}

// Library identifies one top-level media library on the server.
type Library struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

// User is a server account visible to the authenticated user.
type User struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// AccessEntry describes one user's access level on a shared playlist.
type AccessEntry struct {
	UserName    string `json:"user_name"`
	UserID      string `json:"user_id"`
	AccessLevel string `json:"access_level"`
}

// Playlist summarises a playlist including its sharing state. CanShare is
// true when the authenticated user may change the sharing of the list.
type Playlist struct {
	Name        string        `json:"name"`
	Overview    string        `json:"overview"`
	Genres      []string      `json:"genres"`
	DateCreated string        `json:"date_created"`
	RunTime     string        `json:"run_time"`
	CanShare    bool          `json:"can_share"`
	UserAccess  []AccessEntry `json:"user_access"`
	MediaType   string        `json:"media_type"`
	PlaylistID  string        `json:"playlist_id"`
}

// PlaylistEntry is an Item that lives on a playlist. EntryID identifies the
// item within the playlist only (removal and reordering operate on it, not
// on the catalog item id).
type PlaylistEntry struct {
	Item
	EntryID string `json:"playlist_item_number"`
	Index   string `json:"playlist_item_index"`
}

// QueueItem is an Item sitting in a player's play queue.
type QueueItem struct {
	Item
	QueueEntryID string `json:"playlist_item_id"`
}

// Player describes a controllable player session, including a summary of
// whatever is currently playing.
type Player struct {
	ClientName          string   `json:"client_name"`
	SessionID           string   `json:"session_id"`
	DeviceID            string   `json:"device_id"`
	DeviceName          string   `json:"device_name"`
	DeviceIPAddress     string   `json:"device_ip_address"`
	LocalToMediaServer  bool     `json:"local_to_media_server"`
	MediaTypes          []string `json:"media_types"`
	NowPlayingTitle     string   `json:"now_playing_title,omitempty"`
	NowPlayingArtists   []string `json:"now_playing_artists,omitempty"`
	NowPlayingAlbum     string   `json:"now_playing_album,omitempty"`
	NowPlayingTrack     int      `json:"now_playing_track_number,omitempty"`
	NowPlayingDisk      int      `json:"now_playing_disk_number,omitempty"`
	NowPlayingItemID    string   `json:"now_playing_item_id,omitempty"`
	NowPlayingTotalMS   int64    `json:"now_playing_total_milliseconds,omitempty"`
	NowPlayingTotalTime string   `json:"now_playing_total_time,omitempty"`
	NowPlayingPosMS     int64    `json:"now_playing_position_milliseconds,omitempty"`
	NowPlayingPosTime   string   `json:"now_playing_position_time,omitempty"`
	NowPlayingIsPaused  bool     `json:"now_playing_is_paused,omitempty"`
}

// SearchFilters narrows an item search. Zero values mean "no constraint";
// populated fields are combined with AND, while multi-value fields such as
// Years widen their own constraint (OR within the field).
type SearchFilters struct {
	SearchTerm string // matches item title or album name
	Artist     string
	Genre      string
	Years      string // comma separated release years
	Lyrics     string // phrase matched against lyrics or overview
	FirstDate  string // earliest release date, ISO format
	LastDate   string // latest release date, ISO format
	IsPlayed   bool
	IsUnplayed bool
	IsFavorite bool
	Limit      int
}

// ShareMode selects how SetSharing changes a playlist's visibility.
type ShareMode string

const (
	SharePublic  ShareMode = "Public"
	SharePrivate ShareMode = "Private"
	ShareUsers   ShareMode = "Shared"
)

// Catalog exposes read access to the media catalog. SearchItems returns the
// full matching set in a stable order; windowing of large result sets is the
// caller's concern.
type Catalog interface {
	Libraries(ctx context.Context) ([]Library, error)
	Genres(ctx context.Context, libraryID string) ([]string, error)
	SearchItems(ctx context.Context, libraryID string, f SearchFilters) ([]Item, error)
	// Users lists accounts. A non-empty userID fetches that single
	// account; a non-empty userName filters the listing by display name.
	Users(ctx context.Context, userID, userName string) ([]User, error)
}

// PlaylistService manages playlists on the media server.
type PlaylistService interface {
	// Playlists lists playlists visible to the user. A non-empty
	// playlistID restricts the result to that single playlist.
	Playlists(ctx context.Context, playlistID string) ([]Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
	CreatePlaylist(ctx context.Context, name, mediaType, overview string) (string, error)
	UpdatePlaylist(ctx context.Context, playlistID, name, overview string) error
	// AddPlaylistItems appends the comma separated item ids and returns
	// the number of items actually added.
	AddPlaylistItems(ctx context.Context, playlistID, itemIDs string) (int, error)
	// RemovePlaylistItems removes entries by their playlist entry ids.
	RemovePlaylistItems(ctx context.Context, playlistID, entryIDs string) error
	MovePlaylistItem(ctx context.Context, playlistID, entryID string, newIndex int) error
	SetSharing(ctx context.Context, playlistID string, mode ShareMode, userIDs []string, access string) error
}

// PlayerService inspects and controls player sessions. mediaType filters
// Players to sessions able to play that type; empty means all players.
type PlayerService interface {
	Players(ctx context.Context, mediaType string) ([]Player, error)
	PlayQueue(ctx context.Context, sessionID string) ([]QueueItem, error)
	// SendCommand issues a transport command. itemIDs is required for
	// PlayNow and ignored otherwise; timeMS applies to seek commands.
	SendCommand(ctx context.Context, sessionID, command, itemIDs string, timeMS int64) error
}
