package emby

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"embymcp/pkg/media"
)

// ErrUnknownCommand is returned for a transport command SendCommand does
// not recognise.
var ErrUnknownCommand = errors.New("unknown player command")

// playerCommands are the commands the playstate endpoint accepts.
var playerCommands = map[string]bool{
	"Stop": true, "Pause": true, "Unpause": true,
	"NextTrack": true, "PreviousTrack": true,
	"Seek": true, "Rewind": true, "FastForward": true,
	"PlayPause": true, "SeekRelative": true,
}

type embySession struct {
	ID                 string   `json:"Id"`
	Client             string   `json:"Client"`
	DeviceID           string   `json:"DeviceId"`
	DeviceName         string   `json:"DeviceName"`
	RemoteEndPoint     string   `json:"RemoteEndPoint"`
	PlayableMediaTypes []string `json:"PlayableMediaTypes"`
	NowPlayingItem     *struct {
		Name              string   `json:"Name"`
		ID                string   `json:"Id"`
		Artists           []string `json:"Artists"`
		Album             string   `json:"Album"`
		IndexNumber       int      `json:"IndexNumber"`
		ParentIndexNumber int      `json:"ParentIndexNumber"`
		RunTimeTicks      int64    `json:"RunTimeTicks"`
	} `json:"NowPlayingItem"`
	PlayState *struct {
		PositionTicks *int64 `json:"PositionTicks"`
		IsPaused      bool   `json:"IsPaused"`
	} `json:"PlayState"`
}

// Players lists the active sessions that can actually play media, filtered
// to those controllable by the authenticated user. A non-empty mediaType
// keeps only sessions able to play that type.
func (c *Client) Players(ctx context.Context, mediaType string) ([]media.Player, error) {
	q := url.Values{}
	if c.userID != "" {
		q.Set("ControllableByUserId", c.userID)
	}
	var raw []embySession
	if err := c.do(ctx, "GET", "/Sessions", "players", q, nil, &raw); err != nil {
		return nil, err
	}

	players := make([]media.Player, 0, len(raw))
	for _, s := range raw {
		if len(s.PlayableMediaTypes) == 0 {
			continue
		}
		if mediaType != "" && !containsFold(s.PlayableMediaTypes, mediaType) {
			continue
		}
		p := media.Player{
			ClientName:      s.Client,
			SessionID:       s.ID,
			DeviceID:        s.DeviceID,
			DeviceName:      s.DeviceName,
			DeviceIPAddress: s.RemoteEndPoint,
			MediaTypes:      s.PlayableMediaTypes,
		}
		// Loopback endpoints mean the player runs on the media server
		// host itself.
		if s.RemoteEndPoint == "::1" || s.RemoteEndPoint == "127.0.0.1" {
			p.LocalToMediaServer = true
		}
		if np := s.NowPlayingItem; np != nil {
			p.NowPlayingTitle = np.Name
			p.NowPlayingArtists = np.Artists
			p.NowPlayingAlbum = np.Album
			p.NowPlayingTrack = np.IndexNumber
			p.NowPlayingDisk = np.ParentIndexNumber
			p.NowPlayingItemID = np.ID
			p.NowPlayingTotalMS = np.RunTimeTicks / ticksPerMillisecond
			p.NowPlayingTotalTime = msToClock(p.NowPlayingTotalMS)
		}
		if ps := s.PlayState; ps != nil {
			if ps.PositionTicks != nil {
				p.NowPlayingPosMS = *ps.PositionTicks / ticksPerMillisecond
				p.NowPlayingPosTime = msToClock(p.NowPlayingPosMS)
			}
			p.NowPlayingIsPaused = ps.IsPaused
		}
		players = append(players, p)
	}
	return players, nil
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// PlayQueue returns the items queued on a player session in play order.
func (c *Client) PlayQueue(ctx context.Context, sessionID string) ([]media.QueueItem, error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}
	q := url.Values{"Id": {sessionID}}
	var env itemsEnvelope
	if err := c.do(ctx, "GET", "/Sessions/PlayQueue", "play_queue", q, nil, &env); err != nil {
		return nil, err
	}
	queue := make([]media.QueueItem, 0, len(env.Items))
	for i := range env.Items {
		it := &env.Items[i]
		queue = append(queue, media.QueueItem{
			Item:         it.toItem(),
			QueueEntryID: it.PlaylistItemID,
		})
	}
	return queue, nil
}

// SendCommand sends a transport command to a player session. PlayNow starts
// playback of the comma separated itemIDs; the remaining commands act on
// the current play state. timeMS applies to Seek, Rewind, FastForward and
// SeekRelative; when zero the relative commands default to 30 seconds.
// Emby's native Rewind and FastForward are unreliable on some players so
// both are issued as SeekRelative instead.
func (c *Client) SendCommand(ctx context.Context, sessionID, command, itemIDs string, timeMS int64) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}

	if command == "PlayNow" {
		if itemIDs == "" {
			return errors.New("item ids are required for the PlayNow command")
		}
		q := url.Values{"ItemIds": {itemIDs}, "PlayCommand": {"PlayNow"}}
		path := fmt.Sprintf("/Sessions/%s/Playing", sessionID)
		return c.do(ctx, "POST", path, "play_now", q, struct{}{}, nil)
	}

	if !playerCommands[command] {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	if timeMS == 0 && (command == "Rewind" || command == "FastForward" || command == "SeekRelative") {
		timeMS = 30000
	}
	ticks := timeMS * ticksPerMillisecond
	switch command {
	case "Rewind":
		command = "SeekRelative"
		ticks = -ticks
	case "FastForward":
		command = "SeekRelative"
	}

	body := map[string]any{
		"Command":           command,
		"SeekPositionTicks": ticks,
		"ControllingUserId": c.userID,
	}
	path := fmt.Sprintf("/Sessions/%s/Playing/%s", sessionID, command)
	return c.do(ctx, "POST", path, "player_command", nil, body, nil)
}
