package tools

import (
	"context"
	"fmt"
	"strings"
)

func (s *Server) tPlayerList(ctx context.Context, args map[string]any) (any, error) {
	players, err := s.Players.Players(ctx, str(args["media_type"]))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve player list: %w", err)
	}
	return players, nil
}

func (s *Server) tPlayerQueue(ctx context.Context, args map[string]any) (any, error) {
	sessionID := str(args["session_id"])
	if sessionID == "" {
		return "ERROR: no session_id was supplied. Obtain session_id from tool retrieve_player_list", nil
	}
	queue, err := s.Players.PlayQueue(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve player queue items: %w", err)
	}
	return queue, nil
}

func (s *Server) tControlPlayer(ctx context.Context, args map[string]any) (any, error) {
	sessionID := str(args["session_id"])
	command := str(args["command"])
	if sessionID == "" {
		return "ERROR: no session_id was supplied. Obtain session_id from tool retrieve_player_list", nil
	}
	if command == "" {
		return "ERROR: no command was supplied. Valid commands are: 'PlayNow', 'Stop', 'Pause', 'Unpause', 'NextTrack', 'PreviousTrack', 'Seek', 'Rewind', 'FastForward'.", nil
	}
	// Agents frequently say "play"; accept it as PlayNow.
	if strings.EqualFold(command, "play") {
		command = "PlayNow"
	}
	err := s.Players.SendCommand(ctx, sessionID, command, str(args["item_ids"]), asInt64(args["time_milliseconds"]))
	if err != nil {
		return nil, fmt.Errorf("failed to control the player: %w", err)
	}
	return "Success", nil
}
