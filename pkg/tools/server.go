// Package tools exposes the media catalog to calling agents as a set of
// MCP tools over stdio JSON-RPC 2.0. The server answers "tools/list" with
// the tool registry and dispatches "tools/call" to handlers built on the
// media service interfaces. Tool responses are always well-formed JSON
// documents; precondition failures are reported as plain error strings the
// agent can read and act on, while transport failures become JSON-RPC
// errors.
//
// The server carries the per-session state the tools share: the currently
// selected library and the single result-window slot for search
// pagination.
package tools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"embymcp/pkg/chunker"
	"embymcp/pkg/media"
	"embymcp/pkg/metrics"
)

// callTimeout bounds a single tool invocation.
const callTimeout = 60 * time.Second

type rpcReq struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcResp struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeResp(w io.Writer, id any, result any, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(resp)
}

// ToolDesc describes a single MCP tool, including input schema.
type ToolDesc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// SearchRecorder receives an audit record for every completed search. It is
// optional; a nil recorder disables the audit log.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, searchID, library, term string, resultCount int) error
}

// Server holds the shared dependencies and the per-session tool state.
type Server struct {
	Catalog   media.Catalog
	Playlists media.PlaylistService
	Players   media.PlayerService
	Windower  *chunker.Windower
	Recorder  SearchRecorder
	Log       *logrus.Logger

	// MaxItems is the result window size; zero or negative disables
	// windowing.
	MaxItems int

	mu        sync.Mutex
	libraries []media.Library
	current   *media.Library

	tools []ToolDesc
}

// NewServer wires the dependencies. catalog, playlists and players are
// typically the same Emby client; they are separate parameters so tests
// can fake each capability independently.
func NewServer(catalog media.Catalog, playlists media.PlaylistService, players media.PlayerService, recorder SearchRecorder, log *logrus.Logger, maxItems int) *Server {
	s := &Server{
		Catalog:   catalog,
		Playlists: playlists,
		Players:   players,
		Windower:  chunker.New(),
		Recorder:  recorder,
		Log:       log,
		MaxItems:  maxItems,
	}
	s.initTools()
	return s
}

// callTool dispatches one tool invocation to its handler.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) (any, error) {
	var (
		res any
		err error
	)
	switch name {
	case "retrieve_user_list":
		res, err = s.tUserList(ctx)
	case "retrieve_library_list":
		res, err = s.tLibraryList(ctx)
	case "select_library":
		res, err = s.tSelectLibrary(ctx, args)
	case "retrieve_current_library":
		res, err = s.tCurrentLibrary(ctx)
	case "retrieve_genre_list":
		res, err = s.tGenreList(ctx)
	case "search_for_item":
		res, err = s.tSearchForItem(ctx, args)
	case "retrieve_next_search_chunk":
		res, err = s.tNextSearchChunk(ctx)
	case "create_playlist":
		res, err = s.tCreatePlaylist(ctx, args)
	case "modify_playlist_name":
		res, err = s.tModifyPlaylist(ctx, args)
	case "retrieve_playlist_list":
		res, err = s.tPlaylistList(ctx, args)
	case "retrieve_playlist_items":
		res, err = s.tPlaylistItems(ctx, args)
	case "add_items_to_playlist":
		res, err = s.tAddPlaylistItems(ctx, args)
	case "remove_items_from_playlist":
		res, err = s.tRemovePlaylistItems(ctx, args)
	case "reorder_items_on_playlist":
		res, err = s.tReorderPlaylist(ctx, args)
	case "share_playlist_public":
		res, err = s.tSharePublic(ctx, args)
	case "share_playlist_user_access":
		res, err = s.tShareUserAccess(ctx, args)
	case "stop_sharing_playlist":
		res, err = s.tStopSharing(ctx, args)
	case "retrieve_player_list":
		res, err = s.tPlayerList(ctx, args)
	case "retrieve_player_queue":
		res, err = s.tPlayerQueue(ctx, args)
	case "control_media_player":
		res, err = s.tControlPlayer(ctx, args)
	default:
		err = fmt.Errorf("unknown tool: %s", name)
	}
	metrics.RecordToolCall(name, err)
	if err != nil {
		s.Log.WithFields(logrus.Fields{"tool": name, "error": err}).Error("tool call failed")
	}
	return res, err
}

// Serve runs the stdio JSON-RPC loop until the input stream ends.
// Requests are framed one per line; a line that does not parse as JSON is
// dropped so a garbled message cannot take down the session.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req rpcReq
		if err := json.Unmarshal(line, &req); err != nil {
			s.Log.WithField("error", err).Warn("dropping unparseable request line")
			continue
		}

		switch req.Method {
		case "tools/list":
			writeResp(out, req.ID, map[string]any{"tools": s.tools}, nil)

		case "tools/call":
			name := str(req.Params["name"])
			args, _ := req.Params["arguments"].(map[string]any)
			if args == nil {
				args = map[string]any{}
			}
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			res, err := s.callTool(ctx, name, args)
			cancel()
			writeResp(out, req.ID, res, err)

		default:
			writeResp(out, req.ID, nil, fmt.Errorf("unknown method: %s", req.Method))
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ---------- helpers ----------

func str(v any) string { s, _ := v.(string); return s }

func asInt64(v any) int64 {
	switch x := v.(type) {
	case float64:
		return int64(x)
	case int:
		return int64(x)
	case int64:
		return x
	case json.Number:
		i, _ := x.Int64()
		return i
	default:
		return 0
	}
}
