package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/scores"
	"github.com/wricardo/mcp-training/arcade/game/service"
)

// describe builds a real game state for kind after applying actions
func describe(t *testing.T, kind engine.Kind, actions ...engine.Action) *engine.GameState {
	t.Helper()
	cfg := engine.DefaultConfig(kind)
	cfg.Seed = 1
	game, err := catalog.NewGame(cfg, nil)
	if err != nil {
		t.Fatalf("NewGame(%s) failed: %v", kind, err)
	}
	for _, a := range actions {
		game.Apply(a)
	}
	state, err := engine.Describe(cfg.Name, game, "", len(actions))
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	return state
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "test-session", "kind": "chess"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response service.SessionInfo
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response.ID != "test-session" || response.Kind != engine.KindChess {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"plain body", "Internal Server Error", "API error: 500"},
		{"json error field", `{"error": "session not found"}`, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected error for HTTP 500 response")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "brave-otter",
			ConfigName: "tictactoe",
			Kind:       engine.KindTicTacToe,
			Player:     "ada",
			CreatedAt:  time.Now(),
			GameState:  describe(t, engine.KindTicTacToe),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"config_id": "tictactoe",
		"player":    "ada",
	}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	if body["config_id"] != "tictactoe" || body["player"] != "ada" {
		t.Errorf("Unexpected request body: %v", body)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created session: brave-otter", "Player: ada", " 0 | 1 | 2", "Turn: X"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleAct(t *testing.T) {
	var got struct {
		Action engine.Action `json:"action"`
		Reset  bool          `json:"reset"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/actions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.ActionResult{
			Accepted:  true,
			GameState: describe(t, engine.KindTicTacToe, got.Action),
			Events:    []service.GameEvent{{Type: engine.EventMoveMade, Message: "X placed at 4"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleAct(context.Background(), callRequest("act", map[string]interface{}{
		"session_id": "s1",
		"type":       "place",
		"index":      float64(4),
		"reset":      true,
		"intent":     "take the centre",
	}))
	if err != nil {
		t.Fatalf("handleAct failed: %v", err)
	}

	if got.Action.Type != "place" || got.Action.Index != 4 || !got.Reset {
		t.Errorf("Unexpected request: %+v", got)
	}

	text := resultText(t, result)
	for _, want := range []string{"✓ Action accepted: place(index=4)", "move_made: X placed at 4", " 3 | X | 5", "Turn: O"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleAct_MissingType(t *testing.T) {
	client := NewClient("http://localhost:0")

	result, err := client.handleAct(context.Background(), callRequest("act", map[string]interface{}{
		"session_id": "s1",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error when type is missing")
	}
}

func TestClient_handleBulkAct(t *testing.T) {
	var got struct {
		Actions []engine.Action `json:"actions"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/bulk-actions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.BulkActionResult{
			ActionsExecuted:  2,
			ActionsAccepted:  1,
			RequestedActions: 2,
			StoppedReason:    "tile 0 is not next to the blank",
			StoppedOnAction:  2,
			GameState:        describe(t, engine.KindPuzzle),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleBulkAct(context.Background(), callRequest("bulk_act", map[string]interface{}{
		"session_id": "s1",
		"actions": []interface{}{
			map[string]interface{}{"type": "shuffle"},
			map[string]interface{}{"type": "move_tile", "index": float64(0)},
		},
	}))
	if err != nil {
		t.Fatalf("handleBulkAct failed: %v", err)
	}

	if len(got.Actions) != 2 || got.Actions[0].Type != "shuffle" || got.Actions[1].Type != "move_tile" {
		t.Errorf("Unexpected actions: %+v", got.Actions)
	}

	text := resultText(t, result)
	for _, want := range []string{"executed 2/2 actions (1 accepted)", "Stopped on action 2", "Not started: shuffle to begin"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleTick(t *testing.T) {
	var got map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/tick" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.TickResult{
			Ticks:     got["count"],
			GameState: describe(t, engine.KindTetris, engine.Action{Type: "start"}),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleTick(context.Background(), callRequest("tick", map[string]interface{}{
		"session_id": "s1",
		"count":      float64(3),
	}))
	if err != nil {
		t.Fatalf("handleTick failed: %v", err)
	}

	if got["count"] != 3 {
		t.Errorf("Expected count 3, got %v", got)
	}

	text := resultText(t, result)
	for _, want := range []string{"Applied 3 tick(s)", "@", "+----------+"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleMoveHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/history" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "asc" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Moves: []engine.MoveHistoryEntry{
				{Action: engine.Action{Type: "place", Index: 4}, Accepted: true, Events: []engine.EventType{engine.EventMoveMade}, MoveNumber: 6},
				{Action: engine.Action{Type: "place", Index: 4}, Accepted: false, Events: []engine.EventType{engine.EventInvalidMove}, MoveNumber: 7},
			},
			TotalMoves: 7,
			Page:       2,
			PageSize:   5,
			TotalPages: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleMoveHistory(context.Background(), callRequest("move_history", map[string]interface{}{
		"session_id": "s1",
		"page":       float64(2),
		"limit":      float64(5),
		"order":      "asc",
	}))
	if err != nil {
		t.Fatalf("handleMoveHistory failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Page 2/2, Total: 7", "✓ #6 place(index=4) [move_made]", "✗ #7 place(index=4) [invalid_move]"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleLeaderboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("kind") != "tetris" || q.Get("limit") != "3" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"kind":  "tetris",
			"count": 1,
			"entries": []scores.Entry{{
				Kind: engine.KindTetris, Config: "tetris", Player: "ada", Score: 1200,
				Outcome: "game_over", RecordedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleLeaderboard(context.Background(), callRequest("leaderboard", map[string]interface{}{
		"kind":  "tetris",
		"limit": float64(3),
	}))
	if err != nil {
		t.Fatalf("handleLeaderboard failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Leaderboard (tetris)", "ada", "1200", "2026-01-02"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestClient_handleListGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": len(catalog.Entries()),
			"games": catalog.Entries(),
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleListGames(context.Background(), callRequest("list_games", nil))
	if err != nil {
		t.Fatalf("handleListGames failed: %v", err)
	}

	text := resultText(t, result)
	for _, kind := range engine.Kinds {
		if !strings.Contains(text, "("+string(kind)+")") {
			t.Errorf("Expected %s in catalog output:\n%s", kind, text)
		}
	}
}

func TestClient_ErrorsBecomeToolErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleGameState(context.Background(), callRequest("game_state", map[string]interface{}{
		"session_id": "missing",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error")
	}
	if text := resultText(t, result); !strings.Contains(text, "session not found") {
		t.Errorf("Expected API error message, got %q", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:0")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]interface{}{
		"kind": "chess",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "CHESS") || strings.Contains(text, "TETRIS") {
		t.Errorf("Expected only chess rules:\n%s", text)
	}

	result, _ = client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	text = resultText(t, result)
	for _, heading := range []string{"TIC-TAC-TOE", "SLIDING PUZZLE", "CHESS", "TETRIS"} {
		if !strings.Contains(text, heading) {
			t.Errorf("Expected %s section in full instructions", heading)
		}
	}

	result, _ = client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]interface{}{
		"kind": "checkers",
	}))
	if !result.IsError {
		t.Error("Expected a tool error for an unknown game")
	}
}

func TestRenderBoard(t *testing.T) {
	tests := []struct {
		name    string
		state   func(t *testing.T) *engine.GameState
		want    []string
		notWant []string
	}{
		{
			name:  "tictactoe shows free cell indexes",
			state: func(t *testing.T) *engine.GameState { return describe(t, engine.KindTicTacToe) },
			want:  []string{" 0 | 1 | 2", "---+---+---", "Scores: X 0 - O 0"},
		},
		{
			name:  "puzzle solved layout before shuffle",
			state: func(t *testing.T) *engine.GameState { return describe(t, engine.KindPuzzle) },
			want:  []string{"  7  8 __", "Moves: 0"},
		},
		{
			name:  "chess ranks and files",
			state: func(t *testing.T) *engine.GameState { return describe(t, engine.KindChess) },
			want: []string{"8 r n b q k b n r", "1 R N B Q K B N R", "  a b c d e f g h", "Turn: white",
				"FEN: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
			notWant: []string{"Selected:"},
		},
		{
			name: "chess selection lists destinations",
			state: func(t *testing.T) *engine.GameState {
				return describe(t, engine.KindChess, engine.Action{Type: "select", Row: 6, Col: 4})
			},
			want: []string{"Selected: e2 -> e3 e4"},
		},
		{
			name:    "tetris empty well before start",
			state:   func(t *testing.T) *engine.GameState { return describe(t, engine.KindTetris) },
			want:    []string{"|..........|", "+----------+", "Level: 1"},
			notWant: []string{"@"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state(t)
			board, err := renderBoard(state.Kind, state.Board)
			if err != nil {
				t.Fatalf("renderBoard failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(board, want) {
					t.Errorf("Expected %q in board:\n%s", want, board)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(board, notWant) {
					t.Errorf("Did not expect %q in board:\n%s", notWant, board)
				}
			}
		})
	}
}

func TestRenderBoard_UnknownKind(t *testing.T) {
	if _, err := renderBoard("checkers", json.RawMessage(`{}`)); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestFormatGameState(t *testing.T) {
	if got := formatGameState(nil); got != "No game state available" {
		t.Errorf("Unexpected nil state output %q", got)
	}

	state := describe(t, engine.KindChess, engine.Action{Type: "surrender"})
	text := formatGameState(state)
	if !strings.Contains(text, "🏁 GAME FINISHED") {
		t.Errorf("Expected finished banner:\n%s", text)
	}
	if strings.Contains(text, "Possible actions") {
		t.Errorf("Finished games should not list actions:\n%s", text)
	}
}

func TestFormatPossibleActions_Truncates(t *testing.T) {
	actions := make([]engine.Action, maxListedActions+6)
	for i := range actions {
		actions[i] = engine.Action{Type: "place", Index: i}
	}

	text := formatPossibleActions(actions)
	if !strings.HasPrefix(text, "Possible actions (30):") {
		t.Errorf("Unexpected header: %s", text)
	}
	if !strings.Contains(text, ", ...") {
		t.Errorf("Expected truncation marker: %s", text)
	}
}

func TestFormatAction(t *testing.T) {
	tests := []struct {
		action engine.Action
		want   string
	}{
		{engine.Action{Type: "place", Index: 2}, "place(index=2)"},
		{engine.Action{Type: "select", Row: 6, Col: 4}, "select e2"},
		{engine.Action{Type: "move", Row: 6, Col: 4, ToRow: 4, ToCol: 4}, "move e2-e4"},
		{engine.Action{Type: "move", DX: -1}, "move(dx=-1, dy=0)"},
		{engine.Action{Type: "hard_drop"}, "hard_drop"},
	}

	for _, tt := range tests {
		if got := formatAction(tt.action); got != tt.want {
			t.Errorf("formatAction(%+v) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	text := formatLeaderboard("", nil)
	if !strings.Contains(text, "all games") || !strings.Contains(text, "No scores recorded yet") {
		t.Errorf("Unexpected empty leaderboard: %s", text)
	}
}
