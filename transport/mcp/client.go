package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/scores"
	"github.com/wricardo/mcp-training/arcade/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Game Arcade",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Game Arcade - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAMES:
tictactoe, puzzle (sliding tiles), chess (simplified, king capture wins) and
tetris. Call list_configs to see which configurations exist and
game_instructions for the rules and action format of each game.

AVAILABLE TOOLS:
- create_session: Start a game from a configuration
- list_sessions / get_session: Inspect running sessions
- game_state: Current board, status, score and possible actions
- act: Apply one action - requires intent explanation
- bulk_act: Apply several actions in order - requires intent explanation
- tick: Advance a running game's clock (tetris gravity, puzzle timer)
- reset_game: Start the session's game over
- move_history: Paginated list of past actions
- list_configs / list_games / leaderboard: Catalog and scores
- game_instructions: Rules and action reference

NOTE: The 'intent' parameter on act/bulk_act serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func actionProperties() map[string]interface{} {
	return map[string]interface{}{
		"type": map[string]interface{}{
			"type":        "string",
			"description": "Action type, e.g. place, move_tile, shuffle, select, move, undo, surrender, start, left, right, down, rotate, hard_drop, reset",
		},
		"index": map[string]interface{}{
			"type":        "integer",
			"description": "Cell index for place (0-8) or board position for move_tile",
		},
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Chess source row (0 = rank 8)",
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Chess source column (0 = file a)",
		},
		"to_row": map[string]interface{}{
			"type":        "integer",
			"description": "Chess destination row",
		},
		"to_col": map[string]interface{}{
			"type":        "integer",
			"description": "Chess destination column",
		},
		"dx": map[string]interface{}{
			"type":        "integer",
			"description": "Tetris horizontal shift for move",
		},
		"dy": map[string]interface{}{
			"type":        "integer",
			"description": "Tetris downward shift for move",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config ID from list_configs (optional, defaults to tictactoe)",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Player name recorded on the leaderboard (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        kindNames(),
					"description": "Only list sessions of this game (optional)",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	actProps := actionProperties()
	actProps["session_id"] = sessionIDProperty()
	actProps["intent"] = map[string]interface{}{
		"type":        "string",
		"description": "Brief explanation of the intent behind this action (serves as a rubber duck to help explain your reasoning)",
	}
	actProps["reset"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Reset the game before applying the action",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Apply a single action to the session's game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: actProps,
			Required:   []string{"session_id", "type"},
		},
	}, c.handleAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_act",
		Description: fmt.Sprintf("Apply up to %d actions in order; stops at the first rejected action or when the game finishes", engine.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"actions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":       "object",
						"properties": actionProperties(),
						"required":   []string{"type"},
					},
					"description": "Actions to apply",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of actions (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the game before applying the actions",
				},
			},
			Required: []string{"session_id", "actions"},
		},
	}, c.handleBulkAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the game clock of a running tetris or puzzle session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Number of ticks (1-%d, default 1)", engine.MaxBulkActions),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Catalog
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List the games in the arcade catalog",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the best recorded scores",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        kindNames(),
					"description": "Game to rank (optional, all games when omitted)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of entries (default 10)",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game rules and the action reference",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        kindNames(),
					"description": "Only show the rules of this game (optional)",
				},
			},
		},
	}, c.handleGameInstructions)
}

func kindNames() []string {
	names := make([]string, len(engine.Kinds))
	for i, k := range engine.Kinds {
		names[i] = string(k)
	}
	return names
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// intArg reads a JSON number; ok is false when the key is absent
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// actionFromArgs builds an action from the flat tool arguments
func actionFromArgs(args map[string]interface{}) engine.Action {
	a := engine.Action{Type: stringArg(args, "type")}
	a.Index, _ = intArg(args, "index")
	a.Row, _ = intArg(args, "row")
	a.Col, _ = intArg(args, "col")
	a.ToRow, _ = intArg(args, "to_row")
	a.ToCol, _ = intArg(args, "to_col")
	a.DX, _ = intArg(args, "dx")
	a.DY, _ = intArg(args, "dy")
	return a
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]string{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}
	if player := stringArg(args, "player"); player != "" {
		body["player"] = player
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s (%s)\nPlayer: %s\n\n%s",
		session.ID, session.ConfigName, session.Kind, session.Player, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	path := "/api/sessions"
	if kind := stringArg(args, "kind"); kind != "" {
		path += "?kind=" + url.QueryEscape(kind)
	}

	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", Status: %s, Score: %d", s.GameState.Status, s.GameState.Score)
		}
		result += fmt.Sprintf("- %s (%s, Config: %s, Player: %s%s, Created: %s)\n",
			s.ID, s.Kind, s.ConfigName, s.Player, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	action := actionFromArgs(args)
	if action.Type == "" {
		return mcp.NewToolResultError("type is required"), nil
	}

	// Intent serves as rubber duck debugging and is not sent to the server

	body := map[string]interface{}{
		"action": action,
		"reset":  boolArg(args, "reset"),
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/actions"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(action, &result)), nil
}

func (c *Client) handleBulkAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	raw, err := json.Marshal(args["actions"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid actions: %v", err)), nil
	}
	var actions []engine.Action
	if err := json.Unmarshal(raw, &actions); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid actions: %v", err)), nil
	}

	body := map[string]interface{}{
		"actions": actions,
		"reset":   boolArg(args, "reset"),
	}

	var result service.BulkActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-actions"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkActionResult(sessionID, &result)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	body := map[string]int{}
	if count, ok := intArg(args, "count"); ok {
		body["count"] = count
	}

	var result service.TickResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/tick"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConfigs(configs)), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Games []catalog.Entry `json:"games"`
	}
	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGames(response.Games)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	kind := stringArg(args, "kind")

	params := url.Values{}
	if kind != "" {
		params.Set("kind", kind)
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/api/leaderboard"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var response struct {
		Entries []scores.Entry `json:"entries"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(kind, response.Entries)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := engine.Kind(stringArg(arguments(request), "kind"))
	if kind != "" && !kind.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown game %q", kind)), nil
	}
	return mcp.NewToolResultText(instructions(kind)), nil
}
