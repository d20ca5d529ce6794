package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/chess"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/puzzle"
	"github.com/wricardo/mcp-training/arcade/game/scores"
	"github.com/wricardo/mcp-training/arcade/game/service"
	"github.com/wricardo/mcp-training/arcade/game/tetris"
	"github.com/wricardo/mcp-training/arcade/game/tictactoe"
)

// maxListedActions bounds the possible-action hint shown under a board
const maxListedActions = 24

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s (%s)\nPlayer: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Kind, session.Player,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Game: %s | Config: %s | Status: %s | Score: %d | Actions: %d\n\n",
		state.Kind, state.ConfigName, state.Status, state.Score, state.TotalActions))

	board, err := renderBoard(state.Kind, state.Board)
	if err != nil {
		result.WriteString(fmt.Sprintf("(board unavailable: %v)\n", err))
	} else {
		result.WriteString(board)
	}

	if state.Finished {
		result.WriteString(fmt.Sprintf("\n🏁 GAME FINISHED (%s)\n", state.Status))
	} else if len(state.PossibleActions) > 0 {
		result.WriteString("\n" + formatPossibleActions(state.PossibleActions))
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// renderBoard draws the kind-specific board snapshot as text
func renderBoard(kind engine.Kind, raw json.RawMessage) (string, error) {
	switch kind {
	case engine.KindTicTacToe:
		var s tictactoe.State
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return renderTicTacToe(&s), nil
	case engine.KindPuzzle:
		var s puzzle.State
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return renderPuzzle(&s), nil
	case engine.KindChess:
		var s chess.View
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return renderChess(&s), nil
	case engine.KindTetris:
		var s tetris.State
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return renderTetris(&s), nil
	default:
		return "", fmt.Errorf("unknown game kind %q", kind)
	}
}

// renderTicTacToe shows empty cells by their index so they can be placed directly
func renderTicTacToe(s *tictactoe.State) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			if mark := s.Board[i]; mark != tictactoe.None {
				cells[col] = string(mark)
			} else {
				cells[col] = fmt.Sprintf("%d", i)
			}
		}
		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}

	switch {
	case s.Winner != tictactoe.None:
		b.WriteString(fmt.Sprintf("\nWinner: %s (line %v)\n", s.Winner, s.WinningLine))
	case s.Draw:
		b.WriteString("\nDraw\n")
	default:
		b.WriteString(fmt.Sprintf("\nTurn: %s\n", s.Turn))
	}
	b.WriteString(fmt.Sprintf("Scores: X %d - O %d\n", s.Scores.X, s.Scores.O))
	return b.String()
}

// renderPuzzle prints tile numbers with the blank shown as "__"
func renderPuzzle(s *puzzle.State) string {
	var b strings.Builder
	size := s.Board.Size
	for i, tile := range s.Board.Tiles {
		if i == s.Board.Blank {
			b.WriteString(" __")
		} else {
			b.WriteString(fmt.Sprintf(" %2d", tile))
		}
		if size > 0 && (i+1)%size == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString(fmt.Sprintf("\nMoves: %d | Elapsed: %ds", s.Moves, s.Elapsed))
	if s.BestScore > 0 {
		b.WriteString(fmt.Sprintf(" | Best: %d", s.BestScore))
	}
	b.WriteString("\n")
	if !s.Started && !s.Solved {
		b.WriteString("Not started: shuffle to begin\n")
	}
	if s.Solved {
		b.WriteString("🎉 SOLVED!\n")
	}
	return b.String()
}

// renderChess prints the board with rank and file labels, black at the top
func renderChess(s *chess.View) string {
	var b strings.Builder
	for r, row := range s.Board.Rows() {
		b.WriteString(fmt.Sprintf("%d %s\n", chess.Size-r, spaced(row)))
	}
	b.WriteString("  a b c d e f g h\n")
	b.WriteString("Uppercase = white, lowercase = black, rows are numbered 0 (rank 8) to 7 (rank 1)\n")

	if s.Winner != chess.NoSide {
		b.WriteString(fmt.Sprintf("\nWinner: %s\n", s.Winner))
	} else {
		b.WriteString(fmt.Sprintf("\nTurn: %s\n", s.Turn))
	}
	if len(s.Captured.White)+len(s.Captured.Black) > 0 {
		b.WriteString(fmt.Sprintf("Captured by white: %s | by black: %s\n",
			pieceList(s.Captured.White), pieceList(s.Captured.Black)))
	}
	if sel := s.Selection; sel != nil {
		dests := make([]string, len(sel.Destinations))
		for i, d := range sel.Destinations {
			dests[i] = chess.Square(d)
		}
		if len(dests) == 0 {
			dests = []string{"none"}
		}
		b.WriteString(fmt.Sprintf("Selected: %s -> %s\n", chess.Square(sel.Square), strings.Join(dests, " ")))
	}
	if s.FEN != "" {
		b.WriteString(fmt.Sprintf("FEN: %s\n", s.FEN))
	}
	return b.String()
}

func spaced(row string) string {
	return strings.Join(strings.Split(row, ""), " ")
}

func pieceList(pieces []chess.Piece) string {
	if len(pieces) == 0 {
		return "-"
	}
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// renderTetris overlays the falling piece ('@') on the settled grid ('#')
func renderTetris(s *tetris.State) string {
	active := map[tetris.Point]bool{}
	if s.Active != nil {
		for _, p := range s.Active.Cells() {
			active[p] = true
		}
	}

	var b strings.Builder
	for y, row := range s.Grid {
		b.WriteString("|")
		for x, filled := range row {
			switch {
			case active[tetris.Point{X: x, Y: y}]:
				b.WriteString("@")
			case filled:
				b.WriteString("#")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", s.Width) + "+\n")

	b.WriteString(fmt.Sprintf("Level: %d | Lines: %d | Drop interval: %dms | Next: %s\n",
		s.Level, s.Lines, s.IntervalMs, s.Next))
	if s.Active != nil {
		b.WriteString(fmt.Sprintf("Falling: %s at x=%d y=%d\n", s.Active.Name, s.Active.Origin.X, s.Active.Origin.Y))
	}
	return b.String()
}

func formatAction(a engine.Action) string {
	switch a.Type {
	case tictactoe.ActionPlace, puzzle.ActionMoveTile, puzzle.ActionInitialize:
		return fmt.Sprintf("%s(index=%d)", a.Type, a.Index)
	case chess.ActionSelect:
		return fmt.Sprintf("select %s", chess.Square(engine.Position{Row: a.Row, Col: a.Col}))
	case tetris.ActionMove:
		if a.DX == 0 && a.DY == 0 && (a.Row != 0 || a.Col != 0 || a.ToRow != 0 || a.ToCol != 0) {
			return fmt.Sprintf("move %s-%s",
				chess.Square(engine.Position{Row: a.Row, Col: a.Col}),
				chess.Square(engine.Position{Row: a.ToRow, Col: a.ToCol}))
		}
		if a.DX != 0 || a.DY != 0 {
			return fmt.Sprintf("move(dx=%d, dy=%d)", a.DX, a.DY)
		}
		return "move"
	default:
		return a.Type
	}
}

func formatPossibleActions(actions []engine.Action) string {
	shown := actions
	if len(shown) > maxListedActions {
		shown = shown[:maxListedActions]
	}
	parts := make([]string, len(shown))
	for i, a := range shown {
		parts[i] = formatAction(a)
	}
	line := fmt.Sprintf("Possible actions (%d): %s", len(actions), strings.Join(parts, ", "))
	if len(actions) > len(shown) {
		line += ", ..."
	}
	return line + "\n"
}

func formatEvents(events []service.GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Events:\n")
	for _, e := range events {
		if e.Message != "" {
			b.WriteString(fmt.Sprintf("  - %s: %s\n", e.Type, e.Message))
		} else {
			b.WriteString(fmt.Sprintf("  - %s\n", e.Type))
		}
	}
	return b.String()
}

func formatActionResult(action engine.Action, result *service.ActionResult) string {
	var b strings.Builder
	if result.Accepted {
		b.WriteString(fmt.Sprintf("✓ Action accepted: %s\n", formatAction(action)))
	} else {
		b.WriteString(fmt.Sprintf("✗ Action rejected: %s\n", formatAction(action)))
	}
	if result.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkActionResult(sessionID string, result *service.BulkActionResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session %s: executed %d/%d actions (%d accepted)\n",
		sessionID, result.ActionsExecuted, result.RequestedActions, result.ActionsAccepted))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("⚠️ Request truncated to %d actions\n", result.Limit))
	}
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped on action %d: %s\n", result.StoppedOnAction, result.StoppedReason))
	}
	b.WriteString(fmt.Sprintf("Score: %d -> %d (%+d)\n", result.StartScore, result.EndScore, result.ScoreDelta))
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatTickResult(result *service.TickResult) string {
	var b strings.Builder
	if result.Ticks == 0 {
		b.WriteString("No ticks applied (game clock is not running)\n")
	} else {
		b.WriteString(fmt.Sprintf("Applied %d tick(s)\n", result.Ticks))
	}
	b.WriteString(formatEvents(result.Events))
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Move History (Page %d/%d, Total: %d)\n\n",
		history.Page, history.TotalPages, history.TotalMoves))

	for _, entry := range history.Moves {
		status := "✓"
		if !entry.Accepted {
			status = "✗"
		}
		line := fmt.Sprintf("%s #%d %s", status, entry.MoveNumber, formatAction(entry.Action))
		if len(entry.Events) > 0 {
			names := make([]string, len(entry.Events))
			for i, e := range entry.Events {
				names[i] = string(e)
			}
			line += " [" + strings.Join(names, ", ") + "]"
		}
		b.WriteString(line + "\n")
	}

	if history.HasNext {
		b.WriteString("\n(more moves on the next page)\n")
	}
	return b.String()
}

func formatConfigs(configs []service.ConfigInfo) string {
	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		b.WriteString(fmt.Sprintf("• %s [%s] (id: %s)\n  %s\n\n",
			config.Name, config.Kind, config.ConfigID, config.Description))
	}
	return b.String()
}

func formatGames(games []catalog.Entry) string {
	var b strings.Builder
	b.WriteString("Game Catalog:\n\n")
	for _, g := range games {
		b.WriteString(fmt.Sprintf("• %s (%s) - %s\n  %s\n  Difficulty: %s | Players: %s | Duration: %s | Rating: %.1f\n  Actions: %s\n\n",
			g.Title, g.Kind, g.Category, g.Description, g.Difficulty, g.Players, g.Duration, g.Rating,
			strings.Join(g.Actions, ", ")))
	}
	return b.String()
}

func formatLeaderboard(kind string, entries []scores.Entry) string {
	var b strings.Builder
	title := "all games"
	if kind != "" {
		title = kind
	}
	b.WriteString(fmt.Sprintf("Leaderboard (%s):\n\n", title))
	if len(entries) == 0 {
		b.WriteString("No scores recorded yet\n")
		return b.String()
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%2d. %-20s %6d  %s/%s (%s) %s\n",
			i+1, e.Player, e.Score, e.Kind, e.Config, e.Outcome, e.RecordedAt.Format("2006-01-02")))
	}
	return b.String()
}
