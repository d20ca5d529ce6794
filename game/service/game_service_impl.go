package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/arcade/game/catalog"
	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/scores"
)

const (
	// maxCatchUpTicks bounds how many ticks one AdvanceClocks call replays
	// for a session that fell behind
	maxCatchUpTicks = 100

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxLeaderboardLimit = 100
)

// scoringEvents end a round worth recording, in priority order
var scoringEvents = []engine.EventType{
	engine.EventNewBestScore,
	engine.EventSolved,
	engine.EventWin,
	engine.EventGameOver,
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	scores   scores.Store
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.RWMutex // guards session creation and deletion
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScoreStore sets where finished rounds are recorded
func WithScoreStore(store scores.Store) Option {
	return func(s *gameServiceImpl) {
		if store != nil {
			s.scores = store
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		scores:   scores.NewMemoryStore(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName, player string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	configID := configName
	if configID == "" {
		configID = s.configs.DefaultName()
	}

	config, err := s.configs.LoadConfig(configID)
	if err != nil {
		// Provide helpful error message with available options
		if errors.Is(err, ErrConfigNotFound) {
			if available := s.configIDs(); len(available) > 0 {
				return nil, fmt.Errorf("config '%s' not found, available configs %v: %w", configID, available, err)
			}
			return nil, fmt.Errorf("config '%s' not found, use /api/configs to list available configurations: %w", configID, err)
		}
		return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
	}

	if player == "" {
		player = petname.Generate(2, "-")
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", CreateParams{ConfigID: configID, Config: config, Player: player})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	s.seedBestScore(ctx, sess)
	s.syncClock(sess)

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("config", configID),
		zap.String("kind", string(sess.Game.Kind())),
		zap.String("player", player),
	)

	return s.sessionInfo(sess)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)
	return s.sessionInfo(sess)
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		info, err := s.sessionInfo(sess)
		sess.Unlock()
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// Act applies a single command to a session's game
func (s *gameServiceImpl) Act(ctx context.Context, sessionID string, action engine.Action, reset bool) (*ActionResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)

	events := []GameEvent{}
	if reset {
		events = append(events, s.gameEvents(s.resetLocked(ctx, sess))...)
	}

	applied := s.applyLocked(ctx, sess, action)
	events = append(events, s.gameEvents(applied)...)

	state, err := sess.State()
	if err != nil {
		return nil, err
	}

	s.persist(sess)

	return &ActionResult{
		Accepted:  engine.Accepted(applied),
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}, nil
}

// BulkAct applies commands in order, stopping at the first rejected
// command or once the game has finished
func (s *gameServiceImpl) BulkAct(ctx context.Context, sessionID string, actions []engine.Action, reset bool) (*BulkActionResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)

	result := &BulkActionResult{
		RequestedActions: len(actions),
		Events:           make([]GameEvent, 0),
		Success:          true,
	}

	if reset {
		result.Events = append(result.Events, s.gameEvents(s.resetLocked(ctx, sess))...)
	}
	result.StartScore = sess.Game.Score()

	// Limit commands to prevent abuse
	if len(actions) > engine.MaxBulkActions {
		result.Truncated = true
		result.Limit = engine.MaxBulkActions
		actions = actions[:engine.MaxBulkActions]
	}

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		events := s.applyLocked(ctx, sess, action)
		result.ActionsExecuted++
		result.Events = append(result.Events, s.gameEvents(events)...)

		if !engine.Accepted(events) {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("action %d rejected: %s", i+1, engine.LastMessage(events))
			result.StoppedOnAction = i + 1
			break
		}
		result.ActionsAccepted++

		if sess.Game.Finished() {
			if i < len(actions)-1 {
				result.StoppedReason = fmt.Sprintf("game finished: %s", sess.Game.Status())
				result.StoppedOnAction = i + 1
			}
			break
		}
	}

	state, err := sess.State()
	if err != nil {
		return nil, err
	}
	result.GameState = state
	result.EndScore = state.Score
	result.ScoreDelta = result.EndScore - result.StartScore
	result.Finished = state.Finished
	result.Message = state.Message

	s.persist(sess)

	return result, nil
}

// Tick advances a session's clock by count steps, stopping early when the
// game stops timing
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, count int) (*TickResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)

	if count < 1 {
		count = 1
	}
	if count > engine.MaxBulkActions {
		count = engine.MaxBulkActions
	}

	result := &TickResult{}
	var events []engine.Event
	for result.Ticks < count && sess.Game.TickInterval() > 0 {
		events = append(events, sess.Game.Tick()...)
		result.Ticks++
	}
	s.afterEvents(ctx, sess, events)

	state, err := sess.State()
	if err != nil {
		return nil, err
	}
	result.GameState = state
	result.Events = s.gameEvents(events)

	s.persist(sess)

	return result, nil
}

// AdvanceClocks ticks every session whose game interval has elapsed since
// its last tick and reports the sessions that changed
func (s *gameServiceImpl) AdvanceClocks(ctx context.Context, now time.Time) ([]ClockUpdate, error) {
	s.mu.RLock()
	sessions := s.sessions.List()
	s.mu.RUnlock()

	var updates []ClockUpdate
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return updates, err
		}

		update, ok, err := s.advance(ctx, sess, now)
		if err != nil {
			s.logger.Warn("failed to advance session clock", zap.String("session_id", sess.ID), zap.Error(err))
			continue
		}
		if ok {
			updates = append(updates, update)
		}
	}
	return updates, nil
}

func (s *gameServiceImpl) advance(ctx context.Context, sess *Session, now time.Time) (ClockUpdate, bool, error) {
	sess.Lock()
	defer sess.Unlock()

	interval := sess.Game.TickInterval()
	if interval <= 0 {
		sess.LastTick = time.Time{}
		return ClockUpdate{}, false, nil
	}
	if sess.LastTick.IsZero() {
		sess.LastTick = now
		return ClockUpdate{}, false, nil
	}

	var events []engine.Event
	ticks := 0
	for interval > 0 && now.Sub(sess.LastTick) >= interval && ticks < maxCatchUpTicks {
		events = append(events, sess.Game.Tick()...)
		sess.LastTick = sess.LastTick.Add(interval)
		interval = sess.Game.TickInterval()
		ticks++
	}
	if ticks == 0 {
		return ClockUpdate{}, false, nil
	}
	if ticks == maxCatchUpTicks {
		sess.LastTick = now
	}

	s.afterEvents(ctx, sess, events)

	state, err := sess.State()
	if err != nil {
		return ClockUpdate{}, false, err
	}
	return ClockUpdate{
		SessionID: sess.ID,
		Ticks:     ticks,
		GameState: state,
		Events:    s.gameEvents(events),
	}, true, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)
	s.resetLocked(ctx, sess)

	state, err := sess.State()
	if err != nil {
		return nil, err
	}

	s.persist(sess)

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	s.touch(sess)
	return sess.State()
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := append([]engine.MoveHistoryEntry(nil), sess.History...)
	sess.Unlock()

	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName), zap.String("kind", string(config.Kind)))
	return nil
}

// ListGames returns the game catalog
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]catalog.Entry, error) {
	return catalog.Entries(), nil
}

// Leaderboard returns the best recorded results, for every game when kind is empty
func (s *gameServiceImpl) Leaderboard(ctx context.Context, kind engine.Kind, limit int) ([]scores.Entry, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, kind)
	}
	if limit <= 0 {
		limit = scores.DefaultTopLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := s.scores.Top(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if entries == nil {
		entries = []scores.Entry{}
	}
	return entries, nil
}

// lookup resolves a session ID
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return sess, nil
}

// touch refreshes the session's access time; the caller holds the session lock
func (s *gameServiceImpl) touch(sess *Session) {
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.logger.Debug("failed to update last access", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

// persist saves the session; the caller holds the session lock
func (s *gameServiceImpl) persist(sess *Session) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn("failed to persist session", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

// applyLocked runs one command and records it in the session history
func (s *gameServiceImpl) applyLocked(ctx context.Context, sess *Session, action engine.Action) []engine.Event {
	events := sess.Game.Apply(action)

	types := make([]engine.EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	sess.History = append(sess.History, engine.MoveHistoryEntry{
		Action:     action,
		Accepted:   engine.Accepted(events),
		Events:     types,
		Timestamp:  s.now().Unix(),
		MoveNumber: len(sess.History) + 1,
	})

	s.afterEvents(ctx, sess, events)
	return events
}

// resetLocked restarts the session's game and clears its history
func (s *gameServiceImpl) resetLocked(ctx context.Context, sess *Session) []engine.Event {
	events := sess.Game.Reset()
	sess.History = nil
	s.seedBestScore(ctx, sess)
	s.afterEvents(ctx, sess, events)
	return events
}

// afterEvents updates the session's message, score records and clock
func (s *gameServiceImpl) afterEvents(ctx context.Context, sess *Session, events []engine.Event) {
	if msg := engine.LastMessage(events); msg != "" {
		sess.Message = msg
	}
	s.recordScore(ctx, sess, events)
	s.syncClock(sess)
}

// syncClock starts or stops the session's clock following the game's interval
func (s *gameServiceImpl) syncClock(sess *Session) {
	if sess.Game.TickInterval() <= 0 {
		sess.LastTick = time.Time{}
		return
	}
	if sess.LastTick.IsZero() {
		sess.LastTick = s.now()
	}
}

func (s *gameServiceImpl) recordScore(ctx context.Context, sess *Session, events []engine.Event) {
	var outcome engine.EventType
	for _, t := range scoringEvents {
		if engine.HasEvent(events, t) {
			outcome = t
			break
		}
	}
	if outcome == "" {
		return
	}

	entry, err := s.scores.Record(ctx, scores.Entry{
		Kind:      sess.Game.Kind(),
		Config:    sess.ConfigID,
		Player:    sess.Player,
		SessionID: sess.ID,
		Score:     sess.Game.Score(),
		Outcome:   string(outcome),
	})
	if err != nil {
		s.logger.Warn("failed to record score", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}

	s.logger.Info("score recorded",
		zap.String("session_id", sess.ID),
		zap.String("kind", string(entry.Kind)),
		zap.String("config", entry.Config),
		zap.String("player", entry.Player),
		zap.Int("score", entry.Score),
		zap.String("outcome", entry.Outcome),
	)
}

// seedBestScore hands the stored best result to games that compare against it
func (s *gameServiceImpl) seedBestScore(ctx context.Context, sess *Session) {
	aware, ok := sess.Game.(engine.BestScoreAware)
	if !ok {
		return
	}

	best, err := s.scores.Best(ctx, sess.Game.Kind(), sess.ConfigID)
	if errors.Is(err, scores.ErrScoreNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to load best score", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	if best.Score > aware.BestScore() {
		aware.SetBestScore(best.Score)
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) (*SessionInfo, error) {
	state, err := sess.State()
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		Kind:           sess.Game.Kind(),
		Player:         sess.Player,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
		GameConfig:     sess.Config,
	}, nil
}

func (s *gameServiceImpl) configIDs() []string {
	available, err := s.configs.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return ids
}

func (s *gameServiceImpl) gameEvents(events []engine.Event) []GameEvent {
	now := s.now()
	out := make([]GameEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, GameEvent{
			Type:      ev.Type,
			Message:   ev.Message,
			Value:     ev.Value,
			Position:  ev.Position,
			Timestamp: now,
		})
	}
	return out
}
