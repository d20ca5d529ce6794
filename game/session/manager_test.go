package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/arcade/game/engine"
	"github.com/wricardo/mcp-training/arcade/game/service"
)

func createTestParams(kind engine.Kind) service.CreateParams {
	return service.CreateParams{
		ConfigID: string(kind),
		Config:   engine.DefaultConfig(kind),
		Player:   "tester",
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", params)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Game == nil || session.Game.Kind() != engine.KindTicTacToe {
			t.Error("Expected a tic-tac-toe game to be initialized")
		}
		if session.Player != "tester" || session.ConfigID != "tictactoe" {
			t.Errorf("Expected params to be copied, got player=%q config=%q", session.Player, session.ConfigID)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", params)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		if _, err := manager.Create("test-session", params); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		if _, err := manager.Create("TEST-SESSION", params); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("unsafe ID", func(t *testing.T) {
		if _, err := manager.Create("../escape", params); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalid := createTestParams(engine.KindPuzzle)
		invalid.Config.Puzzle.Size = 7
		if _, err := manager.Create("invalid-test", invalid); !errors.Is(err, engine.ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("every kind", func(t *testing.T) {
		for _, kind := range engine.Kinds {
			session, err := manager.Create("", createTestParams(kind))
			if err != nil {
				t.Fatalf("Failed to create %s session: %v", kind, err)
			}
			if session.Game.Kind() != kind {
				t.Errorf("Expected %s game, got %s", kind, session.Game.Kind())
			}
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestParams(engine.KindChess))

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "exact", id: "get-test"},
		{name: "case-insensitive", id: "GET-Test"},
		{name: "missing", id: "missing", wantErr: true},
		{name: "unsafe", id: "../get-test", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := manager.Get(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("Get(%q) error = %v, want ErrSessionNotFound", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.id, err)
			}
			if session != created {
				t.Error("Expected the same session instance")
			}
		})
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	first, err := manager.GetOrCreate("goc", params)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	second, err := manager.GetOrCreate("goc", params)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if first != second {
		t.Error("GetOrCreate should return the existing session")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-me", createTestParams(engine.KindTicTacToe))

	if err := manager.Delete("DELETE-ME"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := manager.Get("delete-me"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
	if err := manager.Delete("delete-me"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Second Delete() error = %v, want ErrSessionNotFound", err)
	}
	if err := manager.DeleteFromMemory("delete-me"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("DeleteFromMemory() error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	active, _ := manager.Create("active", params)
	expired, _ := manager.Create("expired", params)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", createTestParams(engine.KindTicTacToe))
	session.LastAccessedAt = time.Now().Add(-time.Minute)
	original := session.LastAccessedAt

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(original) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("UpdateLastAccessed(missing) error = %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Every ID is used twice to exercise the duplicate check
			_, err := manager.Create(fmt.Sprintf("c-%d", n/2), params)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	session1, _ := manager.Create("iso-1", params)
	session2, _ := manager.Create("iso-2", params)

	session1.Game.Apply(engine.Action{Type: "place", Index: 4})

	if len(session1.Game.PossibleActions()) != 8 {
		t.Errorf("Session 1 should have 8 free cells, got %d", len(session1.Game.PossibleActions()))
	}
	if len(session2.Game.PossibleActions()) != 9 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	params := createTestParams(engine.KindTicTacToe)

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", params)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if !validID.MatchString(session.ID) || len(session.ID) != 4 {
			t.Errorf("Expected 4-character hex ID, got %q", session.ID)
		}
	}
}
