// Command arcade starts the game arcade server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config, session and score storage, debug logging,
// version output, and optional ngrok tunneling for external access during
// development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/arcade/api"
	"github.com/wricardo/mcp-training/arcade/game/config"
	"github.com/wricardo/mcp-training/arcade/game/scores"
	"github.com/wricardo/mcp-training/arcade/game/service"
	"github.com/wricardo/mcp-training/arcade/game/session"
	"github.com/wricardo/mcp-training/arcade/transport/mcp"
	"github.com/wricardo/mcp-training/arcade/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Game Arcade Server"
)

const (
	clockInterval   = 100 * time.Millisecond
	syncInterval    = 5 * time.Second
	cleanupInterval = 1 * time.Hour
	sessionMaxAge   = 24 * time.Hour
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", envDefault("CONFIG_DIR", "configs"), "Directory containing game configurations")
	sessionsDir  = flag.String("sessions-dir", envDefault("SESSIONS_DIR", "sessions"), "Directory for persisted sessions")
	scoresDB     = flag.String("scores-db", envDefault("SCORES_DB", ""), "SQLite file for the leaderboard (in-memory when empty)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// envDefault returns the environment variable key, or fallback when unset
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                               # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090                    # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -scores-db arcade.db          # Keep the leaderboard across restarts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                     # Run MCP stdio server\n", os.Args[0])
	}
}

// services bundles everything the transports and background routines need
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	scores      scores.Store
	logger      *zap.Logger
}

// Close releases the score store and flushes the logger
func (s *services) Close() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if err := s.scores.Close(); err != nil {
		log.Printf("Warning: failed to close score store: %v", err)
	}
	_ = s.logger.Sync()
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	svc, err := initializeServices(logger)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(svc)

	case "server", "http":
		runHTTPServer(svc)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// newLogger builds the structured logger handed to the services. Both
// configurations write to stderr so stdio MCP traffic stays clean.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(svc *services) {
	hub := websocket.NewHub(websocket.WithLogger(svc.logger))
	go hub.Run()

	apiServer := api.NewServer(svc.game, hub, api.WithLogger(svc.logger))

	addr := fmt.Sprintf("%s:%d", *host, *port)

	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	startBackgroundRoutines(ctx, &wg, svc, hub)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// mcpHandler answers single JSON-RPC messages posted to /mcp
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
		if authToken == "" {
			authToken = os.Getenv("NGROK_AUTH_TOKEN")
		}
	}

	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the config manager, score store, session manager
// and game service, and loads persisted sessions.
func initializeServices(logger *zap.Logger) (*services, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := openScoreStore(*scoresDB, logger)
	if err != nil {
		return nil, err
	}

	persistence, err := session.NewFilePersistence(*sessionsDir, configManager)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	gameService := service.NewGameService(sessionManager, configManager,
		service.WithLogger(logger),
		service.WithScoreStore(store),
	)

	return &services{
		game:        gameService,
		sessions:    sessionManager,
		persistence: persistence,
		scores:      store,
		logger:      logger,
	}, nil
}

// openScoreStore opens the SQLite leaderboard at path, or an in-memory store
// when path is empty
func openScoreStore(path string, logger *zap.Logger) (scores.Store, error) {
	if path == "" {
		log.Println("Using in-memory score store (set -scores-db or SCORES_DB to persist)")
		return scores.NewMemoryStore(), nil
	}
	store, err := scores.OpenSQLite(path, scores.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open score store: %w", err)
	}
	log.Printf("Score store: %s", path)
	return store, nil
}

// startBackgroundRoutines runs the game clock, session cleanup and
// filesystem sync until ctx is cancelled
func startBackgroundRoutines(ctx context.Context, wg *sync.WaitGroup, svc *services, hub *websocket.Hub) {
	wg.Add(3)
	go func() {
		defer wg.Done()
		clockRoutine(ctx, svc.game, hub, svc.logger)
	}()
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, svc.sessions)
	}()
	go func() {
		defer wg.Done()
		filesystemSyncRoutine(ctx, svc.sessions, svc.persistence)
	}()
}

// clockBroadcaster receives sessions whose game advanced on the clock
type clockBroadcaster interface {
	BroadcastClock(update service.ClockUpdate)
}

// clockRoutine advances every running game clock and pushes the new states
// to WebSocket clients
func clockRoutine(ctx context.Context, gameService service.GameService, hub clockBroadcaster, logger *zap.Logger) {
	ticker := time.NewTicker(clockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			advanceClocks(ctx, gameService, hub, logger, now)
		}
	}
}

func advanceClocks(ctx context.Context, gameService service.GameService, hub clockBroadcaster, logger *zap.Logger, now time.Time) {
	updates, err := gameService.AdvanceClocks(ctx, now)
	if err != nil {
		logger.Warn("failed to advance game clocks", zap.Error(err))
	}
	for _, update := range updates {
		if hub != nil {
			hub.BroadcastClock(update)
		}
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// Sessions whose files were deleted are dropped from memory; the rest are saved
// so clock-driven progress reaches disk.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			syncSessions(manager, persistence)
		}
	}
}

func syncSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if !persistence.Exists(s.ID) {
			if err := manager.DeleteFromMemory(s.ID); err == nil {
				pruned++
				log.Printf("Pruned session %s from memory (file deleted)", s.ID)
			}
		}
	}

	if pruned > 0 {
		log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
	}

	if err := manager.SaveAllSessions(); err != nil {
		log.Printf("Warning: %v", err)
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(svc *services) {
	var baseURL string

	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub(websocket.WithLogger(svc.logger))
		go hub.Run()

		apiServer := api.NewServer(svc.game, hub, api.WithLogger(svc.logger))
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var wg sync.WaitGroup
		startBackgroundRoutines(ctx, &wg, svc, hub)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
