package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/client/config"
	"github.com/dmitrijs2005/goinglive/internal/client/repositories/state"
	"github.com/dmitrijs2005/goinglive/internal/client/services"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor"
	"github.com/dmitrijs2005/goinglive/internal/editor/uploads"
	"github.com/dmitrijs2005/goinglive/internal/filex"
	"github.com/dmitrijs2005/goinglive/internal/idgen"
	"github.com/dmitrijs2005/goinglive/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	api         client.Client
	authService services.AuthService
	repo        state.Repository
	db          *sql.DB
	logger      logging.Logger
	httpClient  *http.Client

	// newID overrides the editor's id generator when set.
	newID idgen.Generator

	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	mode    Mode
	profile *course.Profile
	session *editor.Session
}

// NewApp opens the local state database and connects the API client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	path, err := filex.EnsureParentDir(c.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("error preparing state directory: %w", err)
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := state.NewSQLiteRepository(db)
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	return &App{
		config:      c,
		api:         apiClient,
		authService: services.NewAuthService(apiClient, repo),
		repo:        repo,
		db:          db,
		logger:      logger,
		httpClient:  &http.Client{Timeout: c.RequestTimeout},
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run starts the connectivity watcher and the REPL and blocks until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close(ctx)

	fmt.Fprintln(a.out, "GoingLive course editor (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if err := a.flushSession(ctx); err != nil {
		a.logger.Error(ctx, "error saving local state", "error", err)
	}
	_ = a.authService.Close(ctx)
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile != nil
}

func (a *App) currentSession() *editor.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// StartOnlineStatusWatcher pings the server every interval and switches
// between online and offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	a.mu.Lock()
	if a.profile != nil {
		s = a.profile.Username + " "
	}
	if a.session != nil {
		s += a.session.CourseID() + " "
		if a.session.Store().Dirty() {
			s += "* "
		}
	}
	if a.mode != "" {
		s += string(a.mode)
	}
	a.mu.Unlock()

	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// policy returns the upload policy derived from the configured size limit.
func (a *App) policy() uploads.Policy {
	p := uploads.DefaultPolicy()
	if a.config != nil && a.config.MaxUploadSize > 0 {
		p.MaxSize = a.config.MaxUploadSize
	}
	return p
}
