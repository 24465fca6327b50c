// Package app is the application object: it builds the prompt engine, the
// dispatchers and the listener chain once, and hands them to the transports.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/internal/service/command"
	"github.com/sandevgo/prompter/internal/service/dispatch"
	"github.com/sandevgo/prompter/internal/service/i18n"
	"github.com/sandevgo/prompter/internal/service/intercept"
	"github.com/sandevgo/prompter/internal/service/prompt"
	"github.com/sandevgo/prompter/internal/service/template"
	"github.com/sandevgo/prompter/internal/storage/sqlite"
	"github.com/sandevgo/prompter/pkg/log"
	"github.com/sandevgo/prompter/pkg/srv"
)

var ErrNotOperator = errors.New("not an operator")

type App struct {
	appCfg *config.AppConfig

	mu  sync.RWMutex
	cfg *config.PrompterConfig

	db          *sql.DB
	messenger   *i18n.Messenger
	manager     *prompt.Manager
	interceptor *intercept.Interceptor
	reaper      *prompt.Reaper
	pipeline    *dispatch.Pipeline
	user        *command.Router
	admin       *command.Router
	templates   core.TemplateRepository
	history     core.HistoryRepository

	opMu      sync.RWMutex
	operators map[string]struct{}
}

// New wires the engine over an open database. Transports are added by the
// caller.
func New(ctx context.Context, appCfg *config.AppConfig, cfg *config.PrompterConfig, db *sql.DB) (*App, error) {
	catalog, err := i18n.LoadCatalog(ctx, appCfg.GetMessagesPath())
	if err != nil {
		return nil, err
	}

	a := &App{
		appCfg:    appCfg,
		cfg:       cfg,
		db:        db,
		messenger: i18n.NewMessenger(cfg.Prefix, catalog),
		manager:   prompt.NewManager(),
		templates: sqlite.NewTemplatesRepo(db),
		history:   sqlite.NewHistoryRepo(db),
		operators: make(map[string]struct{}),
	}

	deps := command.Deps{
		Messenger:    a.messenger,
		Sessions:     a.manager,
		Templates:    a.templates,
		History:      a.history,
		HistoryLimit: a.historyLimit,
		Controller:   a,
		Commands:     func() []core.Command { return a.pipeline.Commands() },
	}

	a.user = command.New("user", command.NewTable(command.NewUserCommands(deps)...), a.messenger)
	a.admin = command.New("admin", command.NewTable(command.NewAdminCommands(deps)...), a.messenger,
		command.WithGuard(a.guard),
	)

	a.interceptor = intercept.New(a.manager, a.messenger, intercept.Options{
		Unsafe:  cfg.Unsafe,
		Delay:   cfg.HijackDelay,
		History: a.history,
	}, a.user, a.admin)

	a.pipeline = dispatch.NewPipeline(a.messenger, a.user, a.admin)
	a.pipeline.Register(dispatch.PriorityRewrite, template.NewExpander(a.templates))
	a.pipeline.Register(dispatch.PrioritySession, prompt.NewResponder(a.manager))
	a.pipeline.Register(dispatch.PriorityDetector, a.interceptor.Passive())

	a.reaper = prompt.NewReaper(a.manager, a.sessionTimeout)

	log.FromCtx(ctx).Debug().
		Strs("listeners", a.pipeline.Listeners()).
		Bool("unsafe", cfg.Unsafe).
		Msg("prompter engine wired")
	return a, nil
}

func (a *App) Pipeline() *dispatch.Pipeline { return a.pipeline }

func (a *App) Manager() *prompt.Manager { return a.manager }

func (a *App) Messenger() *i18n.Messenger { return a.messenger }

// Services returns the engine services in start order. Transports go after
// them, so they are stopped first.
func (a *App) Services() []srv.Service {
	return []srv.Service{
		srv.NewCleanup(a.db.Close),
		a.reaper,
		a.interceptor,
	}
}

// AddOperator allows id to use the admin dispatcher.
func (a *App) AddOperator(id string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.operators[id] = struct{}{}
}

func (a *App) guard(ctx context.Context, inv core.Invocation) error {
	a.opMu.RLock()
	defer a.opMu.RUnlock()

	if _, ok := a.operators[inv.SessionID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotOperator, inv.SessionID)
	}
	return nil
}

func (a *App) Mode() string {
	return string(a.interceptor.Mode())
}

// Reload re-reads the .env file, the prompter settings and the message
// catalog. With clean set every live session is cancelled.
func (a *App) Reload(ctx context.Context, clean bool) (int, error) {
	logger := log.FromCtx(ctx)

	if err := godotenv.Overload(a.appCfg.GetEnvPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("failed to reload env: %w", err)
	}

	cfg, err := config.LoadPrompterConfig()
	if err != nil {
		return 0, fmt.Errorf("failed to parse Prompter config: %w", err)
	}

	catalog, err := i18n.LoadCatalog(ctx, a.appCfg.GetMessagesPath())
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	prev := a.cfg
	a.cfg = cfg
	a.mu.Unlock()

	a.messenger.Reload(cfg.Prefix, catalog)

	if prev.Unsafe != cfg.Unsafe || prev.HijackDelay != cfg.HijackDelay {
		logger.Warn().Msg("interception mode settings take effect after restart")
	}

	cleared := 0
	if clean {
		cleared = a.manager.ClearAll(ctx)
	}

	logger.Info().Bool("clean", clean).Int("cleared", cleared).Msg("configuration reloaded")
	return cleared, nil
}

func (a *App) sessionTimeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.SessionTimeout
}

func (a *App) historyLimit() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.HistoryLimit
}
