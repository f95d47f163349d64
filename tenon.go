// Package tenon assembles the session-gated todo application: the
// routing guard, the auth actions, the todo actions, and the HTTP
// surface that serves them.
package tenon

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	fiberadapter "github.com/tenonkit/tenon/adapters/fiber"
	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/pkg/cache"
	"github.com/tenonkit/tenon/pkg/crypto"
	"github.com/tenonkit/tenon/services"
)

// interfaces
type (
	Storage      = core.Storage
	AuthProvider = core.AuthProvider
	SessionCache = core.SessionCache
	Revalidator  = core.Revalidator

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	User        = core.User
	Profile     = core.Profile
	Session     = core.Session
	SessionData = core.SessionData
	Todo        = core.Todo
	Guard       = core.Guard
	CacheConfig = core.CacheConfig
	CacheStats  = core.CacheStats

	AuthResult  = services.AuthResult
	LoginResult = services.LoginResult
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache = cache.NewInMemoryCache
	NewArgon2        = crypto.NewArgon2
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrUnauthorized       = core.ErrUnauthorized
	ErrTodoUpdateDenied   = core.ErrTodoUpdateDenied
	ErrTodoDeleteDenied   = core.ErrTodoDeleteDenied
)

var (
	ErrStorageRequired  = core.ErrStorageRequired
	ErrProviderRequired = core.ErrProviderRequired
	ErrHTTPRequired     = core.ErrHTTPRequired
)

// Config wires the application together. Storage, Provider and HTTP are
// required; everything else has a sensible default.
type Config struct {
	Storage  Storage
	Provider AuthProvider
	HTTP     *fiber.App

	// CacheAdapter holds validated sessions between requests. Defaults
	// to the in-memory cache.
	CacheAdapter SessionCache

	// BaseURL prefixes redirect targets embedded in provider mails.
	BaseURL string

	// RefreshWindow is how close to expiry a session gets refreshed.
	RefreshWindow time.Duration

	// Revalidator invalidates cached page renderings after mutations.
	Revalidator Revalidator

	// FailOpen disables the routing guard. Set when the auth provider
	// configuration is incomplete.
	FailOpen bool

	Logger *slog.Logger
}

// App is the assembled application.
type App struct {
	Auth     *services.AuthService
	Todos    *services.TodoService
	Sessions *services.SessionManager
	Guard    *core.Guard
	HTTP     *fiberadapter.Adapter
}

func New(config Config) (*App, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.Provider == nil {
		return nil, ErrProviderRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPRequired
	}

	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     time.Minute,
			MaxSize: 500,
		})
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	sessions := services.NewSessionManager(config.Provider, cacheAdapter, config.RefreshWindow)
	auth := services.NewAuthService(config.Provider, sessions, baseURL, log)
	todos := services.NewTodoService(config.Storage, config.Revalidator, log)
	guard := &core.Guard{FailOpen: config.FailOpen}

	adapter := fiberadapter.New(config.HTTP, auth, todos, sessions, guard, log)
	adapter.RegisterRoutes()

	return &App{
		Auth:     auth,
		Todos:    todos,
		Sessions: sessions,
		Guard:    guard,
		HTTP:     adapter,
	}, nil
}
