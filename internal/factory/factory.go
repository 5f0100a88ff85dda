package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/numduel/numduel/internal/coordinator"
	"github.com/numduel/numduel/internal/dependencies/clock"
	"github.com/numduel/numduel/internal/dependencies/random"
	"github.com/numduel/numduel/internal/services/scoring"
	"github.com/numduel/numduel/internal/services/session"
	"github.com/numduel/numduel/internal/services/solo"
	"github.com/numduel/numduel/internal/storage"
	"github.com/numduel/numduel/internal/storage/memory"
	redisstorage "github.com/numduel/numduel/internal/storage/redis"
	"github.com/numduel/numduel/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService    *scoring.Service
	SessionController *session.Controller
	SoloService       *solo.Service
	WSManager         *ws.Manager
	Coordinator       *coordinator.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// CoordinatorConfig holds realtime play settings (optional)
	// If zero value, defaults to coordinator.DefaultConfig()
	CoordinatorConfig coordinator.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	coordCfg := cfg.CoordinatorConfig
	if coordCfg.GracePeriod == 0 {
		coordCfg = coordinator.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, coordCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, coordCfg coordinator.Config, logger *slog.Logger) *App {
	// Create services
	scoringService := scoring.New()
	sessionController := session.NewController(store, scoringService, clk, rnd, logger)
	soloService := solo.New(scoringService, clk, rnd, logger)
	wsManager := ws.NewManager(logger)
	coord := coordinator.New(sessionController, wsManager, clk, coordCfg, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		ScoringService:    scoringService,
		SessionController: sessionController,
		SoloService:       soloService,
		WSManager:         wsManager,
		Coordinator:       coord,
	}
}
