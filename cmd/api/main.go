// Command api serves the bancas REST API.
//
//	@title						Bancas API
//	@version					1.0
//	@description				Lottery banca management: bancas, vendedores, jugadas and their lifecycle.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	_ "github.com/bancasrd/bancas-api/docs"
	"github.com/bancasrd/bancas-api/internal/api"
	"github.com/bancasrd/bancas-api/internal/core/ports"
	"github.com/bancasrd/bancas-api/internal/core/service"
	"github.com/bancasrd/bancas-api/internal/infrastructure/auth"
	"github.com/bancasrd/bancas-api/internal/infrastructure/config"
	"github.com/bancasrd/bancas-api/internal/infrastructure/db/memory"
	mongodb "github.com/bancasrd/bancas-api/internal/infrastructure/db/mongo"
	"github.com/bancasrd/bancas-api/internal/infrastructure/db/postgres"
	redisdb "github.com/bancasrd/bancas-api/internal/infrastructure/db/redis"
	"github.com/bancasrd/bancas-api/internal/infrastructure/geo"
	"github.com/bancasrd/bancas-api/internal/infrastructure/http/handlers"
	"github.com/bancasrd/bancas-api/internal/infrastructure/messaging/kafka"
	"github.com/bancasrd/bancas-api/internal/infrastructure/queue"
	"github.com/bancasrd/bancas-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users      ports.UserRepository
	bancas     ports.BancaRepository
	vendedores ports.VendedorRepository
	jugadas    ports.JugadaRepository
	resultados ports.ResultadoRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "bancas-api",
		Env:     cfg.Env,
	})

	checks := map[string]handlers.Check{}
	var closers []io.Closer

	repos, err := openStore(ctx, cfg, checks, &closers)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}

	// --- Optional backends ---
	var (
		revoker     ports.TokenRevoker = memory.NewRevocationList()
		rateLimiter echomiddleware.RateLimiterStore
		history     ports.EventHistory
		sinks       []ports.EventSink
	)

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		closers = append(closers, rdb)
		checks["redis"] = handlers.RedisCheck(rdb)
		revoker = redisdb.NewRevocationStore(rdb)
		rateLimiter = redisdb.NewRateLimitStore(rdb, cfg.RateLimit.Window(), cfg.RateLimit.Max, log)
		log.Info().Msg("redis enabled: shared rate limit and token revocation")
	}

	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, MaxPoolSize: 20})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		closers = append(closers, closerFunc(func() error { return client.Disconnect(context.Background()) }))
		checks["mongo"] = handlers.MongoCheck(db)

		audit := mongodb.NewAuditRepository(db)
		if err := audit.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create audit indexes")
		}
		sinks = append(sinks, audit)
		history = audit
	} else {
		audit := memory.NewAuditLog()
		sinks = append(sinks, audit)
		history = audit
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		closers = append(closers, publisher)
		sinks = append(sinks, publisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka enabled")
	}

	// --- Event pipeline ---
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, service.NewEventRouter(log, sinks...), log)
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	provider := auth.NewJWTProvider(auth.JWTConfig{
		Secret:   cfg.Auth.JWTSecret,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
		TTL:      cfg.Auth.TokenTTL,
	})

	jugadas := service.NewJugadaService(service.JugadaRepos{
		Jugadas:    repos.jugadas,
		Bancas:     repos.bancas,
		Vendedores: repos.vendedores,
		Resultados: repos.resultados,
	}, dispatcher, cfg.CancelWindow(), log)

	guard := service.NewAccessGuard(repos.bancas, geo.NoopLocator{Home: cfg.Geofence.Country}, service.GeofenceConfig{
		Country: cfg.Geofence.Country,
		Enforce: cfg.Geofence.Enforce,
	}, log)

	e := api.NewRouter(api.Dependencies{
		Auth:         service.NewAuthService(repos.users, provider, revoker, log),
		Identity:     service.NewIdentityService(provider, revoker, repos.users, log),
		Bancas:       service.NewBancaService(repos.bancas, log),
		Vendedores:   service.NewVendedorService(repos.vendedores, repos.bancas, log),
		Jugadas:      jugadas,
		Guard:        guard,
		History:      history,
		RateLimiter:  rateLimiter,
		HealthChecks: checks,
		Logger:       log,
	}, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		RateWindow:  cfg.RateLimit.Window(),
		RateMax:     cfg.RateLimit.Max,
		Docs:        !cfg.IsProduction(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("event dispatcher did not drain in time")
	}
	cancelDispatcher()

	closeAll(log, closers)
	log.Info().Msg("server stopped")
}

// openStore returns the repositories of the configured driver and registers
// its readiness check.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handlers.Check, closers *[]io.Closer) (repositories, error) {
	if cfg.StoreDriver == config.StoreMemory {
		s := memory.NewStore()
		return repositories{
			users:      s.Users(),
			bancas:     s.Bancas(),
			vendedores: s.Vendedores(),
			jugadas:    s.Jugadas(),
			resultados: s.Resultados(),
		}, nil
	}

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL, MaxOpenConns: 25, MaxIdleConns: 5})
	if err != nil {
		return repositories{}, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	*closers = append(*closers, db)
	checks["postgres"] = handlers.PostgresCheck(db)

	s := postgres.NewStore(db)
	return repositories{
		users:      s.Users(),
		bancas:     s.Bancas(),
		vendedores: s.Vendedores(),
		jugadas:    s.Jugadas(),
		resultados: s.Resultados(),
	}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// closeAll releases clients in reverse order of creation.
func closeAll(log zerolog.Logger, closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close client")
		}
	}
}
