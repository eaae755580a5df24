// Command server is the process entrypoint: it loads configuration,
// stands up logging/metrics/cache/profile-store/router dependencies,
// binds the TCP listener, and runs the scheduler's tick loop until
// signalled to stop, then shuts each dependency down in reverse order.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrelmc/kestrel/internal/api"
	"github.com/kestrelmc/kestrel/internal/cache"
	"github.com/kestrelmc/kestrel/internal/config"
	"github.com/kestrelmc/kestrel/internal/console"
	"github.com/kestrelmc/kestrel/internal/game"
	"github.com/kestrelmc/kestrel/internal/logging"
	"github.com/kestrelmc/kestrel/internal/metrics"
	kestrelnet "github.com/kestrelmc/kestrel/internal/net"
	"github.com/kestrelmc/kestrel/internal/profile"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/router"
	"github.com/kestrelmc/kestrel/internal/scheduler"
	"github.com/kestrelmc/kestrel/internal/session"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	consoleLevel := logging.Info
	if cfg.Logging.ConsoleLevel != "" {
		consoleLevel = logging.ParseLevel(cfg.Logging.ConsoleLevel)
	}
	fileLevel := logging.Debug
	if cfg.Logging.FileLevel != "" {
		fileLevel = logging.ParseLevel(cfg.Logging.FileLevel)
	}
	logManager := logging.NewManager(firstNonEmpty(cfg.Logging.Dir, envOr("KESTREL_LOG_DIR", "logs")), consoleLevel, fileLevel)
	defer logManager.CloseAll()

	serverLog, err := logManager.Get("server")
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	serverLog.Info("kestrel starting: tick_rate=%dHz listener=%s mode=%s",
		cfg.Server.GetTickRate(), cfg.Server.GetListenerAddr(), cfg.Server.GetConnectionMode())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registries := registry.New()

	var keys *session.KeyPair
	connMode := session.ModeOffline
	if cfg.Server.GetConnectionMode() == config.Online {
		connMode = session.ModeOnline
		keys, err = session.GenerateKeyPair()
		if err != nil {
			log.Fatalf("session: generate server keypair: %v", err)
		}
	}
	serverID := "" // vanilla always uses an empty server-id in the hash

	profiles, err := buildProfileStore(ctx, cfg, serverLog)
	if err != nil {
		log.Fatalf("profile: %v", err)
	}
	if closer, ok := profiles.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var sessionCache *cache.Cache
	if cfg.Cache.Enabled {
		sessionCache, err = cache.New(ctx, cache.Config{Addr: cfg.Cache.Addr, DB: cfg.Cache.DB})
		if err != nil {
			log.Fatalf("cache: %v", err)
		}
		defer sessionCache.Close()
		serverLog.Info("redis cache connected: %s", cfg.Cache.Addr)
	}

	var layerRouter *router.Router
	if cfg.Router.Enabled {
		layerRouter, err = router.New(cfg.Router.URL, hostname(), cfg.Router.Subject, 24*time.Hour)
		if err != nil {
			log.Fatalf("router: %v", err)
		}
		defer layerRouter.Close()
		serverLog.Info("nats router connected: %s", cfg.Router.URL)
	}

	metricsSrv := metrics.New()
	if cfg.Metrics.Enabled {
		addr := firstNonEmpty(cfg.Metrics.ListenAddr, ":9100")
		errCh := metricsSrv.Start(addr)
		go func() {
			if err := <-errCh; err != nil {
				serverLog.Error("metrics server: %v", err)
			}
		}()
		serverLog.Info("metrics exporter listening on %s", addr)
	}

	whitelist := console.NewWhitelist()

	pktRegistry := protocol.NewRegistry()
	protocol.RegisterHandshake(pktRegistry)
	protocol.RegisterStatus(pktRegistry)
	protocol.RegisterLogin(pktRegistry)
	protocol.RegisterPlayServerbound(pktRegistry)
	protocol.RegisterPlayClientbound(pktRegistry)

	compressionThreshold := int32(cfg.Server.GetCompressionThreshold())
	preventProxy := cfg.Server.PreventProxyConnections
	maxDecoderBuf := cfg.Server.GetMaxDecoderBufferBytes()

	newFSM := func(clientIP string) *session.FSM {
		fsm := session.NewFSM(connMode, preventProxy, compressionThreshold, serverID, clientIP, keys)
		if sessionCache != nil {
			fsm.SetAuthCache(sessionCache)
		}
		return fsm
	}

	netServer, err := kestrelnet.NewServer(cfg.Server.GetListenerAddr(), pktRegistry, maxDecoderBuf, cfg.Server.GetMaxConnections(), newFSM)
	if err != nil {
		log.Fatalf("net: bind %s: %v", cfg.Server.GetListenerAddr(), err)
	}

	sched := scheduler.New(cfg.Server.GetTickRate())

	g := game.New(game.Config{
		Cfg:        cfg,
		Registries: registries,
		NetServer:  netServer,
		Scheduler:  sched,
		Log:        serverLog,
		Metrics:    metricsSrv,
		Profiles:   profiles,
		Cache:      sessionCache,
		Router:     layerRouter,
		Whitelist:  whitelist,
		Keys:       keys,
		ServerID:   serverID,
	})

	startTime := time.Now()
	var adminAPI *api.Server
	if cfg.API.Enabled {
		adminUser := envOr("KESTREL_ADMIN_USER", "admin")
		adminPass := envOr("KESTREL_ADMIN_PASSWORD", "")
		var cred *session.AdminCredential
		if adminPass != "" {
			cred, err = session.NewAdminCredential(adminUser, adminPass)
			if err != nil {
				log.Fatalf("api: hash admin credential: %v", err)
			}
		} else {
			serverLog.Warn("KESTREL_ADMIN_PASSWORD unset; admin REST API login is disabled until it is set")
		}
		jwtSecret := cfg.API.JWTSecret
		if jwtSecret == "" {
			jwtSecret = envOr("KESTREL_JWT_SECRET", "")
		}
		if jwtSecret == "" {
			log.Fatalf("api: jwt_secret must be configured when api.enabled is true")
		}
		adminAPI = api.New(api.Config{
			Tokens:     api.NewTokenManager(jwtSecret, 24*time.Hour),
			Credential: cred,
			Kicker:     g,
			Players:    g,
			Status: func() console.Status {
				return console.Collect(console.Reporter{
					StartTime:  startTime,
					Tick:       g.Tick,
					Players:    g.PlayerCount,
					MaxPlayers: cfg.Server.GetMaxPlayers(),
				})
			},
		})
		addr := firstNonEmpty(cfg.API.ListenAddr, ":8080")
		go func() {
			if err := adminAPI.ListenAndServe(addr); err != nil {
				serverLog.Error("admin api: %v", err)
			}
		}()
		serverLog.Info("admin REST API listening on %s", addr)
	}

	operatorConsole := console.New(os.Stdin, serverLog, g, whitelist, func() console.Status {
		return console.Collect(console.Reporter{
			StartTime:  startTime,
			Tick:       g.Tick,
			Players:    g.PlayerCount,
			MaxPlayers: cfg.Server.GetMaxPlayers(),
		})
	})
	go operatorConsole.Run(ctx)

	serverLog.Info("kestrel ready: %s", cfg.Server.GetListenerAddr())
	g.Run(ctx)

	serverLog.Info("shutting down")
	if err := netServer.Close(); err != nil {
		serverLog.Error("net: close: %v", err)
	}
	if adminAPI != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := adminAPI.Shutdown(shutdownCtx); err != nil {
			serverLog.Error("admin api: shutdown: %v", err)
		}
		cancel()
	}
	if err := metricsSrv.Stop(5 * time.Second); err != nil {
		serverLog.Error("metrics: stop: %v", err)
	}
	serverLog.Info("kestrel stopped")
}

// buildProfileStore selects the configured profile backend. A
// missing/unsupported backend leaves profiles
// nil, which game.Game treats as "no persistence, resolve identity only".
func buildProfileStore(ctx context.Context, cfg *config.Config, log *logging.Logger) (profile.Store, error) {
	switch cfg.Profile.Backend {
	case "mysql":
		store, err := profile.NewMySQLStoreFromDSN(ctx, cfg.Profile.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("mysql profile store: %w", err)
		}
		log.Info("profile store: mysql")
		return store, nil
	case "mongo":
		store, err := profile.NewMongoStore(ctx, profile.MongoConfig{URI: cfg.Profile.Mongo.URI, Database: cfg.Profile.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("mongo profile store: %w", err)
		}
		log.Info("profile store: mongo")
		return store, nil
	default:
		log.Info("profile store: none (identity resolution only, no persistence)")
		return nil, nil
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "kestrel-node"
	}
	return h
}
