package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jackc/pgx/v5/pgxpool"

	dbfs "github.com/streamnexus/streamnexus/db"
	"github.com/streamnexus/streamnexus/internal/bot"
	"github.com/streamnexus/streamnexus/internal/config"
	"github.com/streamnexus/streamnexus/internal/db"
	dbsqlc "github.com/streamnexus/streamnexus/internal/db/sqlc"
	"github.com/streamnexus/streamnexus/internal/delivery/telegram"
	"github.com/streamnexus/streamnexus/internal/handlers"
	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/logger"
	"github.com/streamnexus/streamnexus/internal/notify"
	"github.com/streamnexus/streamnexus/internal/server"
	"github.com/streamnexus/streamnexus/internal/subscriptions"
	"github.com/streamnexus/streamnexus/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,
			provideDBQueries,

			identities.NewService,
			subscriptions.NewService,
			provideDeliverer,
			provideDispatcher,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(provideSubscriptionsHandler),
			provideServerHandler(provideNotificationsHandler),

			provideBot,
			provideServer,
		),
		fx.Invoke(
			startBot,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func runMigrate(args []string) {
	cfg, err := provideConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}
	migrations, err := fs.Sub(dbfs.MigrationsFS, "migrations")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := db.RunMigrate(logger.L, cfg.Postgres, migrations, command, args); err != nil {
		logger.L.Error("migrate failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

// provideDeliverer yields a nil deliverer when no bot token is
// configured; the dispatcher then refuses triggers instead of the
// process failing to boot.
func provideDeliverer(log *slog.Logger, cfg config.Config) (notify.Deliverer, error) {
	if cfg.Telegram.BotToken == "" {
		log.Warn("telegram bot token not configured; deliveries disabled")
		return nil, nil
	}
	d, err := telegram.NewDeliverer(log, cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func provideDispatcher(log *slog.Logger, cfg config.Config, subs *subscriptions.Service, ids *identities.Service, deliverer notify.Deliverer) *notify.Dispatcher {
	timeout := time.Duration(cfg.Notify.DeliveryTimeoutSeconds) * time.Second
	return notify.NewDispatcher(log, subs, ids, deliverer, cfg.Notify.DeliveryWorkers, timeout)
}

func provideAuthHandler(log *slog.Logger, ids *identities.Service) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, ids)
}

func provideSubscriptionsHandler(log *slog.Logger, subs *subscriptions.Service) *handlers.SubscriptionsHandler {
	return handlers.NewSubscriptionsHandler(log, subs)
}

func provideNotificationsHandler(log *slog.Logger, cfg config.Config, dispatcher *notify.Dispatcher) *handlers.NotificationsHandler {
	return handlers.NewNotificationsHandler(log, dispatcher, cfg.Server.InternalServiceKey)
}

// provideBot yields a nil bot when no token is configured; the HTTP
// API still serves.
func provideBot(log *slog.Logger, cfg config.Config, ids *identities.Service, subs *subscriptions.Service) (*bot.Bot, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}
	return bot.New(log, cfg.Telegram.BotToken, ids, subs)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startBot(lc fx.Lifecycle, b *bot.Bot) {
	if b == nil {
		return
	}
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go b.Run(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	srv *server.Server,
	shutdowner fx.Shutdowner,
) {
	fmt.Printf("Starting StreamNexus %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown() // shutdown the application if the server fails to start
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// graceful shutdown
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
