package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/mygoodmovers/movebot/internal/config"
	"github.com/mygoodmovers/movebot/internal/conversation"
	"github.com/mygoodmovers/movebot/internal/db"
	"github.com/mygoodmovers/movebot/internal/dialogue"
	"github.com/mygoodmovers/movebot/internal/events"
	"github.com/mygoodmovers/movebot/internal/extraction"
	"github.com/mygoodmovers/movebot/internal/faq"
	"github.com/mygoodmovers/movebot/internal/handlers"
	"github.com/mygoodmovers/movebot/internal/llm"
	"github.com/mygoodmovers/movebot/internal/logger"
	"github.com/mygoodmovers/movebot/internal/maps"
	"github.com/mygoodmovers/movebot/internal/message"
	"github.com/mygoodmovers/movebot/internal/pricing"
	"github.com/mygoodmovers/movebot/internal/server"
)

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	return logger.New(cfg.Log.Level, cfg.Log.Format)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

func provideLLMClient(log *slog.Logger, cfg config.Config) (llm.Client, error) {
	timeout := time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second
	return llm.NewOpenAIClient(log, cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, timeout)
}

func provideMapsClient(log *slog.Logger, cfg config.Config) (*maps.Client, error) {
	timeout := time.Duration(cfg.Maps.TimeoutSeconds) * time.Second
	return maps.NewClient(log, cfg.Maps.BaseURL, cfg.Maps.APIKey, timeout)
}

func provideEstimator(log *slog.Logger, mapsClient *maps.Client) *pricing.Estimator {
	return pricing.NewEstimator(log, mapsClient, maps.NoRuralData{})
}

func provideFAQ(log *slog.Logger, cfg config.Config) (*faq.Service, error) {
	return faq.NewService(log, cfg.FAQ.Path)
}

func provideEngine(log *slog.Logger, client llm.Client, estimator *pricing.Estimator, faqSvc *faq.Service) *dialogue.Engine {
	adapter := extraction.NewAdapter(log, client)
	return dialogue.NewEngine(log, adapter, estimator, faqSvc, client)
}

func providePublisher(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (events.Publisher, error) {
	if cfg.Rabbit.URL == "" {
		return events.NewNoop(log), nil
	}
	publisher, err := events.New(log, cfg.Rabbit.URL, cfg.Rabbit.Exchange)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

func provideSweeper(log *slog.Logger, cfg config.Config, convSvc *conversation.Service) (*conversation.Sweeper, error) {
	idleTTL, err := time.ParseDuration(cfg.Session.IdleTTL)
	if err != nil {
		return nil, fmt.Errorf("parse idle ttl: %w", err)
	}
	return conversation.NewSweeper(log, convSvc, cfg.Session.SweepSchedule, idleTTL)
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

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func startSweeper(lc fx.Lifecycle, sweeper *conversation.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("server stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,

			provideLLMClient,
			provideMapsClient,
			provideEstimator,
			provideFAQ,
			provideEngine,
			providePublisher,

			conversation.NewService,
			message.NewService,
			provideSweeper,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideChatHandler),
			provideServerHandler(provideEstimateHandler),

			provideServer,
		),
		fx.Invoke(
			startSweeper,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideChatHandler(log *slog.Logger, engine *dialogue.Engine, convSvc *conversation.Service, msgSvc *message.Service, publisher events.Publisher) *handlers.ChatHandler {
	return handlers.NewChatHandler(log, engine, convSvc, msgSvc, publisher)
}

func provideEstimateHandler(log *slog.Logger, estimator *pricing.Estimator, mapsClient *maps.Client) *handlers.EstimateHandler {
	return handlers.NewEstimateHandler(log, estimator, mapsClient)
}
