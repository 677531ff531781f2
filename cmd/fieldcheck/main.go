package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldcheck/fieldcheck/modules/api"
	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/config"
	"github.com/fieldcheck/fieldcheck/pkg/httpserver"
	"github.com/fieldcheck/fieldcheck/pkg/logger"
	"github.com/fieldcheck/fieldcheck/pkg/pg"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/subscription"
)

type appConfig struct {
	Log    logger.Config
	HTTP   httpserver.Config
	Store  string `env:"STORE_DRIVER" envDefault:"postgres"`
	Plans  string `env:"PLANS_FILE"`
	Billed bool   `env:"BILLING_ENABLED" envDefault:"false"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log)

	store, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	src := subscription.NewDefaultSource()
	if cfg.Plans != "" {
		src = subscription.NewFileSource(cfg.Plans)
	}
	catalog, err := subscription.NewCatalog(ctx, src)
	if err != nil {
		return err
	}

	var provider subscription.BillingProvider
	if cfg.Billed {
		var paddleCfg subscription.PaddleConfig
		config.MustLoad(&paddleCfg)
		provider, err = subscription.NewPaddleProvider(paddleCfg)
		if err != nil {
			return err
		}
	}

	gate := quota.NewGate(store, quota.WithLogger(log))
	subs := subscription.NewService(store, catalog, provider, subscription.WithLogger(log))

	router := api.Router(api.RouterOptions{
		Gate:          gate,
		Subscriptions: subs,
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, router)
}

func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (company.Store, func(), error) {
	if cfg.Store == "memory" {
		return company.NewMemoryStore(), func() {}, nil
	}

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return company.NewPostgresStore(pool), pool.Close, nil
}
