package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursepilot/coursepilot/internal/cache"
	"github.com/coursepilot/coursepilot/internal/canvas"
	"github.com/coursepilot/coursepilot/internal/catalog"
	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/engine"
	"github.com/coursepilot/coursepilot/internal/gateway"
	"github.com/coursepilot/coursepilot/internal/lua"
	"github.com/coursepilot/coursepilot/internal/provider"
	"github.com/coursepilot/coursepilot/internal/scheduler"
	"github.com/coursepilot/coursepilot/internal/state"
	"github.com/coursepilot/coursepilot/internal/state/store"
	"github.com/coursepilot/coursepilot/internal/version"
)

type pruner interface {
	PruneIdleSessions() (int64, error)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		os.Exit(0)
	}

	log := logrus.New()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	log.Info(version.Get())

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("coursepilot exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	llm, err := provider.FromConfig(provider.Config{
		ID:      cfg.Provider.ID,
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		API:     cfg.Provider.API,
	})
	if err != nil {
		return err
	}

	cat := catalog.Default()

	var c cache.Cache = cache.Noop{}
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedis(context.Background(), cfg.Cache.RedisAddr)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		c = rc
	}

	var sessions state.Store
	var prune pruner
	switch cfg.Store.Driver {
	case "memory":
		sessions = state.NewMemoryStore()
	case "sqlite":
		db, err := store.Open(cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("opening session db: %w", err)
		}
		defer db.Close()
		ss := store.NewSessionStore(db, cfg.Store.MaxIdleDays)
		sessions, prune = ss, ss
	case "postgres":
		ps, err := store.OpenPostgres(cfg.Store.DSN, cfg.Store.MaxIdleDays)
		if err != nil {
			return fmt.Errorf("opening postgres: %w", err)
		}
		defer ps.Close()
		sessions, prune = ps, ps
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	client := canvas.NewClient(cfg.Canvas.BaseURL, cfg.Canvas.Token)
	exec, err := canvas.NewExecutor(client, cat, c, cfg.CacheTTL(), log)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		Provider:      llm,
		Catalog:       cat,
		Executor:      exec,
		Model:         cfg.Provider.Model,
		Temperature:   cfg.Provider.Temperature,
		HistoryWindow: cfg.Store.HistoryWindow,
		Log:           log,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(eng, log)
	for _, job := range cfg.Jobs {
		if err := sched.AddJob(job); err != nil {
			return err
		}
	}
	if prune != nil && cfg.Store.MaxIdleDays > 0 {
		err := sched.AddFunc("prune-sessions", "@hourly", func(context.Context) error {
			n, err := prune.PruneIdleSessions()
			if err != nil {
				return err
			}
			if n > 0 {
				log.WithField("sessions", n).Info("pruned idle sessions")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	var prep gateway.Preparer
	if script := cfg.Preparer.Script; script != "" {
		prep = func(text string) (string, bool, error) {
			res, err := lua.RunPrepare(script, text)
			if err != nil {
				return "", false, err
			}
			return res.Text, res.Forward, nil
		}
	}

	gw, err := gateway.New(gateway.Config{
		Engine:   eng,
		Store:    sessions,
		Preparer: prep,
		Log:      log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- gw.ListenAndServe(cfg.Gateway.Listen) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gw.Shutdown(ctx)
}
