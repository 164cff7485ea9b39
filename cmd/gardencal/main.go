package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"gardencal/internal/care"
	"gardencal/internal/config"
	appLog "gardencal/internal/log"
	"gardencal/internal/model"
	"gardencal/internal/store"
	"gardencal/internal/web"
)

const version = "0.1.0"

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	user       string
	seedPath   string
	once       bool
}

func main() {
	if err := run(parseFlags()); err != nil {
		os.Exit(1)
	}
	appLog.Info("gardencal exiting")
}

// run owns every resource main opens, so deferred cleanup happens before the
// process exits. Failures are logged here; main only picks the exit code.
func run(flags flagConfig) error {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return err
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.Info("gardencal starting", "version", version)

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"horizon_days", conf.HorizonDays,
		"reminder_limit", conf.ReminderLimit,
		"driver", conf.Database.Driver,
		"cache_flush", conf.CacheFlush,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ps, err := store.Open(ctx, conf.Database)
	if err != nil {
		appLog.Error("failed to open plant store", err, "driver", conf.Database.Driver)
		return err
	}
	defer func() {
		if err := ps.Close(); err != nil {
			appLog.Error("failed to close plant store", err)
		}
	}()

	if flags.seedPath != "" {
		if err := seed(ctx, ps, flags.user, flags.seedPath); err != nil {
			appLog.Error("seed failed", err, "path", flags.seedPath)
			return err
		}
	}

	if flags.once {
		if err := printDashboard(ctx, conf, ps, flags.user); err != nil {
			appLog.Error("dashboard failed", err, "user_id", flags.user)
			return err
		}
		return nil
	}

	if err := serve(ctx, conf, ps); err != nil {
		appLog.Error("server failed", err)
		return err
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/gardencal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.user, "user", "", "User id (UUID) for -seed and -once")
	flag.StringVar(&cfg.seedPath, "seed", "", "Load plants for -user from a YAML/JSON file (sqlite only)")
	flag.BoolVar(&cfg.once, "once", false, "Print -user's dashboard as JSON and exit")

	flag.Parse()

	return cfg
}

func seed(ctx context.Context, ps store.PlantStore, user, path string) error {
	sq, ok := ps.(*store.SQLiteStore)
	if !ok {
		return errors.New("-seed requires the sqlite driver")
	}
	plants, err := store.LoadSeedFile(path)
	if err != nil {
		return err
	}
	return sq.Seed(ctx, user, plants)
}

func printDashboard(ctx context.Context, conf *config.Config, ps store.PlantStore, user string) error {
	loc, err := conf.Location()
	if err != nil {
		return err
	}
	plants, err := ps.ListPlants(ctx, user)
	if err != nil {
		return err
	}
	locale, err := language.Parse(conf.Locale)
	if err != nil {
		locale = language.English
	}

	dash := care.BuildDashboard(plants, care.DateOf(time.Now().In(loc)), care.DashboardOptions{
		HorizonDays: conf.HorizonDays,
		Limit:       conf.ReminderLimit,
		Filters:     model.AllFilters(),
		Locale:      locale,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dash); err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	return nil
}

func serve(ctx context.Context, conf *config.Config, ps store.PlantStore) error {
	loc, err := conf.Location()
	if err != nil {
		return err
	}

	s := web.NewServer(conf, ps)

	flusher, err := s.StartCacheFlusher(conf.CacheFlush, loc)
	if err != nil {
		return fmt.Errorf("schedule cache flush: %w", err)
	}
	defer func() { <-flusher.Stop().Done() }()

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
