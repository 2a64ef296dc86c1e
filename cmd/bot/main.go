package main

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/console"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/httpapi"
	memcontactrepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/contactrepo"
	memtriprepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/noaa"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/nominatim"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/openweather"
	postgres "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/postgres"
	pgcontactrepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/postgres/contactrepo"
	pgtriprepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/postgres/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/sqlite"
	sqlcontactrepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/sqlite/contactrepo"
	sqltriprepo "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/sqlite/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/advisory"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/bot"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/contacts"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/planner"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/proposals"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/config"
	contactrepoport "github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/contactrepo"
	triprepoport "github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

func main() {
	cfg, err := config.LoadBotConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	clk := platformclock.NewSystemClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		tripRepo    triprepoport.Repository
		contactRepo contactrepoport.Repository
		cleanup     func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		cleanup = pool.Close
		tripRepo = pgtriprepo.NewRepo(pool)
		contactRepo = pgcontactrepo.NewRepo(pool)
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		cleanup = func() { db.Close() }
		tripRepo = sqltriprepo.NewRepo(db)
		contactRepo = sqlcontactrepo.NewRepo(db)
	default:
		tripRepo = memtriprepo.NewRepo()
		contactRepo = memcontactrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	notifier := console.NewNotifier(logger)

	weather := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, nil)
	noaaClient := noaa.NewClient(cfg.NOAABaseURL, nil)
	geocoder := nominatim.NewClient(cfg.GeocodeBaseURL, nil)
	stations := noaa.NewStations()

	tripSvc := trips.NewService(tripRepo, clk, logger)
	contactSvc := contacts.NewService(contactRepo, logger)
	plannerSvc := planner.NewService(geocoder, weather, noaaClient, noaaClient, stations, logger)

	monitor := icewatch.NewMonitor(clk, notifier, contactRepo, icewatch.Config{
		ICEChannelID:   domain.ChannelID(cfg.ICEChannelID),
		ResponseWindow: cfg.ResponseWindow,
	}, logger)

	advisorySvc := advisory.NewService(weather, noaaClient, notifier, clk, advisory.Config{
		ChannelID: domain.ChannelID(cfg.AdvisoryChannelID),
		Interval:  cfg.AdvisoryInterval,
	}, logger)
	go advisorySvc.Run(ctx)

	store := proposals.NewStore(clk, cfg.ProposalTTL)
	dispatcher := bot.NewDispatcher(bot.Config{
		SelfID:       "kayak-bot",
		ICEChannelID: domain.ChannelID(cfg.ICEChannelID),
		RefTTL:       cfg.ProposalTTL,
	}, tripSvc, contactSvc, plannerSvc, monitor, advisorySvc, store, notifier, clk, logger)

	// Local command loop. A platform gateway replaces this in a real
	// deployment; reading stdin keeps the dispatcher drivable without
	// one.
	go runConsole(ctx, dispatcher)

	api := httpapi.NewServer(monitor, tripSvc, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("admin api listening", "port", cfg.HealthPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	advisorySvc.Stop()
	monitor.Shutdown(shutdownCtx)
}

func runConsole(ctx context.Context, d *bot.Dispatcher) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		d.HandleCommand(ctx, "console", "console", line)
	}
}
