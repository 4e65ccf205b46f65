package main

import (
	"flag"
	devenv "umsassist-backend/dev/env"
	"umsassist-backend/internal/components/chrono"
	"umsassist-backend/internal/components/serviceutil"
	"umsassist-backend/internal/glitch"
	"umsassist-backend/internal/scrapers/ranking"
	"umsassist-backend/internal/scrapers/ums"
	"umsassist-backend/internal/service"
	"umsassist-backend/internal/store"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	tel := InitTelemetry(ctx, *verbose, cfg.Telemetry)

	cfg.Database.File, err = devenv.ResolvePath(cfg.Database.File)
	if err != nil {
		serviceutil.Fatal("resolve database path", err)
	}

	database, err := cfg.Database.OpenDB()
	if err != nil {
		serviceutil.Fatal("open database", err)
	}
	defer database.Close()
	err = store.Migrate(ctx, database)
	if err != nil {
		serviceutil.Fatal("migrate database", err)
	}

	clock, err := chrono.NewStandardImpl()
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}

	srv := service.NewService(
		ums.NewScraper(cfg.Portal.Options(), tel),
		store.NewStore(database, clock, tel),
		ranking.NewClient(cfg.RankingUrl, tel),
		glitch.NewNotifier(cfg.Smtp, tel),
		service.Options{CorsOrigins: cfg.CorsOrigins},
		tel,
	)

	serviceutil.StartHttpServer(ctx, cfg.Port, srv.Router())
}
