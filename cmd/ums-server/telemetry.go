package main

import (
	"context"
	"log/slog"
	"umsassist-backend/internal/components/serviceutil"
	"umsassist-backend/internal/components/telemetry"
)

// InitTelemetry sets up logging and otel exporters, the returned API is
// what every component reports to.
func InitTelemetry(ctx context.Context, verbose bool, config telemetry.Config) telemetry.API {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	t, err := telemetry.Setup(ctx, "ums-server", config)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := t.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err.Error())
		}
	}()

	tel, err := telemetry.NewOtelAPI(telemetry.SlogAPI{})
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx, tel)
	return tel
}
