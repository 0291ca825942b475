package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/protolib/internal/config"
	"github.com/Versifine/protolib/internal/debug"
	"github.com/Versifine/protolib/internal/event"
	"github.com/Versifine/protolib/internal/logger"
	"github.com/Versifine/protolib/internal/packets"
	"github.com/Versifine/protolib/internal/proxy"
	"github.com/Versifine/protolib/internal/reflect/accessors"
	"github.com/Versifine/protolib/internal/report"
)

const dataDir = "configs"

func main() {

	store, err := config.NewStore(dataDir, slog.Default())
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := store.Config()
	logger.Init(logger.Config{
		Level:  logLevel(cfg),
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	defer func() {
		if err := store.SaveAll(); err != nil {
			logger.L().Error("Failed to save config", "error", err)
		}
	}()

	reporter := report.NewBasic(logger.WithComponent("report"), reportOptions(cfg))
	store.OnChange(func(cfg config.Config) {
		logger.SetLevel(logLevel(cfg))
		reporter.Configure(reportOptions(cfg))
	})
	if store.MarkUpdateCheck(time.Now()) {
		logger.L().Info("Update check due", "interval", store.AutoDelay().String(),
			"download", cfg.Global.AutoUpdater.Download)
	}
	registry, err := packets.Default(accessors.NewRegistry())
	if err != nil {
		logger.L().Error("Failed to register packets", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	server := proxy.NewServer(
		fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port),
		fmt.Sprintf("%s:%d", cfg.Backend.Host, cfg.Backend.Port),
		proxy.Options{Reporter: reporter, Packets: registry},
	)
	sessions := logger.WithComponent("sessions")
	server.Bus().Subscribe(event.EventSessionOpen, func(raw any) {
		evt := raw.(event.SessionEvent)
		sessions.Info("Session opened", "session", evt.Session.ID().String(), "remote", evt.Session.RemoteAddr())
	})
	server.Bus().Subscribe(event.EventSessionClose, func(raw any) {
		evt := raw.(event.SessionEvent)
		sessions.Info("Session closed", "session", evt.Session.ID().String(), "error", evt.Err)
	})
	server.Bus().Subscribe(event.EventPacketCancelled, func(raw any) {
		evt := raw.(event.CancelledEvent)
		sessions.Debug("Packet cancelled", "session", evt.Session.ID().String(),
			"state", evt.Key.State.String(), "direction", evt.Direction.String(), "id", evt.Key.ID)
	})

	if cfg.Global.Debug {
		console := debug.NewConsole(server, store)
		go func() {
			if err := console.Start(ctx); err != nil {
				logger.L().Warn("Debug console unavailable", "error", err)
				return
			}
			// quit was typed
			stop()
		}()
	}

	err = server.Start(ctx)
	server.Bus().Wait()
	if err != nil {
		logger.L().Error("Failed to start server", "error", err)
		os.Exit(1)
	}

}

func logLevel(cfg config.Config) string {
	if cfg.Global.Debug {
		return "debug"
	}
	return cfg.Logging.Level
}

func reportOptions(cfg config.Config) report.Options {
	return report.Options{
		Detailed:   cfg.Global.DetailedError,
		Suppressed: cfg.Global.SuppressedReports,
	}
}
