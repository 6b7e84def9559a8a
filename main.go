package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"groupexp/app/client/line"
	"groupexp/app/config"
	"groupexp/app/server"
	"groupexp/app/service/assistant"
	"groupexp/app/service/orchestrator"
	"groupexp/app/service/store"
	"groupexp/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, line.NewClient)
	do.Provide(di, store.New)
	do.Provide(di, assistant.New)
	do.Provide(di, orchestrator.New)
	do.Provide(di, server.New)

	srv := do.MustInvoke[*server.Server](di)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		if err := srv.Shutdown(); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}

		cancel()
	}()

	slog.Info("Service started", "port", cfg.Server.Port)

	if err = srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
