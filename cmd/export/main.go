package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"groupexp/app/config"
	"groupexp/app/service/export"
	"groupexp/app/service/store"
	"groupexp/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	outPath := flag.String("out", "conversation_data.csv", "output CSV path")
	flag.Parse()

	mylog.Preinit()

	di := do.New()
	defer di.Shutdown()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	do.Provide(di, store.New)
	do.Provide(di, export.New)

	file, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("cannot create %s: %v", *outPath, err)
	}
	defer file.Close()

	if err = do.MustInvoke[*export.Service](di).Write(context.Background(), file); err != nil {
		log.Fatalf("export failed: %v", err)
	}

	slog.Info("Export complete", "path", *outPath)
}
