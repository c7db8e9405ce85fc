package main

import (
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"gotier/internal/config"
	"gotier/internal/http/handlers"
	applog "gotier/internal/log"
	"gotier/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var sinks []io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			sinks = append(sinks, f)
		}
	}
	logger, err := applog.Init(cfg.LogLevel, sinks...)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("db.open.fail", zap.Error(err))
	}
	defer db.Close()

	app := handlers.NewApp(db, cfg)
	logger.Info("server.start", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server.stop", zap.Error(err))
	}
}
