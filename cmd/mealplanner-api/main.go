// Command mealplanner-api serves the read API over the recipe store. It is
// the only process that runs migrations.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jagiraud/mealplanner/internal/config"
	"github.com/jagiraud/mealplanner/internal/migrate"
	"github.com/jagiraud/mealplanner/internal/server"
	"github.com/jagiraud/mealplanner/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("database config failed: %v", err)
	}

	// Run migrations on a short-lived connection
	if err := migrate.Run(dbCfg.DSN()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	st, err := store.New(context.Background(), dbCfg.DSN())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	s := server.NewServer(cfg, st, logger)
	logger.Info("starting api server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := s.Listen(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
