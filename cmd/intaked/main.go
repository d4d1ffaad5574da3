package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/jask/fieldpost/internal/config"
	"github.com/jask/fieldpost/internal/server"
	"github.com/jask/fieldpost/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := store.Migrate(cfg.Server.DBPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	h := server.NewHandler(cfg.Server.DataDir, cfg.Server.MaxUploadBytes(), db)
	h.RegisterRoutes(router)

	log.Printf("intake listening on %s (data in %s)", cfg.Server.Addr, cfg.Server.DataDir)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
