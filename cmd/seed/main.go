package main

import (
	"context"
	"flag"
	"log"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/bootstrap"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/postgres"
)

func main() {
	seedFile := flag.String("file", "", "Seed JSON file (defaults to SEED_FILE, then the bundled dataset)")
	timeout := flag.Duration("timeout", time.Minute, "Overall seeding timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer pool.Close()

	repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	report, err := bootstrap.NewLoader(repo, cfg.SeedFile).Run(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	log.Printf("seed finished: existing=%d seeded=%t created=%d ignored=%d failed=%d",
		report.Existing, report.Seeded, report.Created, report.Ignored, report.Failed)
}
