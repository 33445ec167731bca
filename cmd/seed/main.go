package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adupont/stockgraph/backend/internal/config"
	"github.com/adupont/stockgraph/backend/internal/graph"
	"github.com/adupont/stockgraph/backend/internal/logging"
	"github.com/adupont/stockgraph/backend/internal/repository"
	"github.com/adupont/stockgraph/backend/internal/seed"
)

func main() {
	defaults := seed.DefaultConfig()
	var (
		entrepots    = flag.Int("warehouses", defaults.NumEntrepots, "number of warehouses to generate")
		produits     = flag.Int("products", defaults.NumProduits, "number of products to generate")
		fournisseurs = flag.Int("suppliers", defaults.NumFournisseurs, "number of suppliers to generate")
		randSeed     = flag.Int64("seed", 0, "random seed for deterministic generation (0 uses the clock)")
		workers      = flag.Int("workers", 4, "number of concurrent loader workers")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	dataset := seed.New(seed.Config{
		NumEntrepots:    *entrepots,
		NumProduits:     *produits,
		NumFournisseurs: *fournisseurs,
		Seed:            *randSeed,
	}).Generate()

	repo := repository.New(graphClient)
	loader := seed.NewLoader(repo, *workers)

	start := time.Now()
	logger.Info("loading dataset", "nodes", len(dataset.Nodes), "relations", len(dataset.Links), "workers", *workers)
	if err := loader.Load(ctx, dataset); err != nil {
		logger.Error("seed load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete", "duration", time.Since(start).String())
}
