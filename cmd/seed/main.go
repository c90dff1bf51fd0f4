package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/airbnb-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/sqldb"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/repository"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

func main() {
	target := flag.String("target", config.SourceFirestore, "Store to import into (firestore, postgres or sqlite)")
	csvPath := flag.String("csv", "", "CSV file to import (defaults to DATASET_PATH)")
	flag.Parse()

	ctx := context.Background()

	// Load environment variables
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *csvPath != "" {
		cfg.DatasetPath = *csvPath
	}

	// The target store must be fully configured even when the server reads from csv.
	targetCfg := cfg
	targetCfg.DatasetSource = *target
	if err := targetCfg.Validate(); err != nil {
		log.Fatalf("Invalid target %s: %v", *target, err)
	}

	ds, err := dataset.LoadCSV(cfg.DatasetPath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", cfg.DatasetPath, err)
	}
	listings := ds.Listings()

	fmt.Printf("\n=== Seeding %d listings from %s into %s ===\n", len(listings), cfg.DatasetPath, *target)

	switch *target {
	case config.SourceFirestore:
		err = seedFirestore(ctx, targetCfg, listings)
	case config.SourcePostgres, config.SourceSQLite:
		err = seedSQL(ctx, targetCfg, listings)
	default:
		err = fmt.Errorf("cannot seed into %q", *target)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Seeding completed!")
}

func seedFirestore(ctx context.Context, cfg config.Config, listings []model.Listing) error {
	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	repo := repository.NewListingRepository(client, cfg.FirestoreCollection)
	written, err := repo.BatchUpsert(ctx, listings)
	if err != nil {
		return fmt.Errorf("wrote %d/%d listings: %w", written, len(listings), err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %d listings written, collection %s now holds %d documents\n", written, cfg.FirestoreCollection, total)
	return nil
}

func seedSQL(ctx context.Context, cfg config.Config, listings []model.Listing) error {
	driver, err := sqldb.DriverFor(cfg.DatasetSource)
	if err != nil {
		return err
	}
	db, err := sqldb.Open(ctx, driver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := repository.NewSQLListingRepository(db, driver, cfg.ListingsTable)
	if err != nil {
		return err
	}
	if err := repo.CreateTable(ctx); err != nil {
		return err
	}
	if err := repo.ReplaceAll(ctx, listings); err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ table %s now holds %d rows\n", cfg.ListingsTable, total)
	return nil
}
