package loader

import (
	"context"
	"fmt"
	"log"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/airbnb-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/sqldb"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/repository"
)

// Load reads the listings table once from the configured source. Store connections are
// closed before it returns; the dataset lives in memory.
func Load(ctx context.Context, cfg config.Config) (*dataset.Dataset, error) {
	switch cfg.DatasetSource {
	case config.SourceCSV:
		log.Printf("loading listings from %s", cfg.DatasetPath)
		return dataset.LoadCSV(cfg.DatasetPath)

	case config.SourceFirestore:
		client, credsSource, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		defer client.Close()
		if err := firestoreclient.Ping(ctx, client, cfg.FirestoreCollection); err != nil {
			return nil, err
		}
		log.Printf("loading listings from Firestore project %s collection %s using %s credentials",
			cfg.FirebaseProjectID, cfg.FirestoreCollection, credsSource)
		return dataset.Load(ctx, repository.NewListingRepository(client, cfg.FirestoreCollection))

	case config.SourcePostgres, config.SourceSQLite:
		driver, err := sqldb.DriverFor(cfg.DatasetSource)
		if err != nil {
			return nil, err
		}
		db, err := sqldb.Open(ctx, driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		repo, err := repository.NewSQLListingRepository(db, driver, cfg.ListingsTable)
		if err != nil {
			return nil, err
		}
		log.Printf("loading listings from %s table %s", cfg.DatasetSource, cfg.ListingsTable)
		return dataset.Load(ctx, repo)
	}
	return nil, fmt.Errorf("unsupported dataset source %q", cfg.DatasetSource)
}
