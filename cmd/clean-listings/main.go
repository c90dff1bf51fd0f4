package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/airbnb-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/repository"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/util"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to Firestore")
	flag.Parse()

	ctx := context.Background()

	// Load environment variables
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	mode := "LIVE"
	if *dryRun {
		mode = "DRY-RUN"
	}

	fmt.Printf("\n=== Listing Cleanup [%s] ===\n", mode)
	fmt.Printf("Collection: %s\n", cfg.FirestoreCollection)
	fmt.Println("==========================================")

	repo := repository.NewListingRepository(client, cfg.FirestoreCollection)
	dirty, total, err := repo.FindDirty(ctx)
	if err != nil {
		log.Fatalf("Failed to scan listings: %v", err)
	}

	if *dryRun {
		for i, item := range dirty {
			if i == 5 {
				break
			}
			cleaned := util.CleanListing(item.Original)
			fmt.Printf("\n--- Sample %d: %s ---\n", i+1, item.Ref.ID)
			fmt.Printf("BEFORE: %q | %q | %q | %q | %q\n", item.Original.Country, item.Original.CountryCode,
				item.Original.RoomType, item.Original.PropertyType, item.Original.HostName)
			fmt.Printf("AFTER:  %q | %q | %q | %q | %q\n", cleaned.Country, cleaned.CountryCode,
				cleaned.RoomType, cleaned.PropertyType, cleaned.HostName)
		}
	}

	fmt.Printf("\n=== Analysis Summary ===\n")
	fmt.Printf("Total documents:    %d\n", total)
	fmt.Printf("Need cleanup:       %d\n", len(dirty))
	fmt.Printf("Already clean:      %d\n", total-len(dirty))

	if len(dirty) == 0 {
		fmt.Println("\nNo documents need cleanup!")
		return
	}
	if *dryRun {
		fmt.Printf("\n[DRY-RUN] Would update %d documents. Run without --dry-run to apply changes.\n", len(dirty))
		return
	}

	updated, err := repo.CleanDirty(ctx, dirty)
	if err != nil {
		log.Fatalf("Cleaned %d documents before failing: %v", updated, err)
	}
	fmt.Printf("\n✓ Successfully cleaned %d documents\n", updated)
}
