package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/airbnb-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/repository"
)

func main() {
	ctx := context.Background()

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

	if err := firestoreclient.Ping(ctx, client, cfg.FirestoreCollection); err != nil {
		log.Fatalf("Firestore ping failed: %v", err)
	}
	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	repo := repository.NewListingRepository(client, cfg.FirestoreCollection)
	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count listings: %v", err)
	}
	fmt.Printf("Collection %s holds %d listings\n\n", cfg.FirestoreCollection, total)

	sample, ok, err := repo.Sample(ctx)
	if err != nil {
		log.Fatalf("Failed to read sample: %v", err)
	}
	if !ok {
		fmt.Println("Collection is empty")
		return
	}

	jsonData, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal: %v", err)
	}
	fmt.Println("First listing:")
	fmt.Println(string(jsonData))

	fmt.Printf("\n=== Numeric field checks ===\n")
	if sample.Price == nil {
		fmt.Println("price: missing")
	} else {
		fmt.Printf("price: %v\n", *sample.Price)
	}
	if sample.Availability365 == nil {
		fmt.Println("availability365: missing")
	} else {
		fmt.Printf("availability365: %d\n", *sample.Availability365)
	}
	if sample.ReviewScores == nil {
		fmt.Println("reviewScores: missing")
	} else {
		fmt.Printf("reviewScores: %v\n", *sample.ReviewScores)
	}
}
