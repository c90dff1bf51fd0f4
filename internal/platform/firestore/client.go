package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const pingTimeout = 5 * time.Second

// New creates a Firestore client from the configured service account (base64 or file).
// It returns the client and which credential source was used.
func New(ctx context.Context, cfg config.Config) (*firestore.Client, string, error) {
	if err := cfg.ValidateFirestore(); err != nil {
		return nil, "", err
	}
	creds, source, err := cfg.FirebaseCredentialsJSON()
	if err != nil {
		return nil, "", err
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, "", fmt.Errorf("init firestore client: %w", err)
	}
	return client, source, nil
}

// Ping checks the listings collection is reachable. An empty collection is not an error.
func Ping(ctx context.Context, client *firestore.Client, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	iter := client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if err == nil || errors.Is(err, iterator.Done) {
		return nil
	}
	return fmt.Errorf("ping firestore collection %s: %w", collection, err)
}
