package dataset

import (
	"context"
	"fmt"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// ListingSource is a store the listings table can be loaded from.
type ListingSource interface {
	FetchAll(ctx context.Context) ([]model.Listing, error)
}

// Load fetches every listing from src and freezes them into a Dataset.
func Load(ctx context.Context, src ListingSource) (*Dataset, error) {
	listings, err := src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	return FromListings(listings)
}
