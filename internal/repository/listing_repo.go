package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/util"
	"google.golang.org/api/iterator"
)

const batchSize = 400

// listingDoc is the stored form of a listing; Row keeps the source table order.
type listingDoc struct {
	ID  string `firestore:"-"`
	Row int    `firestore:"row"`
	model.Listing
}

// ListingRepository handles Firestore read/write for listings.
type ListingRepository struct {
	client     *firestore.Client
	collection string
}

func NewListingRepository(client *firestore.Client, collection string) *ListingRepository {
	return &ListingRepository{client: client, collection: collection}
}

// FetchAll loads every listing in source row order.
func (r *ListingRepository) FetchAll(ctx context.Context) ([]model.Listing, error) {
	iter := r.client.Collection(r.collection).OrderBy("row", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []model.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate listings: %w", err)
		}
		var d listingDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode listing %s: %w", doc.Ref.ID, err)
		}
		result = append(result, d.Listing)
	}
	return result, nil
}

// BatchUpsert writes listings in batches to reduce round trips. Re-running it with the
// same rows overwrites the same documents.
func (r *ListingRepository) BatchUpsert(ctx context.Context, listings []model.Listing) (int, error) {
	docs := listingDocs(listings)
	written := 0
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := r.client.Batch()
		for _, d := range docs[start:end] {
			batch.Set(r.client.Collection(r.collection).Doc(d.ID), d)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return written, fmt.Errorf("commit batch [%d:%d]: %w", start, end, err)
		}
		written = end
	}
	return written, nil
}

// Count returns the number of listing documents.
func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	iter := r.client.Collection(r.collection).Select().Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("count listings: %w", err)
		}
		n++
	}
}

// Sample returns the first listing in row order; ok is false for an empty collection.
func (r *ListingRepository) Sample(ctx context.Context) (model.Listing, bool, error) {
	iter := r.client.Collection(r.collection).OrderBy("row", firestore.Asc).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return model.Listing{}, false, nil
	}
	if err != nil {
		return model.Listing{}, false, fmt.Errorf("sample listing: %w", err)
	}
	var d listingDoc
	if err := doc.DataTo(&d); err != nil {
		return model.Listing{}, false, fmt.Errorf("decode listing %s: %w", doc.Ref.ID, err)
	}
	return d.Listing, true, nil
}

func listingDocs(listings []model.Listing) []listingDoc {
	docs := make([]listingDoc, 0, len(listings))
	for i, l := range listings {
		docs = append(docs, listingDoc{ID: util.HashListingKey(i, l), Row: i, Listing: l})
	}
	return docs
}

// DirtyListing is a stored listing with categorical fields CleanListing would change.
type DirtyListing struct {
	Ref      *firestore.DocumentRef
	Original model.Listing
}

// FindDirty scans the collection for listings that need cleanup. It also returns how many
// documents were scanned.
func (r *ListingRepository) FindDirty(ctx context.Context) ([]DirtyListing, int, error) {
	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	var dirty []DirtyListing
	total := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return dirty, total, nil
		}
		if err != nil {
			return nil, total, fmt.Errorf("iterate listings: %w", err)
		}
		total++
		var d listingDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, total, fmt.Errorf("decode listing %s: %w", doc.Ref.ID, err)
		}
		if util.NeedsCleanup(d.Listing) {
			dirty = append(dirty, DirtyListing{Ref: doc.Ref, Original: d.Listing})
		}
	}
}

// CleanDirty rewrites the categorical fields of each listing in place, in batches.
func (r *ListingRepository) CleanDirty(ctx context.Context, dirty []DirtyListing) (int, error) {
	updated := 0
	for start := 0; start < len(dirty); start += batchSize {
		end := start + batchSize
		if end > len(dirty) {
			end = len(dirty)
		}
		batch := r.client.Batch()
		for _, item := range dirty[start:end] {
			cleaned := util.CleanListing(item.Original)
			batch.Update(item.Ref, []firestore.Update{
				{Path: "country", Value: cleaned.Country},
				{Path: "countryCode", Value: cleaned.CountryCode},
				{Path: "roomType", Value: cleaned.RoomType},
				{Path: "propertyType", Value: cleaned.PropertyType},
				{Path: "hostName", Value: cleaned.HostName},
			})
		}
		if _, err := batch.Commit(ctx); err != nil {
			return updated, fmt.Errorf("commit batch [%d:%d]: %w", start, end, err)
		}
		updated = end
	}
	return updated, nil
}
