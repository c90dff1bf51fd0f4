package repository

import (
	"context"
	"reflect"
	"testing"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/sqldb"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func newSQLiteRepo(t *testing.T) *SQLListingRepository {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewSQLListingRepository(db, sqldb.DriverSQLite, "listings")
	if err != nil {
		t.Fatalf("NewSQLListingRepository: %v", err)
	}
	if err := repo.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	return repo
}

func TestSQLListingRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	listings := []model.Listing{
		{Country: "Portugal", CountryCode: "PT", RoomType: "Private room", PropertyType: "House", HostName: "Rui",
			Price: ptrFloat(80), Availability365: ptrInt(365), ReviewScores: ptrFloat(92.5)},
		{Country: "Portugal", CountryCode: "PT", RoomType: "Entire home/apt", PropertyType: "Apartment", HostName: "Ana"},
	}
	if err := repo.ReplaceAll(ctx, listings); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if !reflect.DeepEqual(got, listings) {
		t.Errorf("FetchAll = %+v, want %+v", got, listings)
	}

	// A second import replaces rather than appends.
	if err := repo.ReplaceAll(ctx, listings[:1]); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSQLListingRepositoryEmptyTable(t *testing.T) {
	repo := newSQLiteRepo(t)

	got, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FetchAll = %v, want none", got)
	}
}

func TestNewSQLListingRepositoryRejectsTableName(t *testing.T) {
	for _, name := range []string{"", "1listings", "listings; DROP TABLE x", "public.listings"} {
		if _, err := NewSQLListingRepository(nil, sqldb.DriverSQLite, name); err == nil {
			t.Errorf("table %q accepted", name)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	pg := &SQLListingRepository{driver: sqldb.DriverPostgres}
	if got := pg.placeholders(3); got != "$1, $2, $3" {
		t.Errorf("postgres placeholders = %q", got)
	}
	lite := &SQLListingRepository{driver: sqldb.DriverSQLite}
	if got := lite.placeholders(3); got != "?, ?, ?" {
		t.Errorf("sqlite placeholders = %q", got)
	}
}

func TestListingDocs(t *testing.T) {
	listings := []model.Listing{
		{Country: "Spain", HostName: "Eva"},
		{Country: "Spain", HostName: "Eva"},
	}
	docs := listingDocs(listings)
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0].Row != 0 || docs[1].Row != 1 {
		t.Errorf("rows = %d,%d want 0,1", docs[0].Row, docs[1].Row)
	}
	if docs[0].ID == docs[1].ID {
		t.Errorf("identical rows share document id %s", docs[0].ID)
	}
	if again := listingDocs(listings); again[0].ID != docs[0].ID {
		t.Errorf("document ids are not stable")
	}
}
