package dataset

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

const sampleCSV = `Name,Country,Country_code,Room_type,Property_type,Host_name,Price,Availability_365,Review_scores
Loft,United States,US,Entire home/apt,Apartment,Ana,100,30,95
Flat,United States,us,Entire home/apt,Apartment,Ana,200,,90
Room, Portugal ,PT,Private room,House,Rui  Costa,80,365,
Cabin,Portugal,PT,Private room,House,Rui Costa,NA,120,88
`

func mustReadCSV(t *testing.T, data string) *Dataset {
	t.Helper()
	ds, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return ds
}

func TestReadCSV(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)

	if ds.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", ds.Len())
	}

	if got, _ := ds.Category(model.ColCountry, 2); got != "Portugal" {
		t.Errorf("country = %q, want trimmed %q", got, "Portugal")
	}
	if got, _ := ds.Category(model.ColCountryCode, 1); got != "US" {
		t.Errorf("country code = %q, want upper-cased %q", got, "US")
	}
	if got, _ := ds.Category(model.ColHostName, 2); got != "Rui Costa" {
		t.Errorf("host = %q, want collapsed %q", got, "Rui Costa")
	}

	if v, ok := ds.Number(model.ColPrice, 0); !ok || v != 100 {
		t.Errorf("price row 0 = %v,%v want 100,true", v, ok)
	}
	if _, ok := ds.Number(model.ColPrice, 3); ok {
		t.Errorf("price row 3 should be missing (NA)")
	}
	if _, ok := ds.Number(model.ColAvailability365, 1); ok {
		t.Errorf("availability row 1 should be missing (empty)")
	}
	if _, ok := ds.Number(model.ColReviewScores, 2); ok {
		t.Errorf("review score row 2 should be missing (empty)")
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	data := "Country,Country_code,Room_type,Property_type,Host_name,Price,Availability_365\nX,XX,a,b,c,1,2\n"
	_, err := ReadCSV(strings.NewReader(data))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), model.ColReviewScores) {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
	header := "Country,Country_code,Room_type,Property_type,Host_name,Price,Availability_365,Review_scores\n"
	if _, err := ReadCSV(strings.NewReader(header)); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestFromRecordsMalformedNumber(t *testing.T) {
	header := []string{"Country", "Country_code", "Room_type", "Property_type", "Host_name", "Price", "Availability_365", "Review_scores"}
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"currency formatted price", []string{"France", "FR", "Private room", "House", "Dee", "$1,200", "10", "90"}, model.ColPrice},
		{"text availability", []string{"France", "FR", "Private room", "House", "Dee", "80", "all year", "90"}, model.ColAvailability365},
		{"infinite review score", []string{"France", "FR", "Private room", "House", "Dee", "80", "10", "Inf"}, model.ColReviewScores},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := []string{"France", "FR", "Private room", "House", "Eve", "100", "20", "80"}
			_, err := FromRecords([][]string{header, good, tt.row})
			if !errors.Is(err, ErrMalformedValue) {
				t.Fatalf("err = %v, want ErrMalformedValue", err)
			}
			if !strings.Contains(err.Error(), tt.column) || !strings.Contains(err.Error(), "row 2") {
				t.Errorf("error should name row 2 and %s: %v", tt.column, err)
			}
		})
	}
}

func TestFromRecordsTrimsNumbers(t *testing.T) {
	records := [][]string{
		{"Country", "Country_code", "Room_type", "Property_type", "Host_name", "Price", "Availability_365", "Review_scores"},
		{"France", "FR", "Private room", "House", "Dee", " 80 ", " NA ", "90"},
	}
	ds, err := FromRecords(records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if v, ok := ds.Number(model.ColPrice, 0); !ok || v != 80 {
		t.Errorf("price = %v,%v want 80,true", v, ok)
	}
	if _, ok := ds.Number(model.ColAvailability365, 0); ok {
		t.Errorf("availability should be missing")
	}
	if records[1][5] != " 80 " {
		t.Errorf("input records were modified: %q", records[1][5])
	}
}

func TestCountryCodeBijection(t *testing.T) {
	tests := []struct {
		name string
		rows string
	}{
		{"country with two codes", "Spain,ES,a,b,c,1,1,1\nSpain,SP,a,b,c,1,1,1\n"},
		{"code with two countries", "Spain,ES,a,b,c,1,1,1\nEstonia,ES,a,b,c,1,1,1\n"},
	}
	header := "Country,Country_code,Room_type,Property_type,Host_name,Price,Availability_365,Review_scores\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(header + tt.rows))
			if !errors.Is(err, ErrCountryCodeMismatch) {
				t.Fatalf("err = %v, want ErrCountryCodeMismatch", err)
			}
		})
	}
}

func TestDistinct(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)

	got, err := ds.Distinct(model.ColCountry)
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	want := []string{"Portugal", "United States"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distinct(Country) = %v, want %v", got, want)
	}

	if _, err := ds.Distinct(model.ColPrice); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Distinct(Price) err = %v, want ErrUnknownColumn", err)
	}

	if !ds.Contains(model.ColRoomType, "Private room") {
		t.Errorf("Contains(Room_type, Private room) = false")
	}
	if ds.Contains(model.ColRoomType, "Shared room") {
		t.Errorf("Contains(Room_type, Shared room) = true")
	}
}

func TestPriceRange(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)
	r, ok := ds.PriceRange()
	if !ok {
		t.Fatalf("PriceRange not found")
	}
	if r.Min != 80 || r.Max != 200 {
		t.Errorf("PriceRange = %+v, want {80 200}", r)
	}
}

func TestListingsRoundTrip(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)
	listings := ds.Listings()
	if len(listings) != 4 {
		t.Fatalf("len(Listings) = %d, want 4", len(listings))
	}
	first := listings[0]
	if first.Country != "United States" || first.Price == nil || *first.Price != 100 {
		t.Errorf("first listing = %+v", first)
	}
	if first.Availability365 == nil || *first.Availability365 != 30 {
		t.Errorf("first availability = %v, want 30", first.Availability365)
	}
	if listings[1].Availability365 != nil {
		t.Errorf("second availability should be nil")
	}

	rebuilt, err := FromListings(listings)
	if err != nil {
		t.Fatalf("FromListings: %v", err)
	}
	if !reflect.DeepEqual(rebuilt.Listings(), listings) {
		t.Errorf("rebuilt listings differ:\n got %+v\nwant %+v", rebuilt.Listings(), listings)
	}
}

type fakeSource struct {
	listings []model.Listing
	err      error
}

func (f fakeSource) FetchAll(ctx context.Context) ([]model.Listing, error) {
	return f.listings, f.err
}

func TestLoad(t *testing.T) {
	price := 42.0
	ds, err := Load(context.Background(), fakeSource{listings: []model.Listing{
		{Country: "Turkey", CountryCode: "TR", RoomType: "Shared room", PropertyType: "Hostel", HostName: "Eda", Price: &price},
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ds.Len())
	}

	boom := errors.New("boom")
	if _, err := Load(context.Background(), fakeSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Load err = %v, want wrapped boom", err)
	}
	if _, err := Load(context.Background(), fakeSource{}); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Load err = %v, want ErrEmptyDataset", err)
	}
}
