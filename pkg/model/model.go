package model

// Column names of the listings table, as they appear in the CSV header and on the wire.
const (
	ColCountry         = "Country"
	ColCountryCode     = "Country_code"
	ColRoomType        = "Room_type"
	ColPropertyType    = "Property_type"
	ColHostName        = "Host_name"
	ColPrice           = "Price"
	ColAvailability365 = "Availability_365"
	ColReviewScores    = "Review_scores"
)

// Listing is one rental-property record. Nil numeric fields are missing values.
type Listing struct {
	Country         string   `json:"country,omitempty" firestore:"country,omitempty"`
	CountryCode     string   `json:"countryCode,omitempty" firestore:"countryCode,omitempty"`
	RoomType        string   `json:"roomType,omitempty" firestore:"roomType,omitempty"`
	PropertyType    string   `json:"propertyType,omitempty" firestore:"propertyType,omitempty"`
	HostName        string   `json:"hostName,omitempty" firestore:"hostName,omitempty"`
	Price           *float64 `json:"price,omitempty" firestore:"price,omitempty"`
	Availability365 *int     `json:"availability365,omitempty" firestore:"availability365,omitempty"`
	ReviewScores    *float64 `json:"reviewScores,omitempty" firestore:"reviewScores,omitempty"`
}

// Selection is the set of sidebar selector values a page is computed for.
type Selection struct {
	Country      string  `json:"country"`
	RoomType     string  `json:"roomType"`
	PropertyType string  `json:"propertyType"`
	PriceMin     float64 `json:"priceMin"`
	PriceMax     float64 `json:"priceMax"`
}

// PriceRange is the closed interval covered by the price slider.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SelectorOptions lists the values every selector may take.
type SelectorOptions struct {
	Countries     []string   `json:"countries"`
	RoomTypes     []string   `json:"roomTypes"`
	PropertyTypes []string   `json:"propertyTypes"`
	Price         PriceRange `json:"price"`
	Default       Selection  `json:"default"`
}

// Row is one (group key, value) pair of a derived table.
type Row struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Table is a derived two-column table: a grouping column and a value column.
type Table struct {
	Name    string    `json:"name"`
	Columns [2]string `json:"columns"`
	Rows    []Row     `json:"rows"`
	Empty   bool      `json:"empty"`
}

// BoxGroup holds the raw values of one box-plot group and their five-number summary.
type BoxGroup struct {
	Key          string    `json:"key"`
	Values       []float64 `json:"values"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lowerWhisker"`
	UpperWhisker float64   `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers"`
}

// Distribution is a derived table of raw values partitioned by a grouping column.
type Distribution struct {
	Name    string     `json:"name"`
	Columns [2]string  `json:"columns"`
	Groups  []BoxGroup `json:"groups"`
	Empty   bool       `json:"empty"`
}

// CountryCode pairs a country with its code and listing count (choropleth input).
type CountryCode struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Listings    int    `json:"listings"`
}

// Aggregates holds every derived table the dashboard computes for one selection.
type Aggregates struct {
	Selection                        Selection    `json:"selection"`
	TopHosts                         Table        `json:"topHosts"`
	ListingsByRoomType               Table        `json:"listingsByRoomType"`
	TopPropertyTypes                 Table        `json:"topPropertyTypes"`
	AvgPriceByRoomType               Table        `json:"avgPriceByRoomType"`
	AvgReviewScoresByRoomType        Table        `json:"avgReviewScoresByRoomType"`
	AvgPriceByCountry                Table        `json:"avgPriceByCountry"`
	FilteredAvgPriceByRoomType       Table        `json:"filteredAvgPriceByRoomType"`
	FilteredAvailability             Distribution `json:"filteredAvailability"`
	FilteredAvgPriceByCountry        Table        `json:"filteredAvgPriceByCountry"`
	FilteredAvgAvailabilityByCountry Table        `json:"filteredAvgAvailabilityByCountry"`
}

// Chart is one rendered block of a page: its catalog entry plus the data behind it.
// Exactly one of Table, Distribution or Countries is set.
type Chart struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Kind         string        `json:"kind"`
	X            string        `json:"x,omitempty"`
	Y            string        `json:"y,omitempty"`
	Table        *Table        `json:"table,omitempty"`
	Distribution *Distribution `json:"distribution,omitempty"`
	Countries    []CountryCode `json:"countries,omitempty"`
	Empty        bool          `json:"empty"`
}

// Page is a dashboard page computed for one selection.
type Page struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Selection *Selection `json:"selection,omitempty"`
	Charts    []Chart    `json:"charts"`
}
