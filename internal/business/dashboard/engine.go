package dashboard

import (
	"fmt"
	"sort"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// TopN is the number of groups kept by the top-N tables.
const TopN = 10

// Derived table names.
const (
	TableTopHosts                         = "top_hosts"
	TableListingsByRoomType               = "listings_by_room_type"
	TableTopPropertyTypes                 = "top_property_types"
	TableAvgPriceByRoomType               = "avg_price_by_room_type"
	TableAvgReviewScoresByRoomType        = "avg_review_scores_by_room_type"
	TableAvgPriceByCountry                = "avg_price_by_country"
	TableFilteredAvgPriceByRoomType       = "filtered_avg_price_by_room_type"
	TableFilteredAvailability             = "filtered_availability"
	TableFilteredAvgPriceByCountry        = "filtered_avg_price_by_country"
	TableFilteredAvgAvailabilityByCountry = "filtered_avg_availability_by_country"
	TableRoomTypeCounts                   = "room_type_counts"
	TableTopHostsOverall                  = "top_hosts_overall"
	TableCountryCodes                     = "country_codes"
)

// Value column labels.
const (
	LabelListings      = "Listings"
	LabelTotalListings = "Total_Listings"
)

// CountryRoomPredicate restricts rows to the selected country and room type.
func CountryRoomPredicate(sel model.Selection) dataset.Predicate {
	return dataset.Predicate{
		{Column: model.ColCountry, Op: dataset.Eq, Value: sel.Country},
		{Column: model.ColRoomType, Op: dataset.Eq, Value: sel.RoomType},
	}
}

// SelectionPredicate is the filtered subset: country, room type, property type and price range.
func SelectionPredicate(sel model.Selection) dataset.Predicate {
	return CountryRoomPredicate(sel).And(
		dataset.Constraint{Column: model.ColPropertyType, Op: dataset.Eq, Value: sel.PropertyType},
		dataset.Constraint{Column: model.ColPrice, Op: dataset.GreaterEq, Value: sel.PriceMin},
		dataset.Constraint{Column: model.ColPrice, Op: dataset.LessEq, Value: sel.PriceMax},
	)
}

func selectRows(ds *dataset.Dataset, pred dataset.Predicate) ([]int, error) {
	rows, err := pred.Indices(ds)
	if err != nil {
		return nil, fmt.Errorf("filter listings: %w", err)
	}
	return rows, nil
}

// Aggregate computes every derived table for one selection. It never modifies ds.
func Aggregate(ds *dataset.Dataset, sel model.Selection) (model.Aggregates, error) {
	out := model.Aggregates{Selection: sel}
	var err error

	if out.TopHosts, err = TopHosts(ds, sel); err != nil {
		return model.Aggregates{}, err
	}
	if out.ListingsByRoomType, err = ListingsByRoomType(ds, sel); err != nil {
		return model.Aggregates{}, err
	}
	out.TopPropertyTypes = TopPropertyTypes(ds)
	out.AvgPriceByRoomType = AvgPriceByRoomType(ds)
	out.AvgReviewScoresByRoomType = AvgReviewScoresByRoomType(ds)
	out.AvgPriceByCountry = AvgPriceByCountry(ds)

	// The four filtered tables share one pass over the predicate.
	rows, err := selectRows(ds, SelectionPredicate(sel))
	if err != nil {
		return model.Aggregates{}, err
	}
	out.FilteredAvgPriceByRoomType = filteredAvgPriceByRoomType(ds, rows)
	out.FilteredAvailability = filteredAvailability(ds, rows)
	out.FilteredAvgPriceByCountry = filteredAvgPriceByCountry(ds, rows)
	out.FilteredAvgAvailabilityByCountry = filteredAvgAvailabilityByCountry(ds, rows)
	return out, nil
}

// TopHosts counts listings per host within the selected country and room type and keeps the top 10.
func TopHosts(ds *dataset.Dataset, sel model.Selection) (model.Table, error) {
	rows, err := selectRows(ds, CountryRoomPredicate(sel))
	if err != nil {
		return model.Table{}, err
	}
	counts := topN(countRows(groupRows(ds, rows, model.ColHostName)), TopN)
	return newTable(TableTopHosts, model.ColHostName, LabelListings, counts), nil
}

// ListingsByRoomType counts listings per room type within the selected country and room type.
// The grouping key is also a filter, so the result has at most one row.
func ListingsByRoomType(ds *dataset.Dataset, sel model.Selection) (model.Table, error) {
	rows, err := selectRows(ds, CountryRoomPredicate(sel))
	if err != nil {
		return model.Table{}, err
	}
	groups := groupRows(ds, rows, model.ColRoomType)
	sortGroupsByKey(groups)
	return newTable(TableListingsByRoomType, model.ColRoomType, LabelTotalListings, countRows(groups)), nil
}

// TopPropertyTypes counts listings per property type over the whole table and keeps the top 10.
func TopPropertyTypes(ds *dataset.Dataset) model.Table {
	counts := topN(countRows(groupRows(ds, ds.All(), model.ColPropertyType)), TopN)
	return newTable(TableTopPropertyTypes, model.ColPropertyType, LabelListings, counts)
}

// AvgPriceByRoomType averages price per room type over the whole table, cheapest first.
func AvgPriceByRoomType(ds *dataset.Dataset) model.Table {
	return newTable(TableAvgPriceByRoomType, model.ColRoomType, model.ColPrice,
		sortedMeans(ds, ds.All(), model.ColRoomType, model.ColPrice))
}

// AvgReviewScoresByRoomType averages review scores per room type over the whole table, lowest first.
func AvgReviewScoresByRoomType(ds *dataset.Dataset) model.Table {
	return newTable(TableAvgReviewScoresByRoomType, model.ColRoomType, model.ColReviewScores,
		sortedMeans(ds, ds.All(), model.ColRoomType, model.ColReviewScores))
}

// AvgPriceByCountry averages price per country over the whole table.
func AvgPriceByCountry(ds *dataset.Dataset) model.Table {
	return newTable(TableAvgPriceByCountry, model.ColCountry, model.ColPrice,
		keyedMeans(ds, ds.All(), model.ColCountry, model.ColPrice))
}

// FilteredAvgPriceByRoomType averages price per room type over the filtered subset, cheapest first.
func FilteredAvgPriceByRoomType(ds *dataset.Dataset, sel model.Selection) (model.Table, error) {
	rows, err := selectRows(ds, SelectionPredicate(sel))
	if err != nil {
		return model.Table{}, err
	}
	return filteredAvgPriceByRoomType(ds, rows), nil
}

// FilteredAvailability returns the availability values of the filtered subset per room type.
func FilteredAvailability(ds *dataset.Dataset, sel model.Selection) (model.Distribution, error) {
	rows, err := selectRows(ds, SelectionPredicate(sel))
	if err != nil {
		return model.Distribution{}, err
	}
	return filteredAvailability(ds, rows), nil
}

// FilteredAvgPriceByCountry averages price per country over the filtered subset.
func FilteredAvgPriceByCountry(ds *dataset.Dataset, sel model.Selection) (model.Table, error) {
	rows, err := selectRows(ds, SelectionPredicate(sel))
	if err != nil {
		return model.Table{}, err
	}
	return filteredAvgPriceByCountry(ds, rows), nil
}

// FilteredAvgAvailabilityByCountry averages availability per country over the filtered subset,
// truncated to whole days.
func FilteredAvgAvailabilityByCountry(ds *dataset.Dataset, sel model.Selection) (model.Table, error) {
	rows, err := selectRows(ds, SelectionPredicate(sel))
	if err != nil {
		return model.Table{}, err
	}
	return filteredAvgAvailabilityByCountry(ds, rows), nil
}

// RoomTypeCounts counts listings per room type over the whole table.
func RoomTypeCounts(ds *dataset.Dataset) model.Table {
	groups := groupRows(ds, ds.All(), model.ColRoomType)
	sortGroupsByKey(groups)
	return newTable(TableRoomTypeCounts, model.ColRoomType, LabelListings, countRows(groups))
}

// TopHostsOverall counts listings per host over the whole table and keeps the top 10.
func TopHostsOverall(ds *dataset.Dataset) model.Table {
	counts := topN(countRows(groupRows(ds, ds.All(), model.ColHostName)), TopN)
	return newTable(TableTopHostsOverall, model.ColHostName, LabelListings, counts)
}

// CountryCodes lists each country with its code and listing count, ordered by country.
func CountryCodes(ds *dataset.Dataset) []model.CountryCode {
	groups := groupRows(ds, ds.All(), model.ColCountry)
	out := make([]model.CountryCode, 0, len(groups))
	for _, g := range groups {
		cc := model.CountryCode{Country: g.key, Listings: len(g.rows)}
		for _, i := range g.rows {
			if code, ok := ds.Category(model.ColCountryCode, i); ok {
				cc.CountryCode = code
				break
			}
		}
		out = append(out, cc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

func filteredAvgPriceByRoomType(ds *dataset.Dataset, rows []int) model.Table {
	return newTable(TableFilteredAvgPriceByRoomType, model.ColRoomType, model.ColPrice,
		sortedMeans(ds, rows, model.ColRoomType, model.ColPrice))
}

func filteredAvailability(ds *dataset.Dataset, rows []int) model.Distribution {
	groups := groupRows(ds, rows, model.ColRoomType)
	boxes := make([]model.BoxGroup, 0, len(groups))
	for _, g := range groups {
		values := numbers(ds, g.rows, model.ColAvailability365)
		if len(values) == 0 {
			continue
		}
		boxes = append(boxes, boxGroup(g.key, values))
	}
	return model.Distribution{
		Name:    TableFilteredAvailability,
		Columns: [2]string{model.ColRoomType, model.ColAvailability365},
		Groups:  boxes,
		Empty:   len(boxes) == 0,
	}
}

func filteredAvgPriceByCountry(ds *dataset.Dataset, rows []int) model.Table {
	return newTable(TableFilteredAvgPriceByCountry, model.ColCountry, model.ColPrice,
		keyedMeans(ds, rows, model.ColCountry, model.ColPrice))
}

func filteredAvgAvailabilityByCountry(ds *dataset.Dataset, rows []int) model.Table {
	means := truncateValues(keyedMeans(ds, rows, model.ColCountry, model.ColAvailability365))
	return newTable(TableFilteredAvgAvailabilityByCountry, model.ColCountry, model.ColAvailability365, means)
}

// keyedMeans averages valueCol per keyCol group, ordered by key.
func keyedMeans(ds *dataset.Dataset, rows []int, keyCol, valueCol string) []model.Row {
	groups := groupRows(ds, rows, keyCol)
	sortGroupsByKey(groups)
	return meanRows(ds, groups, valueCol)
}

// sortedMeans averages valueCol per keyCol group, ordered by ascending mean; ties keep key order.
func sortedMeans(ds *dataset.Dataset, rows []int, keyCol, valueCol string) []model.Row {
	return sortByValueAsc(keyedMeans(ds, rows, keyCol, valueCol))
}
