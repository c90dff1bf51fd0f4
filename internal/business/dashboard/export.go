package dashboard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// ErrUnknownTable is returned when an export names no derived table.
var ErrUnknownTable = errors.New("unknown table")

// ExportRows renders one derived table for sel as CSV records, header first.
// Distributions export one row per value and country codes one row per country.
func (d *Dashboard) ExportRows(name string, sel model.Selection) ([][]string, error) {
	switch name {
	case TableFilteredAvailability:
		dist, err := FilteredAvailability(d.ds, sel)
		if err != nil {
			return nil, err
		}
		return distributionRecords(dist), nil
	case TableCountryCodes:
		return countryCodeRecords(CountryCodes(d.ds)), nil
	}

	for _, builders := range pageBuilders {
		build, ok := builders[name]
		if !ok {
			continue
		}
		chart, err := build(d.ds, sel)
		if err != nil {
			return nil, err
		}
		return tableRecords(*chart.Table), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func tableRecords(t model.Table) [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, []string{t.Columns[0], t.Columns[1]})
	for _, r := range t.Rows {
		out = append(out, []string{r.Key, formatValue(r.Value)})
	}
	return out
}

func distributionRecords(d model.Distribution) [][]string {
	out := [][]string{{d.Columns[0], d.Columns[1]}}
	for _, g := range d.Groups {
		for _, v := range g.Values {
			out = append(out, []string{g.Key, formatValue(v)})
		}
	}
	return out
}

func countryCodeRecords(codes []model.CountryCode) [][]string {
	out := make([][]string, 0, len(codes)+1)
	out = append(out, []string{model.ColCountry, model.ColCountryCode, LabelListings})
	for _, c := range codes {
		out = append(out, []string{c.Country, c.CountryCode, strconv.Itoa(c.Listings)})
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
