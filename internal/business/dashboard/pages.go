package dashboard

import (
	"fmt"
	"strings"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// AllCharts toggles every chart of a page on.
const AllCharts = "all"

type chartBuilder func(ds *dataset.Dataset, sel model.Selection) (model.Chart, error)

// pageBuilders maps each page to the charts it can show.
var pageBuilders = map[string]map[string]chartBuilder{
	PageTable: {
		TableTopHosts:           selected(TopHosts),
		TableListingsByRoomType: selected(ListingsByRoomType),
		TableTopPropertyTypes:   global(TopPropertyTypes),
	},
	PageVisual: {
		TableTopPropertyTypes:          global(TopPropertyTypes),
		TableRoomTypeCounts:            global(RoomTypeCounts),
		TableTopHostsOverall:           global(TopHostsOverall),
		TableCountryCodes:              countryCodesChart,
		TableAvgPriceByCountry:         global(AvgPriceByCountry),
		TableAvgReviewScoresByRoomType: global(AvgReviewScoresByRoomType),
		TableAvgPriceByRoomType:        global(AvgPriceByRoomType),
	},
	PagePrice: {
		TableFilteredAvgPriceByRoomType:       selected(FilteredAvgPriceByRoomType),
		TableFilteredAvailability:             availabilityChart,
		TableFilteredAvgPriceByCountry:        selected(FilteredAvgPriceByCountry),
		TableFilteredAvgAvailabilityByCountry: selected(FilteredAvgAvailabilityByCountry),
	},
}

func global(op func(*dataset.Dataset) model.Table) chartBuilder {
	return func(ds *dataset.Dataset, _ model.Selection) (model.Chart, error) {
		return tableChart(op(ds)), nil
	}
}

func selected(op func(*dataset.Dataset, model.Selection) (model.Table, error)) chartBuilder {
	return func(ds *dataset.Dataset, sel model.Selection) (model.Chart, error) {
		t, err := op(ds, sel)
		if err != nil {
			return model.Chart{}, err
		}
		return tableChart(t), nil
	}
}

func tableChart(t model.Table) model.Chart {
	return model.Chart{Table: &t, Empty: t.Empty}
}

func availabilityChart(ds *dataset.Dataset, sel model.Selection) (model.Chart, error) {
	d, err := FilteredAvailability(ds, sel)
	if err != nil {
		return model.Chart{}, err
	}
	return model.Chart{Distribution: &d, Empty: d.Empty}, nil
}

func countryCodesChart(ds *dataset.Dataset, _ model.Selection) (model.Chart, error) {
	codes := CountryCodes(ds)
	return model.Chart{Countries: codes, Empty: len(codes) == 0}, nil
}

// Dashboard serves the pages of one loaded dataset. It holds no mutable state.
type Dashboard struct {
	ds      *dataset.Dataset
	catalog Catalog
	opts    model.SelectorOptions
}

// New prepares a dashboard over ds, deriving selector options once.
func New(ds *dataset.Dataset, catalog Catalog) (*Dashboard, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	opts, err := Options(ds)
	if err != nil {
		return nil, fmt.Errorf("derive selector options: %w", err)
	}
	return &Dashboard{ds: ds, catalog: catalog, opts: opts}, nil
}

func (d *Dashboard) Dataset() *dataset.Dataset {
	return d.ds
}

func (d *Dashboard) Catalog() Catalog {
	return d.catalog
}

func (d *Dashboard) Options() model.SelectorOptions {
	return d.opts
}

// Resolve turns a client query into a complete, validated selection.
func (d *Dashboard) Resolve(q SelectionQuery) (model.Selection, error) {
	return ResolveSelection(d.opts, q)
}

// Aggregate computes all ten derived tables for sel.
func (d *Dashboard) Aggregate(sel model.Selection) (model.Aggregates, error) {
	return Aggregate(d.ds, sel)
}

// TableView builds the table page for sel.
func (d *Dashboard) TableView(sel model.Selection) (model.Page, error) {
	return d.page(PageTable, nil, sel)
}

// VisualView builds the visual page with the given charts toggled on. A nil list shows
// the catalog defaults and AllCharts shows everything.
func (d *Dashboard) VisualView(charts []string) (model.Page, error) {
	return d.page(PageVisual, charts, model.Selection{})
}

// PriceAnalysis builds the price page for sel.
func (d *Dashboard) PriceAnalysis(sel model.Selection) (model.Page, error) {
	return d.page(PagePrice, nil, sel)
}

func (d *Dashboard) page(id string, charts []string, sel model.Selection) (model.Page, error) {
	ps, err := d.catalog.Page(id)
	if err != nil {
		return model.Page{}, err
	}
	ids, err := toggled(ps, charts)
	if err != nil {
		return model.Page{}, err
	}

	page := model.Page{ID: ps.ID, Title: ps.Title, Charts: make([]model.Chart, 0, len(ids))}
	if id != PageVisual {
		page.Selection = &sel
	}
	for _, chartID := range ids {
		cs, err := ps.Chart(chartID)
		if err != nil {
			return model.Page{}, err
		}
		chart, err := pageBuilders[id][chartID](d.ds, sel)
		if err != nil {
			return model.Page{}, fmt.Errorf("build chart %s: %w", chartID, err)
		}
		chart.ID = cs.ID
		chart.Title = cs.Title
		chart.Kind = cs.Kind
		chart.X = cs.X
		chart.Y = cs.Y
		page.Charts = append(page.Charts, chart)
	}
	return page, nil
}

// toggled resolves the chart list of a page, keeping catalog order.
func toggled(ps PageSpec, charts []string) ([]string, error) {
	if charts == nil {
		return ps.Defaults(), nil
	}
	on := make(map[string]bool, len(charts))
	for _, c := range charts {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if c == AllCharts {
			return ps.IDs(), nil
		}
		if _, err := ps.Chart(c); err != nil {
			return nil, err
		}
		on[c] = true
	}
	ids := make([]string, 0, len(on))
	for _, c := range ps.IDs() {
		if on[c] {
			ids = append(ids, c)
		}
	}
	return ids, nil
}
