package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/loader"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/report"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

func main() {
	pageFlag := flag.String("page", "all", "Page to print: table, visual, price or all")
	country := flag.String("country", "", "Country (defaults to the first option)")
	roomType := flag.String("room-type", "", "Room type (defaults to the first option)")
	propertyType := flag.String("property-type", "", "Property type (defaults to the first option)")
	priceMin := flag.String("price-min", "", "Lower price bound (defaults to the cheapest listing)")
	priceMax := flag.String("price-max", "", "Upper price bound (defaults to the most expensive listing)")
	charts := flag.String("charts", dashboard.AllCharts, "Comma-separated visual charts to show")
	flag.Parse()

	ctx := context.Background()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ds, err := loader.Load(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	catalog, err := dashboard.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	dash, err := dashboard.New(ds, catalog)
	if err != nil {
		log.Fatalf("Failed to init dashboard: %v", err)
	}

	q := dashboard.SelectionQuery{Country: *country, RoomType: *roomType, PropertyType: *propertyType}
	if q.PriceMin, err = parsePrice(*priceMin); err != nil {
		log.Fatalf("Invalid -price-min: %v", err)
	}
	if q.PriceMax, err = parsePrice(*priceMax); err != nil {
		log.Fatalf("Invalid -price-max: %v", err)
	}
	sel, err := dash.Resolve(q)
	if err != nil {
		log.Fatalf("Invalid selection: %v", err)
	}

	var pages []model.Page
	for _, id := range pageIDs(*pageFlag) {
		var page model.Page
		switch id {
		case dashboard.PageTable:
			page, err = dash.TableView(sel)
		case dashboard.PageVisual:
			page, err = dash.VisualView(strings.Split(*charts, ","))
		case dashboard.PagePrice:
			page, err = dash.PriceAnalysis(sel)
		default:
			log.Fatalf("Unknown page %q", id)
		}
		if err != nil {
			log.Fatalf("Failed to build %s page: %v", id, err)
		}
		pages = append(pages, page)
	}

	for _, page := range pages {
		if err := report.PrintPage(os.Stdout, page); err != nil {
			log.Fatalf("Failed to print %s page: %v", page.ID, err)
		}
	}
}

func pageIDs(flagValue string) []string {
	if flagValue == "all" {
		return []string{dashboard.PageTable, dashboard.PageVisual, dashboard.PagePrice}
	}
	return []string{flagValue}
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
