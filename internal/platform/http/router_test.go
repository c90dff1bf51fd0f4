package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

const listingsCSV = `Country,Country_code,Room_type,Property_type,Host_name,Price,Availability_365,Review_scores
United States,US,Entire home,Apartment,Ana,100,10,90
United States,US,Entire home,Apartment,Ben,200,20,80
United States,US,Entire home,Apartment,Ana,150,35,
United States,US,Entire home,Apartment,Cy,50,,100
France,FR,Private room,House,Dee,80,300,70
`

func newTestRouter(t *testing.T, origins ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, err := dataset.ReadCSV(strings.NewReader(listingsCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	catalog, err := dashboard.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	dash, err := dashboard.New(ds, catalog)
	if err != nil {
		t.Fatalf("dashboard.New: %v", err)
	}
	return NewRouter(dash, origins)
}

func get(t *testing.T, router *gin.Engine, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestRouter(t), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Status   string `json:"status"`
		Listings int    `json:"listings"`
	}
	decode(t, w, &body)
	if body.Status != "ok" || body.Listings != 5 {
		t.Errorf("body = %+v", body)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	w := get(t, newTestRouter(t), "/healthz", RequestIDHeader, "abc-123")
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestOptions(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/options")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var opts model.SelectorOptions
	decode(t, w, &opts)
	if len(opts.Countries) != 2 || opts.Price.Min != 50 || opts.Price.Max != 200 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Default.Country != "France" {
		t.Errorf("default country = %q, want France", opts.Default.Country)
	}
}

func TestPriceAnalysisPage(t *testing.T) {
	router := newTestRouter(t)

	w := get(t, router, "/api/pages/price?country=United+States&room_type=Entire+home&property_type=Apartment&price_min=50&price_max=200")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var page model.Page
	decode(t, w, &page)
	if page.ID != dashboard.PagePrice || len(page.Charts) != 4 {
		t.Fatalf("page = %+v", page)
	}
	first := page.Charts[0]
	if first.Table == nil || len(first.Table.Rows) != 1 || first.Table.Rows[0].Value != 125 {
		t.Errorf("filtered avg price chart = %+v", first)
	}
}

func TestPriceAnalysisEmptySubset(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/pages/price?country=United+States&room_type=Entire+home&property_type=House")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var page model.Page
	decode(t, w, &page)
	for _, ch := range page.Charts {
		if !ch.Empty {
			t.Errorf("chart %s not empty", ch.ID)
		}
	}
}

func TestBadRequests(t *testing.T) {
	router := newTestRouter(t)
	for _, target := range []string{
		"/api/pages/table?country=Atlantis",
		"/api/pages/price?price_min=abc",
		"/api/pages/price?price_min=150&price_max=100",
		"/api/pages/visual?charts=pie",
		"/api/tables/nope/export",
	} {
		w := get(t, router, target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
			continue
		}
		var body map[string]string
		decode(t, w, &body)
		if body["error"] == "" {
			t.Errorf("%s: missing error message", target)
		}
	}
}

func TestVisualPageToggles(t *testing.T) {
	router := newTestRouter(t)

	var page model.Page
	decode(t, get(t, router, "/api/pages/visual"), &page)
	if len(page.Charts) != 0 {
		t.Errorf("default charts = %d, want 0", len(page.Charts))
	}

	decode(t, get(t, router, "/api/pages/visual?charts=all"), &page)
	if len(page.Charts) != 7 {
		t.Errorf("all charts = %d, want 7", len(page.Charts))
	}
}

func TestAggregate(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/aggregate?country=United+States&room_type=Entire+home")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var agg model.Aggregates
	decode(t, w, &agg)
	if len(agg.TopHosts.Rows) != 3 || agg.TopHosts.Rows[0].Key != "Ana" {
		t.Errorf("top hosts = %+v", agg.TopHosts)
	}
	if agg.Selection.PropertyType != "Apartment" {
		t.Errorf("property type default = %q", agg.Selection.PropertyType)
	}
}

func TestExportCSV(t *testing.T) {
	w := get(t, newTestRouter(t), "/api/tables/top_hosts/export?country=United+States&room_type=Entire+home")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "top_hosts.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	want := "Host_name,Listings\nAna,2\nBen,1\nCy,1\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, "https://dash.example")

	w := get(t, router, "/healthz", "Origin", "https://dash.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Errorf("allow origin = %q", got)
	}

	w = get(t, router, "/healthz", "Origin", "https://evil.example")
	if got, ok := w.Header()["Access-Control-Allow-Origin"]; ok {
		t.Errorf("unlisted origin got allow origin %q", got)
	}

	open := get(t, newTestRouter(t), "/healthz", "Origin", "https://any.example")
	if got := open.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin without configured origins = %q, want *", got)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/options", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}
