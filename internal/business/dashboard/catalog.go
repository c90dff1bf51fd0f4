package dashboard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownChart is returned when a chart or page id is not in the catalog.
var ErrUnknownChart = errors.New("unknown chart")

// ErrInvalidCatalog is returned when a catalog file fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Page ids.
const (
	PageTable  = "table"
	PageVisual = "visual"
	PagePrice  = "price"
)

// Chart kinds a client knows how to draw.
const (
	KindTable      = "table"
	KindBar        = "bar"
	KindBox        = "box"
	KindScatter    = "scatter"
	KindChoropleth = "choropleth"
	KindScatterGeo = "scatter_geo"
)

var chartKinds = map[string]bool{
	KindTable:      true,
	KindBar:        true,
	KindBox:        true,
	KindScatter:    true,
	KindChoropleth: true,
	KindScatterGeo: true,
}

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog holds the titles, chart kinds and default visibility of every page.
type Catalog struct {
	Title string     `yaml:"title" json:"title"`
	Pages []PageSpec `yaml:"pages" json:"pages"`
}

type PageSpec struct {
	ID     string      `yaml:"id" json:"id"`
	Title  string      `yaml:"title" json:"title"`
	Charts []ChartSpec `yaml:"charts" json:"charts"`
}

type ChartSpec struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Kind    string `yaml:"kind" json:"kind"`
	X       string `yaml:"x,omitempty" json:"x,omitempty"`
	Y       string `yaml:"y,omitempty" json:"y,omitempty"`
	Visible bool   `yaml:"visible" json:"visible"`
}

// LoadCatalog reads a catalog file. An empty path selects the built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that every page is known, and that every chart has a builder and a drawable kind.
func (c Catalog) Validate() error {
	seenPages := make(map[string]bool)
	for _, p := range c.Pages {
		builders, ok := pageBuilders[p.ID]
		if !ok {
			return fmt.Errorf("%w: unknown page %q", ErrInvalidCatalog, p.ID)
		}
		if seenPages[p.ID] {
			return fmt.Errorf("%w: duplicate page %q", ErrInvalidCatalog, p.ID)
		}
		seenPages[p.ID] = true

		seenCharts := make(map[string]bool)
		for _, ch := range p.Charts {
			if _, ok := builders[ch.ID]; !ok {
				return fmt.Errorf("%w: page %s has no chart %q", ErrInvalidCatalog, p.ID, ch.ID)
			}
			if seenCharts[ch.ID] {
				return fmt.Errorf("%w: duplicate chart %q on page %s", ErrInvalidCatalog, ch.ID, p.ID)
			}
			seenCharts[ch.ID] = true
			if !chartKinds[ch.Kind] {
				return fmt.Errorf("%w: chart %s has unknown kind %q", ErrInvalidCatalog, ch.ID, ch.Kind)
			}
		}
	}
	for id := range pageBuilders {
		if !seenPages[id] {
			return fmt.Errorf("%w: missing page %q", ErrInvalidCatalog, id)
		}
	}
	return nil
}

// Page returns the page with the given id.
func (c Catalog) Page(id string) (PageSpec, error) {
	for _, p := range c.Pages {
		if p.ID == id {
			return p, nil
		}
	}
	return PageSpec{}, fmt.Errorf("%w: page %q", ErrUnknownChart, id)
}

// Chart returns the chart with the given id on this page.
func (p PageSpec) Chart(id string) (ChartSpec, error) {
	for _, ch := range p.Charts {
		if ch.ID == id {
			return ch, nil
		}
	}
	return ChartSpec{}, fmt.Errorf("%w: %q on page %s", ErrUnknownChart, id, p.ID)
}

// Defaults returns the ids of the charts shown when no toggle is given.
func (p PageSpec) Defaults() []string {
	ids := make([]string, 0, len(p.Charts))
	for _, ch := range p.Charts {
		if ch.Visible {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// IDs returns every chart id of the page in catalog order.
func (p PageSpec) IDs() []string {
	ids := make([]string, 0, len(p.Charts))
	for _, ch := range p.Charts {
		ids = append(ids, ch.ID)
	}
	return ids
}
