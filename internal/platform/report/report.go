package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// NoData is printed in place of an empty derived table.
const NoData = "no data"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")

	pageTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	chartTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	tableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	muted = lipgloss.NewStyle().Foreground(mutedColor)
)

// PrintPage writes a page to w as plain terminal tables.
func PrintPage(w io.Writer, page model.Page) error {
	var b strings.Builder
	b.WriteString(pageTitle.Render(page.Title))
	b.WriteString("\n")
	if page.Selection != nil {
		s := page.Selection
		b.WriteString(muted.Render(fmt.Sprintf("country=%s room_type=%s property_type=%s price=[%s, %s]",
			s.Country, s.RoomType, s.PropertyType, formatValue(s.PriceMin), formatValue(s.PriceMax))))
		b.WriteString("\n")
	}
	if len(page.Charts) == 0 {
		b.WriteString(muted.Render("no charts selected"))
		b.WriteString("\n")
	}

	for _, ch := range page.Charts {
		b.WriteString("\n")
		b.WriteString(chartTitle.Render(ch.Title))
		b.WriteString(muted.Render(" (" + ch.Kind + ")"))
		b.WriteString("\n")
		if ch.Empty {
			b.WriteString("  " + muted.Render(NoData) + "\n")
			continue
		}
		switch {
		case ch.Table != nil:
			writeTable(&b, *ch.Table)
		case ch.Distribution != nil:
			writeDistribution(&b, *ch.Distribution)
		default:
			writeCountries(&b, ch.Countries)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(b *strings.Builder, t model.Table) {
	b.WriteString(tableHeader.Render(fmt.Sprintf("  %-40s %14s", t.Columns[0], t.Columns[1])))
	b.WriteString("\n")
	for _, r := range t.Rows {
		fmt.Fprintf(b, "  %-40s %14s\n", truncate(r.Key, 40), formatValue(r.Value))
	}
}

func writeDistribution(b *strings.Builder, d model.Distribution) {
	b.WriteString(tableHeader.Render(fmt.Sprintf("  %-24s %5s %8s %8s %8s %8s %8s %8s",
		d.Columns[0], "n", "min", "q1", "median", "q3", "max", "outliers")))
	b.WriteString("\n")
	for _, g := range d.Groups {
		fmt.Fprintf(b, "  %-24s %5d %8s %8s %8s %8s %8s %8d\n",
			truncate(g.Key, 24), len(g.Values),
			formatValue(g.Min), formatValue(g.Q1), formatValue(g.Median),
			formatValue(g.Q3), formatValue(g.Max), len(g.Outliers))
	}
}

func writeCountries(b *strings.Builder, codes []model.CountryCode) {
	b.WriteString(tableHeader.Render(fmt.Sprintf("  %-30s %-12s %8s", model.ColCountry, model.ColCountryCode, "Listings")))
	b.WriteString("\n")
	for _, c := range codes {
		fmt.Fprintf(b, "  %-30s %-12s %8d\n", truncate(c.Country, 30), c.CountryCode, c.Listings)
	}
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
