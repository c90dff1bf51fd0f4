package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/util"
)

var (
	// ErrMissingColumn is returned when the source table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrCountryCodeMismatch is returned when Country and Country_code are not one-to-one.
	ErrCountryCodeMismatch = errors.New("country and country code are not one-to-one")
	// ErrUnknownColumn is returned when a lookup names a column the dataset does not hold.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrEmptyDataset is returned when the source holds no listing rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrMalformedValue is returned when a numeric cell is neither a number nor a missing marker.
	ErrMalformedValue = errors.New("malformed numeric value")
)

// CategoryColumns are the string-valued columns of the listings table.
var CategoryColumns = []string{
	model.ColCountry,
	model.ColCountryCode,
	model.ColRoomType,
	model.ColPropertyType,
	model.ColHostName,
}

// NumericColumns are the float-valued columns of the listings table. Missing values are NaN.
var NumericColumns = []string{
	model.ColPrice,
	model.ColAvailability365,
	model.ColReviewScores,
}

// missingCell is how gota marks a missing value in a string cell.
const missingCell = "NaN"

// Dataset is the immutable, in-memory listings table. It is safe for concurrent readers.
type Dataset struct {
	df   dataframe.DataFrame
	n    int
	cats map[string][]string
	nums map[string][]float64
}

// LoadCSV reads the listings table from a CSV file.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a CSV stream with a header row into a Dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return FromRecords(records)
}

// FromRecords builds a Dataset from a header row followed by data rows.
func FromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyDataset)
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return nil, ErrEmptyDataset
	}
	records, err := normalizeNumbers(records)
	if err != nil {
		return nil, err
	}
	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return New(df)
}

// FromListings builds a Dataset from listings fetched out of a store.
func FromListings(listings []model.Listing) (*Dataset, error) {
	header := append(append([]string{}, CategoryColumns...), NumericColumns...)
	records := make([][]string, 0, len(listings)+1)
	records = append(records, header)
	for _, l := range listings {
		records = append(records, []string{
			l.Country,
			l.CountryCode,
			l.RoomType,
			l.PropertyType,
			l.HostName,
			formatFloat(l.Price),
			formatInt(l.Availability365),
			formatFloat(l.ReviewScores),
		})
	}
	return FromRecords(records)
}

// New validates a loaded frame, normalizes its categorical cells and freezes it.
func New(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if err := checkHeader(df.Names()); err != nil {
		return nil, err
	}

	if df.Nrow() == 0 {
		return nil, ErrEmptyDataset
	}

	ds := &Dataset{
		n:    df.Nrow(),
		cats: make(map[string][]string, len(CategoryColumns)),
		nums: make(map[string][]float64, len(NumericColumns)),
	}

	cols := make([]series.Series, 0, len(CategoryColumns)+len(NumericColumns))
	for _, name := range CategoryColumns {
		s := df.Col(name)
		values := s.Records()
		missing := s.IsNaN()
		cleaned := make([]string, len(values))
		cells := make([]string, len(values))
		for i, v := range values {
			if missing[i] {
				cells[i] = missingCell
				continue
			}
			if name == model.ColCountryCode {
				v = util.CleanCountryCode(v)
			} else {
				v = util.CleanField(v)
			}
			if v == "" {
				cells[i] = missingCell
				continue
			}
			cleaned[i] = v
			cells[i] = v
		}
		ds.cats[name] = cleaned
		cols = append(cols, series.New(cells, series.String, name))
	}
	for _, name := range NumericColumns {
		s := df.Col(name)
		values := s.Float()
		missing := s.IsNaN()
		cells := make([]string, len(values))
		for i, v := range values {
			if missing[i] || math.IsNaN(v) {
				values[i] = math.NaN()
				cells[i] = missingCell
				continue
			}
			cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		ds.nums[name] = values
		cols = append(cols, series.New(cells, series.Float, name))
	}

	ds.df = dataframe.New(cols...)
	if ds.df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", ds.df.Err)
	}
	if err := ds.checkCountryCodes(); err != nil {
		return nil, err
	}
	return ds, nil
}

func checkHeader(header []string) error {
	names := make(map[string]bool, len(header))
	for _, name := range header {
		names[name] = true
	}
	for _, col := range append(append([]string{}, CategoryColumns...), NumericColumns...) {
		if !names[col] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}

// normalizeNumbers returns a copy of records with numeric cells trimmed and missing markers
// rewritten to NaN. gota parses an unreadable number as NaN, so anything else is rejected here.
func normalizeNumbers(records [][]string) ([][]string, error) {
	type numericCol struct {
		idx  int
		name string
	}
	var cols []numericCol
	for i, name := range records[0] {
		for _, c := range NumericColumns {
			if name == c {
				cols = append(cols, numericCol{idx: i, name: name})
			}
		}
	}

	out := make([][]string, len(records))
	out[0] = records[0]
	for r, rec := range records[1:] {
		row := append([]string(nil), rec...)
		for _, c := range cols {
			if c.idx >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[c.idx])
			if util.IsMissing(cell) {
				row[c.idx] = missingCell
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d column %s: %q", ErrMalformedValue, r+1, c.name, row[c.idx])
			}
			row[c.idx] = cell
		}
		out[r+1] = row
	}
	return out, nil
}

func loadOptions() []dataframe.LoadOption {
	types := make(map[string]series.Type, len(CategoryColumns)+len(NumericColumns))
	for _, c := range CategoryColumns {
		types[c] = series.String
	}
	for _, c := range NumericColumns {
		types[c] = series.Float
	}
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(util.MissingMarkers()),
	}
}

// checkCountryCodes enforces that Country and Country_code pair up one-to-one.
func (d *Dataset) checkCountryCodes() error {
	codeOf := make(map[string]string)
	countryOf := make(map[string]string)
	countries := d.cats[model.ColCountry]
	codes := d.cats[model.ColCountryCode]
	for i := 0; i < d.n; i++ {
		country, code := countries[i], codes[i]
		if country == "" || code == "" {
			continue
		}
		if prev, ok := codeOf[country]; ok && prev != code {
			return fmt.Errorf("%w: %s has codes %s and %s", ErrCountryCodeMismatch, country, prev, code)
		}
		if prev, ok := countryOf[code]; ok && prev != country {
			return fmt.Errorf("%w: %s is used by %s and %s", ErrCountryCodeMismatch, code, prev, country)
		}
		codeOf[country] = code
		countryOf[code] = country
	}
	return nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.n
}

// Frame returns a copy of the underlying frame.
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.df.Copy()
}

// IsCategory reports whether col is one of the categorical columns.
func (d *Dataset) IsCategory(col string) bool {
	_, ok := d.cats[col]
	return ok
}

// IsNumeric reports whether col is one of the numeric columns.
func (d *Dataset) IsNumeric(col string) bool {
	_, ok := d.nums[col]
	return ok
}

// Category returns the categorical value at row i; ok is false when the cell is missing.
func (d *Dataset) Category(col string, i int) (string, bool) {
	v := d.cats[col][i]
	return v, v != ""
}

// Number returns the numeric value at row i; ok is false when the cell is missing.
func (d *Dataset) Number(col string, i int) (float64, bool) {
	v := d.nums[col][i]
	return v, !math.IsNaN(v)
}

// All returns the indices of every row.
func (d *Dataset) All() []int {
	idx := make([]int, d.n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Distinct returns the sorted distinct non-missing values of a categorical column.
func (d *Dataset) Distinct(col string) ([]string, error) {
	values, ok := d.cats[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// Contains reports whether value occurs in a categorical column.
func (d *Dataset) Contains(col, value string) bool {
	for _, v := range d.cats[col] {
		if v == value && v != "" {
			return true
		}
	}
	return false
}

// PriceRange returns the minimum and maximum non-missing price; ok is false when no row has one.
func (d *Dataset) PriceRange() (model.PriceRange, bool) {
	var r model.PriceRange
	found := false
	for _, v := range d.nums[model.ColPrice] {
		if math.IsNaN(v) {
			continue
		}
		if !found || v < r.Min {
			r.Min = v
		}
		if !found || v > r.Max {
			r.Max = v
		}
		found = true
	}
	return r, found
}

// Listing returns row i as a Listing.
func (d *Dataset) Listing(i int) model.Listing {
	l := model.Listing{
		Country:      d.cats[model.ColCountry][i],
		CountryCode:  d.cats[model.ColCountryCode][i],
		RoomType:     d.cats[model.ColRoomType][i],
		PropertyType: d.cats[model.ColPropertyType][i],
		HostName:     d.cats[model.ColHostName][i],
	}
	if v, ok := d.Number(model.ColPrice, i); ok {
		l.Price = &v
	}
	if v, ok := d.Number(model.ColAvailability365, i); ok {
		days := int(v)
		l.Availability365 = &days
	}
	if v, ok := d.Number(model.ColReviewScores, i); ok {
		l.ReviewScores = &v
	}
	return l
}

// Listings returns every row as a Listing.
func (d *Dataset) Listings() []model.Listing {
	out := make([]model.Listing, d.n)
	for i := range out {
		out[i] = d.Listing(i)
	}
	return out
}

func formatFloat(v *float64) string {
	if v == nil {
		return missingCell
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return missingCell
	}
	return strconv.Itoa(*v)
}
