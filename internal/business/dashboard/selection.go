package dashboard

import (
	"errors"
	"fmt"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// ErrInvalidSelection is returned when a selector value is not one of its options.
var ErrInvalidSelection = errors.New("invalid selection")

// SelectionQuery is a partially filled selection as it arrives from a client.
// Empty strings and nil bounds take the default.
type SelectionQuery struct {
	Country      string
	RoomType     string
	PropertyType string
	PriceMin     *float64
	PriceMax     *float64
}

// Options derives every selector's choices from the dataset. The default selection is the
// first option of each selector and the full price range.
func Options(ds *dataset.Dataset) (model.SelectorOptions, error) {
	var opts model.SelectorOptions
	var err error
	if opts.Countries, err = ds.Distinct(model.ColCountry); err != nil {
		return model.SelectorOptions{}, err
	}
	if opts.RoomTypes, err = ds.Distinct(model.ColRoomType); err != nil {
		return model.SelectorOptions{}, err
	}
	if opts.PropertyTypes, err = ds.Distinct(model.ColPropertyType); err != nil {
		return model.SelectorOptions{}, err
	}
	opts.Price, _ = ds.PriceRange()

	opts.Default = model.Selection{
		Country:      first(opts.Countries),
		RoomType:     first(opts.RoomTypes),
		PropertyType: first(opts.PropertyTypes),
		PriceMin:     opts.Price.Min,
		PriceMax:     opts.Price.Max,
	}
	return opts, nil
}

// ResolveSelection fills the blanks of q from the defaults and checks every value against opts.
func ResolveSelection(opts model.SelectorOptions, q SelectionQuery) (model.Selection, error) {
	sel := opts.Default
	if q.Country != "" {
		sel.Country = q.Country
	}
	if q.RoomType != "" {
		sel.RoomType = q.RoomType
	}
	if q.PropertyType != "" {
		sel.PropertyType = q.PropertyType
	}
	if q.PriceMin != nil {
		sel.PriceMin = *q.PriceMin
	}
	if q.PriceMax != nil {
		sel.PriceMax = *q.PriceMax
	}

	if !oneOf(opts.Countries, sel.Country) {
		return model.Selection{}, fmt.Errorf("%w: unknown country %q", ErrInvalidSelection, sel.Country)
	}
	if !oneOf(opts.RoomTypes, sel.RoomType) {
		return model.Selection{}, fmt.Errorf("%w: unknown room type %q", ErrInvalidSelection, sel.RoomType)
	}
	if !oneOf(opts.PropertyTypes, sel.PropertyType) {
		return model.Selection{}, fmt.Errorf("%w: unknown property type %q", ErrInvalidSelection, sel.PropertyType)
	}
	if sel.PriceMin > sel.PriceMax {
		return model.Selection{}, fmt.Errorf("%w: price_min %v is above price_max %v", ErrInvalidSelection, sel.PriceMin, sel.PriceMax)
	}
	if sel.PriceMin < opts.Price.Min || sel.PriceMax > opts.Price.Max {
		return model.Selection{}, fmt.Errorf("%w: price range [%v, %v] is outside [%v, %v]",
			ErrInvalidSelection, sel.PriceMin, sel.PriceMax, opts.Price.Min, opts.Price.Max)
	}
	return sel, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func oneOf(values []string, v string) bool {
	for _, o := range values {
		if o == v {
			return true
		}
	}
	return false
}
