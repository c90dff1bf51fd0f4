package dataset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

func TestPredicateIndices(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)

	tests := []struct {
		name string
		pred Predicate
		want []int
	}{
		{"empty predicate matches all", nil, []int{0, 1, 2, 3}},
		{"category equality", Predicate{{model.ColCountry, Eq, "Portugal"}}, []int{2, 3}},
		{"category inequality", Predicate{{model.ColCountry, Neq, "Portugal"}}, []int{0, 1}},
		{
			"conjunction",
			Predicate{{model.ColCountry, Eq, "United States"}, {model.ColPrice, Greater, 150.0}},
			[]int{1},
		},
		{"missing price never matches", Predicate{{model.ColPrice, GreaterEq, 0.0}}, []int{0, 1, 2}},
		{"missing price fails inequality too", Predicate{{model.ColPrice, Neq, 1.0}}, []int{0, 1, 2}},
		{"int value accepted for numeric column", Predicate{{model.ColPrice, LessEq, 100}}, []int{0, 2}},
		{"strict less", Predicate{{model.ColAvailability365, Less, 120.0}}, []int{0}},
		{"no matches", Predicate{{model.ColCountry, Eq, "Japan"}}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pred.Indices(ds)
			if err != nil {
				t.Fatalf("Indices: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Indices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicateEqualBounds(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)
	pred := Predicate{{model.ColPrice, GreaterEq, 200.0}, {model.ColPrice, LessEq, 200.0}}
	got, err := pred.Indices(ds)
	if err != nil {
		t.Fatalf("Indices: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Indices() = %v, want [1]", got)
	}
}

func TestPredicateErrors(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)

	tests := []struct {
		name string
		pred Predicate
		want error
	}{
		{"unknown column", Predicate{{"Name", Eq, "Loft"}}, ErrUnknownColumn},
		{"string for numeric column", Predicate{{model.ColPrice, Eq, "100"}}, ErrInvalidConstraint},
		{"number for category column", Predicate{{model.ColCountry, Eq, 1.0}}, ErrInvalidConstraint},
		{"unknown operator", Predicate{{model.ColCountry, Op("~"), "US"}}, ErrInvalidConstraint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.pred.Indices(ds); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPredicateAndDoesNotAlias(t *testing.T) {
	base := make(Predicate, 1, 4)
	base[0] = Constraint{model.ColCountry, Eq, "Portugal"}

	a := base.And(Constraint{model.ColRoomType, Eq, "Private room"})
	b := base.And(Constraint{model.ColRoomType, Eq, "Shared room"})

	if a[1].Value == b[1].Value {
		t.Fatalf("And should copy the receiver, got shared backing array")
	}
	if len(base) != 1 {
		t.Errorf("base predicate changed length: %d", len(base))
	}
}

func TestPredicateLeavesDatasetUntouched(t *testing.T) {
	ds := mustReadCSV(t, sampleCSV)
	before := ds.Listings()

	pred := Predicate{{model.ColCountry, Eq, "Portugal"}, {model.ColPrice, LessEq, 100.0}}
	if _, err := pred.Indices(ds); err != nil {
		t.Fatalf("Indices: %v", err)
	}
	if !reflect.DeepEqual(ds.Listings(), before) {
		t.Errorf("dataset changed after predicate evaluation")
	}
}
