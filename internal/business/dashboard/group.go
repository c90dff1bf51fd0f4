package dashboard

import (
	"math"
	"sort"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dataset"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
	"gonum.org/v1/gonum/stat"
)

// group is a set of row indices sharing one value of the grouping column.
type group struct {
	key  string
	rows []int
}

// groupRows partitions rows by a categorical column in first-occurrence order.
// Rows with a missing key are dropped.
func groupRows(ds *dataset.Dataset, rows []int, col string) []group {
	pos := make(map[string]int)
	groups := make([]group, 0)
	for _, i := range rows {
		key, ok := ds.Category(col, i)
		if !ok {
			continue
		}
		p, seen := pos[key]
		if !seen {
			p = len(groups)
			pos[key] = p
			groups = append(groups, group{key: key})
		}
		groups[p].rows = append(groups[p].rows, i)
	}
	return groups
}

func sortGroupsByKey(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
}

func countRows(groups []group) []model.Row {
	out := make([]model.Row, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.Row{Key: g.key, Value: float64(len(g.rows))})
	}
	return out
}

// meanRows averages a numeric column per group, skipping missing values.
// Groups with no value at all are omitted.
func meanRows(ds *dataset.Dataset, groups []group, col string) []model.Row {
	out := make([]model.Row, 0, len(groups))
	for _, g := range groups {
		values := numbers(ds, g.rows, col)
		if len(values) == 0 {
			continue
		}
		out = append(out, model.Row{Key: g.key, Value: stat.Mean(values, nil)})
	}
	return out
}

// numbers collects the non-missing values of a numeric column, in row order.
func numbers(ds *dataset.Dataset, rows []int, col string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, i := range rows {
		if v, ok := ds.Number(col, i); ok {
			values = append(values, v)
		}
	}
	return values
}

// topN keeps the n largest rows; ties keep their incoming order.
func topN(rows []model.Row, n int) []model.Row {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func sortByValueAsc(rows []model.Row) []model.Row {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	return rows
}

func truncateValues(rows []model.Row) []model.Row {
	for i := range rows {
		rows[i].Value = math.Trunc(rows[i].Value)
	}
	return rows
}

func newTable(name, keyCol, valueCol string, rows []model.Row) model.Table {
	if rows == nil {
		rows = []model.Row{}
	}
	return model.Table{
		Name:    name,
		Columns: [2]string{keyCol, valueCol},
		Rows:    rows,
		Empty:   len(rows) == 0,
	}
}
