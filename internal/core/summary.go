package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// ExpenseView returns the categories whose net is negative, with the magnitude
// made positive for display. Sorted by name.
func ExpenseView(summary map[string]decimal.Decimal) []CategoryAmount {
	var out []CategoryAmount
	for name, net := range summary {
		if net.IsNegative() {
			out = append(out, CategoryAmount{Name: name, Amount: net.Neg()})
		}
	}
	sortByName(out)
	return out
}

// IncomeView returns the categories whose net is positive. Sorted by name.
func IncomeView(summary map[string]decimal.Decimal) []CategoryAmount {
	var out []CategoryAmount
	for name, net := range summary {
		if net.IsPositive() {
			out = append(out, CategoryAmount{Name: name, Amount: net})
		}
	}
	sortByName(out)
	return out
}

// SortedSummary flattens a category summary into a name-ordered slice.
func SortedSummary(summary map[string]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(summary))
	for name, net := range summary {
		out = append(out, CategoryAmount{Name: name, Amount: net})
	}
	sortByName(out)
	return out
}

func sortByName(items []CategoryAmount) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
