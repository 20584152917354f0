package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsSplitByNetSign(t *testing.T) {
	summary := map[string]decimal.Decimal{
		"Salary": decimal.NewFromInt(1000),
		"Food":   decimal.NewFromInt(-200),
		"Rent":   decimal.NewFromInt(-700),
		"Gifts":  decimal.Zero,
	}

	expenses := ExpenseView(summary)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Food", expenses[0].Name)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Rent", expenses[1].Name)
	assert.True(t, expenses[1].Amount.Equal(decimal.NewFromInt(700)))

	incomes := IncomeView(summary)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Salary", incomes[0].Name)
}

func TestViewsEmpty(t *testing.T) {
	assert.Empty(t, ExpenseView(nil))
	assert.Empty(t, IncomeView(map[string]decimal.Decimal{"Food": decimal.NewFromInt(-1)}))
}

func TestSortedSummary(t *testing.T) {
	got := SortedSummary(map[string]decimal.Decimal{
		"b": decimal.NewFromInt(1),
		"a": decimal.NewFromInt(-1),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}
