package transaction

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary aggregates a user's transactions into the dashboard totals.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Summarize computes income and expense totals and the resulting balance for
// an ordered sequence of transactions. An empty sequence yields all zeros.
func Summarize(transactions []*Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero

	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			income = income.Add(t.Amount)
		case TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// CategoryTotal is one slice of the expense-by-category report.
type CategoryTotal struct {
	Category         string          `json:"category"`
	Total            decimal.Decimal `json:"total"`
	PercentOfExpense float64         `json:"percentOfExpense"`
}

// ExpenseByCategory breaks expense transactions down per category, largest
// first, with each category's share of total expenses as a percentage.
// Income transactions are ignored.
func ExpenseByCategory(transactions []*Transaction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	grandTotal := decimal.Zero

	for _, t := range transactions {
		if t.Type != TypeExpense {
			continue
		}
		category := t.Category
		if category == "" {
			category = "uncategorized"
		}
		totals[category] = totals[category].Add(t.Amount)
		grandTotal = grandTotal.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	hundred := decimal.NewFromInt(100)
	for category, total := range totals {
		percent := 0.0
		if grandTotal.IsPositive() {
			percent, _ = total.Mul(hundred).Div(grandTotal).Round(1).Float64()
		}
		out = append(out, CategoryTotal{
			Category:         category,
			Total:            total,
			PercentOfExpense: percent,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Equal(out[j].Total) {
			return out[i].Category < out[j].Category
		}
		return out[i].Total.GreaterThan(out[j].Total)
	})

	return out
}
