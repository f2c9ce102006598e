package valueobject

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// MinAmount is the smallest money amount accepted, one cent.
	MinAmount = decimal.New(1, -2)

	// saturatedPercentage is reported for any positive spend against a zero allowance.
	saturatedPercentage = hundred
)

// Balance is the spending summary of a budget.
type Balance struct {
	Initial             decimal.Decimal
	Spent               decimal.Decimal
	SpentPercentage     decimal.Decimal
	Remaining           decimal.Decimal
	RemainingPercentage decimal.Decimal
}

// Percentage returns part*100/whole without rounding.
// A non-positive whole saturates to 100 when part is positive and 0 otherwise.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		if part.IsPositive() {
			return saturatedPercentage
		}
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// IsCentAmount reports whether amount is at least one cent and has no more
// than two decimal places, the precision money columns store.
func IsCentAmount(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(MinAmount) && amount.Equal(amount.Round(2))
}

// SumAmounts adds up amounts.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ComputeBalance summarises spending of amounts against initial.
// Percentages are rounded half-up to two decimals and remaining values never go negative.
func ComputeBalance(initial decimal.Decimal, amounts []decimal.Decimal) Balance {
	if len(amounts) == 0 {
		return Balance{
			Initial:             initial,
			Spent:               decimal.Zero,
			SpentPercentage:     decimal.Zero,
			Remaining:           decimal.Max(initial, decimal.Zero),
			RemainingPercentage: hundred,
		}
	}

	spent := SumAmounts(amounts)
	remaining := decimal.Max(initial.Sub(spent), decimal.Zero)

	remainingPct := decimal.Zero
	if initial.IsPositive() {
		remainingPct = decimal.Max(Percentage(remaining, initial), decimal.Zero)
	}

	return Balance{
		Initial:             initial,
		Spent:               spent,
		SpentPercentage:     Percentage(spent, initial).Round(2),
		Remaining:           remaining,
		RemainingPercentage: remainingPct.Round(2),
	}
}
