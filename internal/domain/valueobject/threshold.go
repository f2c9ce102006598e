package valueobject

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind identifies which spending threshold was crossed.
type AlertKind string

const (
	AlertFiftyPercent   AlertKind = "FIFTY_PERCENT"
	AlertEightyPercent  AlertKind = "EIGHTY_PERCENT"
	AlertHundredPercent AlertKind = "HUNDRED_PERCENT"
)

// MidMonthDay is the last day of the month on which the 50% alert may fire.
const MidMonthDay = 15

var alertMessages = map[AlertKind]string{
	AlertFiftyPercent:   "¡You have reached 50% of your budget in expenses before the middle of the month!\nRemember to be more careful with your spending to stay in control.",
	AlertEightyPercent:  "¡You are almost at your limit!\nYou have reached 80%+ of your budget.\nYou are very close, so manage your money wisely to make ends meet.",
	AlertHundredPercent: "Oops!\nYou have exceeded 100% of your budget.\nIt is a good time to reflect on your priorities and how you are managing your finances.",
}

// Message returns the fixed user-facing text for the kind.
func (k AlertKind) Message() string {
	return alertMessages[k]
}

// IsValid reports whether k is a known alert kind.
func (k AlertKind) IsValid() bool {
	_, ok := alertMessages[k]
	return ok
}

// Threshold is a spending boundary expressed as a percentage of the allowance.
type Threshold struct {
	Kind       AlertKind
	Percentage decimal.Decimal
	// FirstHalfOnly limits the threshold to days 1..MidMonthDay.
	FirstHalfOnly bool
}

// Thresholds in evaluation priority order. The first match wins.
var Thresholds = []Threshold{
	{Kind: AlertHundredPercent, Percentage: decimal.NewFromInt(100)},
	{Kind: AlertEightyPercent, Percentage: decimal.NewFromInt(80)},
	{Kind: AlertFiftyPercent, Percentage: decimal.NewFromInt(50), FirstHalfOnly: true},
}

// lowestThreshold is the percentage below which no threshold can be crossed.
var lowestThreshold = decimal.NewFromInt(50)

// Crossing describes a threshold crossed by a single mutation.
type Crossing struct {
	Kind          AlertKind
	BeforePercent decimal.Decimal
	AfterPercent  decimal.Decimal
}

// DetectCrossing decides whether applying delta moved total spend across a threshold.
// totalAfter is the post-write sum of the budget's transactions and delta is the
// contribution of the mutation just written. At most one crossing is returned.
func DetectCrossing(amount, totalAfter, delta decimal.Decimal, now time.Time) (Crossing, bool) {
	after := Percentage(totalAfter, amount)
	if after.LessThan(lowestThreshold) {
		return Crossing{}, false
	}

	before := Percentage(totalAfter.Sub(delta), amount)
	day := now.UTC().Day()

	for _, th := range Thresholds {
		if !before.LessThan(th.Percentage) || after.LessThan(th.Percentage) {
			continue
		}
		if th.FirstHalfOnly && day > MidMonthDay {
			continue
		}
		return Crossing{Kind: th.Kind, BeforePercent: before, AfterPercent: after}, true
	}

	return Crossing{}, false
}
