package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDetectCrossing(t *testing.T) {
	early := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		amount    string
		total     string
		delta     string
		now       time.Time
		wantKind  AlertKind
		wantFired bool
	}{
		{
			name:      "fifty before mid month",
			amount:    "100",
			total:     "55",
			delta:     "15",
			now:       early,
			wantKind:  AlertFiftyPercent,
			wantFired: true,
		},
		{
			name:      "fifty after mid month is suppressed",
			amount:    "100",
			total:     "55",
			delta:     "15",
			now:       late,
			wantFired: false,
		},
		{
			name:      "fifty on day fifteen",
			amount:    "100",
			total:     "50",
			delta:     "10",
			now:       time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC),
			wantKind:  AlertFiftyPercent,
			wantFired: true,
		},
		{
			name:      "jump from seventy to one hundred five fires hundred only",
			amount:    "100",
			total:     "105",
			delta:     "35",
			now:       early,
			wantKind:  AlertHundredPercent,
			wantFired: true,
		},
		{
			name:      "eighty crossed",
			amount:    "200",
			total:     "170",
			delta:     "50",
			now:       late,
			wantKind:  AlertEightyPercent,
			wantFired: true,
		},
		{
			name:      "no new boundary between sixty and sixty five",
			amount:    "100",
			total:     "65",
			delta:     "5",
			now:       early,
			wantFired: false,
		},
		{
			name:      "below fifty short circuits",
			amount:    "100",
			total:     "49.99",
			delta:     "49.99",
			now:       early,
			wantFired: false,
		},
		{
			name:      "already above hundred",
			amount:    "100",
			total:     "130",
			delta:     "10",
			now:       early,
			wantFired: false,
		},
		{
			name:      "negative delta never crosses",
			amount:    "100",
			total:     "85",
			delta:     "-10",
			now:       early,
			wantFired: false,
		},
		{
			name:      "zero allowance saturates on first spend",
			amount:    "0",
			total:     "1",
			delta:     "1",
			now:       late,
			wantKind:  AlertHundredPercent,
			wantFired: true,
		},
		{
			name:      "zero to fifty from scratch",
			amount:    "100",
			total:     "60",
			delta:     "60",
			now:       early,
			wantKind:  AlertFiftyPercent,
			wantFired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crossing, fired := DetectCrossing(
				decimal.RequireFromString(tt.amount),
				decimal.RequireFromString(tt.total),
				decimal.RequireFromString(tt.delta),
				tt.now,
			)

			assert.Equal(t, tt.wantFired, fired)
			if tt.wantFired {
				assert.Equal(t, tt.wantKind, crossing.Kind)
			}
		})
	}
}

func TestAlertKindMessage(t *testing.T) {
	for _, th := range Thresholds {
		assert.NotEmpty(t, th.Kind.Message())
		assert.True(t, th.Kind.IsValid())
	}
	assert.False(t, AlertKind("TWENTY_PERCENT").IsValid())
	assert.Contains(t, AlertHundredPercent.Message(), "exceeded 100%")
}
