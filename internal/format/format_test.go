package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"Whole thousand", decimal.NewFromInt(1000), "$1,000"},
		{"With cents", decimal.NewFromFloat(1000.5), "$1,000.50"},
		{"Small whole", decimal.NewFromInt(5), "$5"},
		{"Zero", decimal.Zero, "$0"},
		{"Cents only", decimal.NewFromFloat(0.05), "$0.05"},
		{"Million", decimal.NewFromInt(1234567), "$1,234,567"},
		{"Negative", decimal.NewFromFloat(-250.75), "-$250.75"},
		{"Rounds to whole", decimal.NewFromFloat(99.999), "$100"},
		{"Rounds cents", decimal.NewFromFloat(10.005), "$10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	t.Run("Valid timezone", func(t *testing.T) {
		f, err := NewFormatter("America/New_York")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "America/New_York", f.Location().String())
	})

	t.Run("Invalid timezone", func(t *testing.T) {
		f, err := NewFormatter("Not/AZone")
		assert.Error(t, err)
		assert.Nil(t, f)
	})
}

func TestFormatter_BusinessTime(t *testing.T) {
	f, err := NewFormatter("America/New_York")
	require.NoError(t, err)

	t.Run("Converts UTC to business zone", func(t *testing.T) {
		// 2025-06-15 18:30 UTC = 14:30 EDT
		utc := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
		assert.Equal(t, "2025-06-15 14:30", f.BusinessTime(utc))
	})

	t.Run("Crosses date boundary", func(t *testing.T) {
		// 2025-01-01 02:00 UTC = 2024-12-31 21:00 EST
		utc := time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-12-31 21:00", f.BusinessTime(utc))
		assert.Equal(t, "2024-12-31", f.BusinessDate(utc))
	})

	t.Run("Non-UTC input is normalized to UTC first", func(t *testing.T) {
		loc, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		tokyo := time.Date(2025, 6, 16, 3, 30, 0, 0, loc) // = 2025-06-15 18:30 UTC
		assert.Equal(t, "2025-06-15 14:30", f.BusinessTime(tokyo))
	})
}
