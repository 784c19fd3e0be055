package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"零", 0, "0"},
		{"整数", 150, "150"},
		{"带小数", 150.5, "150.50"},
		{"两位小数", 99.99, "99.99"},
		{"百位以下", 42, "42"},
		{"千位缩写", 2500, "2.5K"},
		{"千位整数缩写", 2000, "2K"},
		{"千位截断", 2999, "2.9K"},
		{"百万缩写", 1500000, "1.5M"},
		{"千万缩写", 12000000, "1.2C"},
		{"千万整数缩写", 10000000, "1C"},
		{"临界值K", 1000, "1K"},
		{"临界值M", 1000000, "1M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}

func TestFormatAmount_InvalidNumbers(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(math.NaN()))
	assert.Equal(t, "0", FormatAmount(math.Inf(1)))
	assert.Equal(t, "0", FormatAmount(math.Inf(-1)))
}
