package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/provision-engine/domain"
)

func TestNewRateTable_ValidRows(t *testing.T) {
	table, err := domain.NewRateTable([]domain.CommissionRate{
		{PolicyType: "Health", Rate: domain.MustDecimal("10.0")},
		{PolicyType: "Life", Rate: domain.MustDecimal("12.0")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	r, ok := table.Lookup("Health")
	require.True(t, ok)
	assert.Equal(t, "10.0", r.Rate.StringFixed(1))

	_, ok = table.Lookup("Marine")
	assert.False(t, ok)

	assert.Equal(t, []domain.PolicyType{"Health", "Life"}, table.Types())
}

func TestNewRateTable_RejectsMalformedRows(t *testing.T) {
	cases := []struct {
		name string
		rows []domain.CommissionRate
	}{
		{"blank type", []domain.CommissionRate{{PolicyType: "", Rate: domain.MustDecimal("10.0")}}},
		{"negative rate", []domain.CommissionRate{{PolicyType: "Health", Rate: domain.MustDecimal("-1.0")}}},
		{"duplicate type", []domain.CommissionRate{
			{PolicyType: "Health", Rate: domain.MustDecimal("10.0")},
			{PolicyType: "Health", Rate: domain.MustDecimal("11.0")},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewRateTable(tc.rows)
			assert.Error(t, err)
		})
	}
}

func TestCommissionFor_DecimalExact(t *testing.T) {
	// Premium 1000.00 at rate 10.0 must be exactly 100.00, not 99.999999.
	got := domain.CommissionFor(domain.MustDecimal("1000.00"), domain.MustDecimal("10.0"))
	assert.True(t, got.Equal(domain.MustDecimal("100.00")), "got %s", got)

	// An awkward premium still rounds to cents.
	got = domain.CommissionFor(domain.MustDecimal("333.33"), domain.MustDecimal("7.5"))
	assert.Equal(t, "25.00", got.StringFixed(2))
}
