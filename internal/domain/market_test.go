package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOdds_EvenPool(t *testing.T) {
	m := Market{YesLiquidity: dec("250"), NoLiquidity: dec("250")}
	yes, no := m.Odds()
	assert.EqualValues(t, 50, yes)
	assert.EqualValues(t, 50, no)
}

func TestOdds_EmptyPoolDefaultsToEven(t *testing.T) {
	m := Market{YesLiquidity: decimal.Zero, NoLiquidity: decimal.Zero}
	yes, no := m.Odds()
	assert.EqualValues(t, 50, yes)
	assert.EqualValues(t, 50, no)
}

func TestOdds_Rounding(t *testing.T) {
	// 1/3 of the pool on YES rounds to 33, NO is the complement.
	m := Market{YesLiquidity: dec("100"), NoLiquidity: dec("200")}
	yes, no := m.Odds()
	assert.EqualValues(t, 33, yes)
	assert.EqualValues(t, 67, no)
}

func TestOdds_AlwaysSumTo100(t *testing.T) {
	cases := []struct {
		yes, no string
	}{
		{"0", "0"},
		{"0", "1"},
		{"1", "0"},
		{"0.1", "0.2"},
		{"123.45", "678.9"},
		{"1", "2"},
		{"2", "1"},
		{"999999", "0.0001"},
		{"0.0001", "999999"},
		{"250", "250"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("yes=%s no=%s", tc.yes, tc.no), func(t *testing.T) {
			m := Market{YesLiquidity: dec(tc.yes), NoLiquidity: dec(tc.no)}
			yes, no := m.Odds()
			assert.EqualValues(t, 100, yes+no)
			assert.GreaterOrEqual(t, yes, int64(0))
			assert.GreaterOrEqual(t, no, int64(0))
		})
	}
}

func TestOdds_SkewedPool(t *testing.T) {
	m := Market{YesLiquidity: dec("900"), NoLiquidity: dec("100")}
	yes, no := m.Odds()
	assert.EqualValues(t, 90, yes)
	assert.EqualValues(t, 10, no)
}
