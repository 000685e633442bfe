package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"25.00", 2500},
		{"25", 2500},
		{"0.10", 10},
		{"0.1", 10},
		{"1000.99", 100099},
		{"0", 0},
		{"-5", -500},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseMoneyRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "10.555", "1,50", "10.00.00"} {
		_, err := ParseMoney(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	a := Money(10)
	b := Money(20)
	assert.Equal(t, Money(30), a.Add(b))
	assert.Equal(t, Money(-10), a.Sub(b))
	assert.True(t, a.LessThan(b))
	assert.False(t, b.LessThan(a))
	assert.True(t, a.IsPositive())
	assert.False(t, Money(0).IsPositive())
	assert.False(t, Money(-1).IsPositive())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "25.00", Money(2500).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "-3.50", Money(-350).String())
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money(123456))
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"99.90"`), &m))
	assert.Equal(t, Money(9990), m)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &m))
}
