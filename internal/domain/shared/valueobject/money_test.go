package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		c, err := ParseCurrency(" try ")
		require.NoError(t, err)
		assert.Equal(t, TRY, c)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseCurrency("")
		assert.Error(t, err)
	})

	t.Run("rejects unknown code", func(t *testing.T) {
		_, err := ParseCurrency("XYZ1")
		assert.Error(t, err)
	})
}

func TestCurrency_Scale(t *testing.T) {
	assert.Equal(t, int32(2), TRY.Scale())
	assert.Equal(t, int32(2), USD.Scale())
	assert.Equal(t, int32(0), Currency("JPY").Scale())
}

func TestNewMoney(t *testing.T) {
	t.Run("stores minor units", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("100.50"), TRY)
		require.NoError(t, err)
		assert.Equal(t, int64(10050), m.Minor())
		assert.Equal(t, TRY, m.Currency())
	})

	t.Run("rounds half away from zero", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("0.005"), USD)
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.Minor())

		m, err = NewMoney(decimal.RequireFromString("-0.005"), USD)
		require.NoError(t, err)
		assert.Equal(t, int64(-1), m.Minor())
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", TRY)
		require.NoError(t, err)
		assert.Equal(t, int64(12345), m.Minor())
		assert.True(t, m.Decimal().Equal(decimal.RequireFromString("123.45")))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", TRY)
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney("10.25", TRY)
	b := MustMoney("0.75", TRY)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "11.00", sum.StringFixed())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "9.50", diff.StringFixed())

	_, err = a.Add(MustMoney("1", USD))
	assert.Error(t, err)

	cmp, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	assert.Equal(t, b, a.Min(b))
}

func TestMoney_Percent(t *testing.T) {
	sale := MustMoney("1000000", TRY)

	pct := func(m Money, rate string) Money {
		out, err := m.Percent(decimal.RequireFromString(rate))
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, "30000.00", pct(sale, "3").StringFixed())
	assert.Equal(t, "25000.00", pct(sale, "2.5").StringFixed())
	assert.Equal(t, int64(17), pct(MustMoney("0.33", TRY), "50").Minor())
}

func TestMoney_MulRateRange(t *testing.T) {
	large := MustMoney("40000000000000", TRY)

	_, err := large.MulRate(decimal.NewFromInt(600000))
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	_, err = large.MulRate(decimal.NewFromInt(-600000))
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	same, err := large.MulRate(decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, large, same)
}

func TestMoney_Split(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		parts, err := MustMoney("3750000", TRY).Split(24)
		require.NoError(t, err)
		require.Len(t, parts, 24)
		for _, p := range parts {
			assert.Equal(t, "156250.00", p.StringFixed())
		}
	})

	t.Run("last part absorbs remainder", func(t *testing.T) {
		parts, err := MustMoney("3250000", TRY).Split(24)
		require.NoError(t, err)
		for _, p := range parts[:23] {
			assert.Equal(t, "135416.67", p.StringFixed())
		}
		assert.Equal(t, "135416.59", parts[23].StringFixed())

		total, err := Sum(TRY, parts...)
		require.NoError(t, err)
		assert.Equal(t, "3250000.00", total.StringFixed())
	})

	t.Run("never negative", func(t *testing.T) {
		// 0.06 over 10 parts: rounded share 0.01 would leave the last part at -0.03
		parts, err := NewMoneyFromMinor(6, TRY).Split(10)
		require.NoError(t, err)
		var total int64
		for _, p := range parts {
			assert.GreaterOrEqual(t, p.Minor(), int64(0))
			total += p.Minor()
		}
		assert.Equal(t, int64(6), total)
		assert.Equal(t, int64(0), parts[0].Minor())
		assert.Equal(t, int64(1), parts[9].Minor())
	})

	t.Run("zero amount", func(t *testing.T) {
		parts, err := Zero(TRY).Split(3)
		require.NoError(t, err)
		for _, p := range parts {
			assert.True(t, p.IsZero())
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := MustMoney("1", TRY).Split(0)
		assert.Error(t, err)
		_, err = NewMoneyFromMinor(-5, TRY).Split(2)
		assert.Error(t, err)
	})
}

func TestMoney_JSON(t *testing.T) {
	m := MustMoney("135416.67", TRY)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"135416.67","currency":"TRY"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "1250000.00 TRY", MustMoney("1250000", TRY).String())
}

func TestPercentage(t *testing.T) {
	t.Run("rejects negative", func(t *testing.T) {
		_, err := ParsePercentage("-1")
		assert.Error(t, err)
	})

	t.Run("range check", func(t *testing.T) {
		assert.True(t, MustPercentage("100").AtMostHundred())
		assert.False(t, MustPercentage("100.01").AtMostHundred())
	})

	t.Run("applies to money", func(t *testing.T) {
		got, err := MustPercentage("3").Of(MustMoney("2000000", TRY))
		require.NoError(t, err)
		assert.Equal(t, "60000.00", got.StringFixed())
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(MustPercentage("2.5"))
		require.NoError(t, err)
		assert.Equal(t, `"2.5"`, string(data))
	})
}
