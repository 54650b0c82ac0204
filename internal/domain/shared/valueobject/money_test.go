package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(1000), VND)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), m.Int64())
		assert.Equal(t, VND, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1000), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewVND(2000)
	b := NewVND(400)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), sum.Int64())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), diff.Int64())

	assert.Equal(t, int64(6000), a.MultiplyByInt(3).Int64())
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	vnd := NewVND(100)
	usd, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)

	_, err = vnd.Add(usd)
	assert.Error(t, err)

	_, err = vnd.Subtract(usd)
	assert.Error(t, err)

	assert.False(t, vnd.Equals(usd))
}

func TestMoney_Equals(t *testing.T) {
	assert.True(t, NewVND(1700).Equals(NewVND(1700)))
	assert.False(t, NewVND(1700).Equals(NewVND(1701)))
	assert.True(t, ZeroVND().IsZero())
}

func TestParseVND(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"suffix with dot separator", "30.000đ", 30000, false},
		{"suffix with comma separator", "30,000 VND", 30000, false},
		{"plain digits", "15000", 15000, false},
		{"unicode dong sign", "45.500₫", 45500, false},
		{"zero", "0đ", 0, false},
		{"em dash placeholder", "—", 0, true},
		{"empty string", "", 0, true},
		{"letters only", "lien he", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseVND(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Int64())
			assert.Equal(t, VND, m.Currency())
		})
	}
}
