package money

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Cents{
		"150":     15000,
		"150.5":   15050,
		"150.00":  15000,
		"0.01":    1,
		"-12.30":  -1230,
		" 220.0 ": 22000,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "1.234", "1.", ".5", "1e2", "12,50", "99999999999999999999"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "450.00", Cents(45000).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-1.50", Cents(-150).String())
}

func TestMulInt(t *testing.T) {
	got, err := MustParse("150.00").MulInt(3)
	require.NoError(t, err)
	assert.Equal(t, "450.00", got.String())

	_, err = Cents(1 << 62).MulInt(4)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		TotalPrice Cents `json:"total_price"`
	}{TotalPrice: 45000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_price": 450.00}`, string(out))

	var in struct {
		DailyRate Cents `json:"daily_rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"daily_rate": 150.5}`), &in))
	assert.Equal(t, Cents(15050), in.DailyRate)

	require.NoError(t, json.Unmarshal([]byte(`{"daily_rate": "99.90"}`), &in))
	assert.Equal(t, Cents(9990), in.DailyRate)

	assert.Error(t, json.Unmarshal([]byte(`{"daily_rate": 1.999}`), &in))
}

func TestScanNumeric(t *testing.T) {
	var c Cents

	// 150.00 as postgres sends it: 15000 x 10^-2
	require.NoError(t, c.ScanNumeric(pgtype.Numeric{Int: big.NewInt(15000), Exp: -2, Valid: true}))
	assert.Equal(t, Cents(15000), c)

	// 15 x 10^1 = 150
	require.NoError(t, c.ScanNumeric(pgtype.Numeric{Int: big.NewInt(15), Exp: 1, Valid: true}))
	assert.Equal(t, Cents(15000), c)

	// 1.5 with a trailing zero at 10^-3
	require.NoError(t, c.ScanNumeric(pgtype.Numeric{Int: big.NewInt(1500), Exp: -3, Valid: true}))
	assert.Equal(t, Cents(150), c)

	assert.Error(t, c.ScanNumeric(pgtype.Numeric{Int: big.NewInt(1505), Exp: -3, Valid: true}))
	assert.Error(t, c.ScanNumeric(pgtype.Numeric{}))
	assert.Error(t, c.ScanNumeric(pgtype.Numeric{NaN: true, Valid: true}))
}

func TestNumericValue(t *testing.T) {
	n, err := Cents(45000).NumericValue()
	require.NoError(t, err)

	var back Cents
	require.NoError(t, back.ScanNumeric(n))
	assert.Equal(t, Cents(45000), back)
}
