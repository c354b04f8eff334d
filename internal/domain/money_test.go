package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "10", want: "10.00"},
		{name: "one decimal", input: "10.5", want: "10.50"},
		{name: "two decimals", input: "10.55", want: "10.55"},
		{name: "zero", input: "0", want: "0.00"},
		{name: "leading whitespace", input: " 3.25", want: "3.25"},
		{name: "three decimals rejected", input: "10.555", wantErr: true},
		{name: "negative rejected", input: "-1.00", wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewMoney(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	t.Parallel()

	a := MustMoney("10.00")
	b := MustMoney("1.50")

	require.Equal(t, "11.50", a.Add(b).String())
	require.Equal(t, 1, a.Cmp(b))
	require.Equal(t, -1, b.Cmp(a))
	require.True(t, b.LessThan(a))
	require.True(t, a.GreaterThanEqual(b))
	require.True(t, a.GreaterThanEqual(MustMoney("10.00")))
	require.True(t, a.Equal(MustMoney("10")))
	require.True(t, a.IsPositive())
	require.True(t, MustMoney("0").IsZero())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(MustMoney("12.30"))
	require.NoError(t, err)
	require.Equal(t, `"12.30"`, string(raw))

	var decoded Money
	require.NoError(t, json.Unmarshal([]byte(`"7.25"`), &decoded))
	require.Equal(t, "7.25", decoded.String())

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`42`), &decoded))
	require.Equal(t, "42.00", decoded.String())

	require.Error(t, json.Unmarshal([]byte(`"1.999"`), &decoded))
}
