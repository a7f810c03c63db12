package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPluralizeCoins(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "абаюнд"},
		{1, "абаюнда"},
		{2, "абаюнды"},
		{4, "абаюнды"},
		{5, "абаюнд"},
		{11, "абаюнд"},
		{12, "абаюнд"},
		{14, "абаюнд"},
		{21, "абаюнда"},
		{22, "абаюнды"},
		{100, "абаюнд"},
		{101, "абаюнда"},
		{111, "абаюнд"},
		{-3, "абаюнды"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, PluralizeCoins(c.n), "n=%d", c.n)
	}
}

func TestFormatBalance(t *testing.T) {
	require.Equal(t, "150 абаюнд", FormatBalance(150))
	require.Equal(t, "1 абаюнда", FormatBalance(1))
}

func TestFormatStock(t *testing.T) {
	require.Equal(t, "∞", FormatStock(-1))
	require.Equal(t, "0", FormatStock(0))
	require.Equal(t, "7", FormatStock(7))
}
