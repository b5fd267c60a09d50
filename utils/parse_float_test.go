// utils/parse_float_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = ParseFloat("3.14")
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)

	_, err = ParseFloat("abc")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"$1,500":   1500,
		"1500.00":  1500,
		"USD 1500": 1500,
		"15%":      15,
		"-250":     -250,
		"":         0,
		"pending":  0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseAmount(in), in)
	}
}
