package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	cases := []struct {
		amount   int64
		expected string
	}{
		{0, "0₫"},
		{999, "999₫"},
		{1000, "1.000₫"},
		{25000, "25.000₫"},
		{185000, "185.000₫"},
		{1234567, "1.234.567₫"},
		{-5000, "-5.000₫"},
		{-999, "-999₫"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, FormatVND(tc.amount), "amount %d", tc.amount)
	}
}
