package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		value    uint64
		decimals int
		want     string
	}{
		{0, 9, "0.000000000"},
		{1, 9, "0.000000001"},
		{24981836, 9, "0.024981836"},
		{1000000000, 9, "1.000000000"},
		{1500000, 6, "1.500000"},
		{42, 0, "42"},
		{7, -1, "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUnits(tt.value, tt.decimals))
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		decimals int
		want     uint64
		wantErr  bool
	}{
		{"integer", "2", 9, 2000000000, false},
		{"fraction", "0.024981836", 9, 24981836, false},
		{"bare dot prefix", ".5", 6, 500000, false},
		{"truncates extra digits", "0.1234567891", 9, 123456789, false},
		{"whitespace", " 1.5 ", 6, 1500000, false},
		{"zero", "0", 9, 0, false},
		{"empty", "", 9, 0, true},
		{"negative", "-1", 9, 0, true},
		{"two dots", "1.2.3", 9, 0, true},
		{"not a number", "abc", 9, 0, true},
		{"negative decimals", "1.5", -1, 0, true},
		{"negative decimals integer", "1", -1, 0, true},
		{"decimals beyond uint64", "1", 20, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.in, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSOLLamports_Roundtrip(t *testing.T) {
	lamports := uint64(123456789012)
	got, err := SOLToLamports(LamportsToSOL(lamports))
	require.NoError(t, err)
	assert.Equal(t, lamports, got)
}
