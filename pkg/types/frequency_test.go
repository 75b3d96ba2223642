package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequency_Humanized(t *testing.T) {
	cases := []struct {
		in   Frequency
		want string
	}{
		{Frequency(0), "0 kHz"},
		{Frequency(999), "999 kHz"},
		{Frequency(1000), "1.00 MHz"},
		{Frequency(800000), "800.00 MHz"},
		{Frequency(1000000), "1.00 GHz"},
		{Frequency(2400000), "2.40 GHz"},
		{Frequency(3456789), "3.46 GHz"},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d_%d", i, int64(tc.in)), func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Humanized())
		})
	}
}

func TestFrequency_String_IsRaw(t *testing.T) {
	assert.Equal(t, "2000000", Frequency(2000000).String())
}

func TestParseFrequency(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		f, err := ParseFrequency("1200000")
		require.NoError(t, err)
		assert.Equal(t, Frequency(1200000), f)
	})
	t.Run("trailing_newline", func(t *testing.T) {
		f, err := ParseFrequency("1600000\n")
		require.NoError(t, err)
		assert.Equal(t, Frequency(1600000), f)
	})
	for _, bad := range []string{"", "fast", "1.5e6", "1200MHz", "-800000"} {
		t.Run("reject_"+bad, func(t *testing.T) {
			_, err := ParseFrequency(bad)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTypeMismatch))
		})
	}
}

func TestParseFrequencies(t *testing.T) {
	got, err := ParseFrequencies("2000000 1600000 1200000 800000 \n")
	require.NoError(t, err)
	assert.Equal(t, []Frequency{2000000, 1600000, 1200000, 800000}, got)

	empty, err := ParseFrequencies("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseFrequencies("800000 <unsupported>")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}
