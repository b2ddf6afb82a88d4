package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"09:00", 540, false},
		{"9:10", 550, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0930", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := ParseTimeRange("09:10-09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:10", start.String())
	assert.Equal(t, "09:30", end.String())

	start, end, err = ParseTimeRange("13:30–14:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(810), start)
	assert.Equal(t, ClockTime(840), end)

	_, _, err = ParseTimeRange("09:10")
	assert.Error(t, err)
}

func TestClockTime_TextRoundTrip(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.UnmarshalText([]byte("9:05")))
	b, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "09:05", string(b))
	assert.Error(t, c.UnmarshalText([]byte("noon")))
}
