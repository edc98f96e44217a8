package gtfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00:00", 0},
		{"08:30:15", 8*3600 + 30*60 + 15},
		{"8:30:15", 8*3600 + 30*60 + 15},
		// Overnight trips run past 24:00:00 and are never wrapped.
		{"25:10:00", 25*3600 + 10*60},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "12:00", "12:60:00", "12:00:61", "ab:cd:ef"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	v := TimeOfDay(26*3600 + 5*60 + 9)
	assert.Equal(t, "26:05:09", v.String())

	var parsed TimeOfDay
	require.NoError(t, parsed.UnmarshalCSV("26:05:09"))
	assert.Equal(t, v, parsed)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20230605")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, time.June, 5), d)
	assert.Equal(t, "20230605", d.String())
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, NewDate(2023, time.June, 6), d.Next())

	_, err = ParseDate("2023-06-05")
	assert.Error(t, err)
}

func TestHaversineKM(t *testing.T) {
	// London to Paris, roughly 344 km.
	d := HaversineKM(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 5)
	assert.Zero(t, HaversineKM(51.5, -3.2, 51.5, -3.2))
}
