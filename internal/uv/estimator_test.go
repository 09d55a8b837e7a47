package uv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(month time.Month, hour, minute int) time.Time {
	return time.Date(2025, month, 15, hour, minute, 0, 0, time.UTC)
}

func TestEstimateSummerNoon(t *testing.T) {
	require.Equal(t, 9.6, Estimate(at(time.July, 13, 0)))
}

func TestEstimateSeasonalPeaks(t *testing.T) {
	cases := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 4.0},
		{time.March, 6.4},
		{time.May, 6.4},
		{time.August, 9.6},
		{time.October, 5.6},
		{time.December, 4.0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Estimate(at(tc.month, 12, 30)), tc.month.String())
	}
}

func TestEstimateOutsideDaylight(t *testing.T) {
	require.Zero(t, Estimate(at(time.July, 4, 59)))
	require.Zero(t, Estimate(at(time.July, 22, 0)))
	require.Zero(t, Estimate(at(time.December, 6, 30)))
	require.Zero(t, Estimate(at(time.December, 18, 0)))
	require.Zero(t, Estimate(at(time.April, 20, 0)))
}

func TestEstimateShoulderHours(t *testing.T) {
	// 10:00 is three hours from 13:00: 8.0 * 1.2 * (1 - 3/7)
	require.Equal(t, 5.5, Estimate(at(time.July, 10, 0)))
	// 21:00 is eight hours away, capped at seven, floor factor 0.1
	require.Equal(t, 1.0, Estimate(at(time.July, 21, 0)))
}

func TestEstimateIsDeterministicAndPeaksAtMidday(t *testing.T) {
	peak := Estimate(at(time.June, 12, 0))
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			v := Estimate(at(time.June, hour, minute))
			require.Equal(t, v, Estimate(at(time.June, hour, minute)))
			require.LessOrEqual(t, v, peak)
			require.GreaterOrEqual(t, v, 0.0)
		}
	}
	require.Equal(t, peak, Estimate(at(time.June, 14, 0)))
}
