package utils

import (
	"math"
	"time"
)

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// ResponseTimeStats returns the average and sample standard deviation, in
// seconds, of a set of review latencies. Both are 0 for an empty set and the
// deviation is 0 for a single sample.
func ResponseTimeStats(latencies []time.Duration) (float64, float64) {
	n := len(latencies)
	if n == 0 {
		return 0.0, 0.0
	}

	sum := 0.0
	for _, d := range latencies {
		sum += d.Seconds()
	}
	average := sum / float64(n)

	if n < 2 {
		return roundFloat(average, 4), 0.0
	}

	varianceSum := 0.0
	for _, d := range latencies {
		varianceSum += math.Pow(d.Seconds()-average, 2)
	}
	stdDev := math.Sqrt(varianceSum / float64(n-1))

	return roundFloat(average, 4), roundFloat(stdDev, 4)
}

// AverageSeconds is the mean latency in seconds, 0 when there are no samples.
func AverageSeconds(latencies []time.Duration) float64 {
	avg, _ := ResponseTimeStats(latencies)
	return avg
}
