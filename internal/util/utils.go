package util

import (
	"math"
	"time"

	"github.com/markphelps/optional"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"os-scheduler/internal/responses"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Millis converts a millisecond count of any numeric type to a duration.
func Millis[T Number](ms T) time.Duration {
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

// Seconds rounds d to the millisecond base and reports it in seconds.
func Seconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000.0
}

// Mean is NaN for an empty slice.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	return stat.Mean(xs, nil)
}

// Ratio is NaN when the denominator is zero.
func Ratio[N, D Number](num N, den D) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

// Defined maps NaN and infinities to an absent value.
func Defined(v float64) optional.Float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.Float64{}
	}
	return optional.NewFloat64(v)
}

// CalculateAverage averages the per-process times. Response time only
// counts processes that have been dispatched.
func CalculateAverage(details []responses.ProcessStatus) (averageWaitingTime, averageResponseTime, averageTurnAroundTime float64) {
	waits := make([]float64, 0, len(details))
	responseTimes := make([]float64, 0, len(details))
	turnarounds := make([]float64, 0, len(details))
	for _, proccess := range details {
		waits = append(waits, proccess.WaitTime)
		turnarounds = append(turnarounds, proccess.TurnaroundTime)
		if r, err := proccess.ResponseTime.Get(); err == nil {
			responseTimes = append(responseTimes, r)
		}
	}
	return Mean(waits), Mean(responseTimes), Mean(turnarounds)
}
