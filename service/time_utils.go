package service

import (
	"math/rand/v2"
	"time"
)

// Random is the source of randomness for rewards and robberies
type Random interface {
	IntN(n int) int
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int   { return rand.IntN(n) }
func (globalRandom) Float64() float64 { return rand.Float64() }

// Option customizes a service
type Option func(*options)

type options struct {
	now func() time.Time
	rng Random
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRandom overrides the random source
func WithRandom(rng Random) Option {
	return func(o *options) { o.rng = rng }
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
		rng: globalRandom{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// randomBetween returns a uniform value in [lo, hi]
func randomBetween(rng Random, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(rng.IntN(int(hi-lo+1)))
}

// GetNextRunTime calculates the next daily run at the given UTC hour
func GetNextRunTime(hour int, now time.Time) time.Time {
	now = now.UTC()
	runTime := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)

	// If current time is past today's run, use tomorrow's
	if !now.Before(runTime) {
		runTime = runTime.AddDate(0, 0, 1)
	}

	return runTime
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
