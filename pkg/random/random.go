// Package random provides the sampling primitives used by the loan-tape generator.
// Every draw goes through a Source so tests can substitute a seeded, reproducible one.
package random

import (
	"math"
	"math/rand"
	"time"
)

// Source is the sampling capability the generator depends on.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Float returns a uniform value in [min, max] rounded to the given decimals.
	Float(min, max float64, decimals int) float64
	// Int returns a uniform integer in [min, max], both ends inclusive.
	Int(min, max int) int
	// Date returns a uniform instant between start and end.
	Date(start, end time.Time) time.Time
	// Int63 returns a non-negative 63-bit integer, used to derive child seeds.
	Int63() int64
}

// Rand is the default Source backed by math/rand.
type Rand struct {
	r *rand.Rand
}

// New returns a Source seeded from the wall clock.
func New() *Rand {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Source that always yields the same sequence for the same seed.
func NewSeeded(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform value in [0, 1).
func (s *Rand) Float64() float64 {
	return s.r.Float64()
}

// Float returns a uniform value in [min, max] rounded to decimals places.
func (s *Rand) Float(min, max float64, decimals int) float64 {
	if max < min {
		min, max = max, min
	}
	v := s.r.Float64()*(max-min) + min
	return Round(v, decimals)
}

// Int returns a uniform integer in [min, max].
func (s *Rand) Int(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return s.r.Intn(max-min+1) + min
}

// Date returns a uniform instant in [start, end).
func (s *Rand) Date(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(s.r.Int63n(int64(span))))
}

// Int63 returns a non-negative pseudo-random 63-bit integer.
func (s *Rand) Int63() int64 {
	return s.r.Int63()
}

// Pick returns a uniformly chosen element of items.
// It panics if items is empty, the same as indexing an empty slice would.
func Pick[T any](src Source, items []T) T {
	return items[src.Int(0, len(items)-1)]
}

// Chance reports whether a Bernoulli draw with probability p succeeded.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
