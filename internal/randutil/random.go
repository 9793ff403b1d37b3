// File: internal/randutil/random.go

// Package randutil produces the randomized primitive values the answer
// generator samples from: integers, choices, subsets, dates, times and
// email addresses.
package randutil

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var emailDomains = []string{"example.com", "test.com", "demo.com", "sample.org"}

// dateRangeStart bounds random dates on the early side. The upper bound is
// always the current time.
var dateRangeStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Int returns a uniform random integer in [min, max], both inclusive.
func Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}

// Choice picks one element uniformly. The second return is false for an
// empty slice.
func Choice[T any](items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rand.IntN(len(items))], true
}

// Subset picks between min and max distinct elements, preserving no
// particular order. Used for multi-select answers.
func Subset[T any](items []T, min, max int) []T {
	if len(items) == 0 {
		return nil
	}
	if max > len(items) {
		max = len(items)
	}
	if min > max {
		min = max
	}
	n := Int(min, max)

	shuffled := make([]T, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// Date returns a random date between 2020-01-01 and now, MM/DD/YYYY.
func Date() string {
	d := gofakeit.DateRange(dateRangeStart, time.Now())
	return fmt.Sprintf("%02d/%02d/%04d", int(d.Month()), d.Day(), d.Year())
}

// Time returns a random zero padded 24 hour clock time, HH:MM.
func Time() string {
	return fmt.Sprintf("%02d:%02d", Int(0, 23), Int(0, 59))
}

// Email synthesizes a plausible address on a throwaway domain.
func Email() string {
	name := strings.ToLower(gofakeit.FirstName())
	domain, _ := Choice(emailDomains)
	return fmt.Sprintf("%s%d@%s", name, Int(1, 999), domain)
}
