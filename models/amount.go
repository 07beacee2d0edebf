package models

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedAmount is returned when an amount argument is neither a positive integer nor "all"
var ErrMalformedAmount = errors.New("amount must be a positive number or 'all'")

// Amount is either an exact quantity or the whole applicable pool
type Amount struct {
	all   bool
	value int64
}

// Exact returns an amount of n
func Exact(n int64) Amount {
	return Amount{value: n}
}

// All returns the sentinel amount meaning the entire applicable pool
func All() Amount {
	return Amount{all: true}
}

// IsAll reports whether the amount is the "all" sentinel
func (a Amount) IsAll() bool {
	return a.all
}

// Resolve returns the concrete quantity given the pool it draws from
func (a Amount) Resolve(pool int64) int64 {
	if a.all {
		return pool
	}
	return a.value
}

func (a Amount) String() string {
	if a.all {
		return "all"
	}
	return strconv.FormatInt(a.value, 10)
}

// ParseAmount parses user input: a positive integer, "all" or "todo"
func ParseAmount(input string) (Amount, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "all", "todo":
		return All(), nil
	case "":
		return Amount{}, ErrMalformedAmount
	}

	input = strings.ReplaceAll(input, ",", "")
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil || n <= 0 {
		return Amount{}, ErrMalformedAmount
	}
	return Exact(n), nil
}
