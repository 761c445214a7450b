// Package radix implements least-significant-digit radix sort over decimal
// digit buckets for non-negative integers.
//
// Each pass redistributes the working sequence into ten fresh buckets keyed
// by one decimal digit, lowest digit first, and concatenates them in digit
// order. Per-pass stability yields a full numeric ordering after the last pass.
package radix

import (
	"errors"
	"fmt"
	"strconv"
)

// Base is the number of buckets per pass.
const Base = 10

// ErrInvalidArgument is wrapped by every validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// Sort returns a new slice holding values in non-decreasing order.
// The input slice is never modified. A negative element fails the whole call.
func Sort(values []int) ([]int, error) {
	return defaultSorter.Sort(values)
}

// SortFunc sorts items by a non-negative integer key. Items with equal keys
// keep their input order.
func SortFunc[T any](items []T, key func(T) int) ([]T, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key function", ErrInvalidArgument)
	}
	keys := make([]int, len(items))
	for i, it := range items {
		k := key(it)
		if k < 0 {
			return nil, fmt.Errorf("%w: key of element %d is negative (%d)", ErrInvalidArgument, i, k)
		}
		keys[i] = k
	}

	out := make([]T, len(items))
	copy(out, items)
	return distribute(out, keys, nil), nil
}

// passFunc sees the working sequence after each pass. items is a fresh
// slice per call.
type passFunc[T any] func(pass, divisor int, sizes [Base]int, items []T)

type entry[T any] struct {
	item T
	key  int
}

// distribute runs one bucketing pass per decimal digit of the largest key,
// least significant first. keys[i] is the key of items[i]; all keys must be
// non-negative. The returned slice is items itself when there are no passes.
func distribute[T any](items []T, keys []int, onPass passFunc[T]) []T {
	width := Width(keys)
	if width == 0 {
		return items
	}

	working := make([]entry[T], len(items))
	for i := range items {
		working[i] = entry[T]{item: items[i], key: keys[i]}
	}

	divisor := 1
	for pass := 0; pass < width; pass++ {
		var buckets [Base][]entry[T]
		for _, e := range working {
			d := digitAt(e.key, divisor)
			buckets[d] = append(buckets[d], e)
		}

		next := make([]entry[T], 0, len(working))
		var sizes [Base]int
		for d, b := range buckets {
			sizes[d] = len(b)
			next = append(next, b...)
		}
		working = next

		if onPass != nil {
			view := make([]T, len(working))
			for i, e := range working {
				view[i] = e.item
			}
			onPass(pass, divisor, sizes, view)
		}

		// 10^width may overflow int; only step while another pass remains.
		if pass+1 < width {
			divisor *= Base
		}
	}

	for i, e := range working {
		items[i] = e.item
	}
	return items
}

func digitAt(v, divisor int) int {
	return (v / divisor) % Base
}

// Width is the number of decimal digits of the largest element, or 0 for an
// empty slice. Negative elements are ignored.
func Width(values []int) int {
	if len(values) == 0 {
		return 0
	}
	maxVal := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	return len(strconv.Itoa(maxVal))
}

// Digit returns the decimal digit of v at position pass counted from the
// right, starting at 0. Positions past the most significant digit are 0,
// matching a zero-padded decimal representation.
func Digit(v, pass int) int {
	divisor := 1
	for i := 0; i < pass; i++ {
		if v/divisor < Base {
			return 0
		}
		divisor *= Base
	}
	return digitAt(v, divisor)
}

// validate reports the first negative element.
func validate(values []int) error {
	for i, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: element %d is negative (%d)", ErrInvalidArgument, i, v)
		}
	}
	return nil
}
