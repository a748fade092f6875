// Package chips models the physical chip set used by the trainer and breaks
// pot amounts down into stacks of those chips for display.
package chips

import (
	"fmt"
	"slices"
)

// Denomination is the face value of a single chip.
type Denomination int

// Standard chip values.
const (
	Red    Denomination = 100
	Blue   Denomination = 500
	Green  Denomination = 1000
	Purple Denomination = 2500
)

// Standard is the default vocabulary, largest first.
var Standard = []Denomination{Purple, Green, Blue, Red}

// Error is the error type for chip arithmetic failures.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrNegativeAmount   Error = "chips: amount is negative"
	ErrNotRepresentable Error = "chips: amount cannot be made from the denominations"
	ErrEmptyVocabulary  Error = "chips: no denominations"
	ErrBadDenomination  Error = "chips: denominations must be positive"
)

// Color returns the colour name of the chip.
func (d Denomination) Color() string {
	switch d {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Purple:
		return "purple"
	default:
		return "grey"
	}
}

// Hex returns the display colour used when rendering the chip in a terminal.
func (d Denomination) Hex() string {
	switch d {
	case Red:
		return "#E53935"
	case Blue:
		return "#1E88E5"
	case Green:
		return "#43A047"
	case Purple:
		return "#8E24AA"
	default:
		return "#626262"
	}
}

func (d Denomination) String() string {
	return fmt.Sprintf("%d", int(d))
}

// Decompose breaks amount into chips from the Standard vocabulary.
func Decompose(amount int) ([]Denomination, error) {
	return DecomposeWith(amount, Standard)
}

// DecomposeWith breaks amount into chips, greedily taking the largest
// denomination first. The result sums exactly to amount or an error is
// returned; a remainder is never dropped.
func DecomposeWith(amount int, vocab []Denomination) ([]Denomination, error) {
	if amount < 0 {
		return nil, fmt.Errorf("decompose %d: %w", amount, ErrNegativeAmount)
	}
	ordered, err := largestFirst(vocab)
	if err != nil {
		return nil, err
	}

	out := []Denomination{}
	remaining := amount
	for _, d := range ordered {
		n := remaining / int(d)
		for i := 0; i < n; i++ {
			out = append(out, d)
		}
		remaining -= n * int(d)
	}
	if remaining != 0 {
		return nil, fmt.Errorf("decompose %d: %d left over: %w", amount, remaining, ErrNotRepresentable)
	}
	return out, nil
}

func largestFirst(vocab []Denomination) ([]Denomination, error) {
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}
	ordered := slices.Clone(vocab)
	for _, d := range ordered {
		if d <= 0 {
			return nil, fmt.Errorf("denomination %d: %w", int(d), ErrBadDenomination)
		}
	}
	slices.Sort(ordered)
	slices.Reverse(ordered)
	return slices.Compact(ordered), nil
}

// Stack is a run of identical chips.
type Stack struct {
	Denomination Denomination
	Count        int
}

// Group collapses a decomposition into runs of identical chips, keeping the
// order in which denominations first appear.
func Group(chips []Denomination) []Stack {
	var stacks []Stack
	for _, c := range chips {
		if n := len(stacks); n > 0 && stacks[n-1].Denomination == c {
			stacks[n-1].Count++
			continue
		}
		stacks = append(stacks, Stack{Denomination: c, Count: 1})
	}
	return stacks
}

// Sum returns the total face value of chips.
func Sum(chips []Denomination) int {
	total := 0
	for _, c := range chips {
		total += int(c)
	}
	return total
}
