package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/shiftbook/checklist"
	"github.com/spf13/pflag"
)

// shiftValue is a --shift flag restricted to known shifts.
type shiftValue struct {
	target *checklist.Shift
}

var _ pflag.Value = shiftValue{}

func (v shiftValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v shiftValue) Set(value string) error {
	shift, err := checklist.ParseShift(value)
	if err != nil {
		return err
	}
	*v.target = shift
	return nil
}

func (v shiftValue) Type() string {
	return "shift"
}

// parsePositions converts 1-based task numbers to zero-based indexes.
func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q is not a task number", checklist.ErrTaskIndex, arg)
		}
		positions = append(positions, n-1)
	}
	return positions, nil
}
