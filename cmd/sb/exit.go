package main

import (
	"errors"
	"fmt"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/checklist"
	"github.com/amonks/shiftbook/internal/config"
	"github.com/amonks/shiftbook/internal/kv"
	"github.com/amonks/shiftbook/order"
)

const (
	exitUsage = 2
	exitAdmin = 3
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}

func (e exitError) Unwrap() error {
	return e.err
}

var errAdminRequired = exitError{
	code: exitAdmin,
	err:  errors.New("admin mode is off (enable it with: sb admin on)"),
}

// usageErrors are caused by bad input rather than a failing store.
var usageErrors = []error{
	businessday.ErrInvalidKey,
	checklist.ErrUnknownShift,
	checklist.ErrUnknownQuickField,
	checklist.ErrTaskIndex,
	checklist.ErrEmptyTask,
	config.ErrInvalid,
	kv.ErrUnknownBackend,
	order.ErrMissingField,
	order.ErrInvalidField,
}

// usageError marks err as a usage error when it wraps one of usageErrors.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr exitError
	if errors.As(err, &exitErr) {
		return err
	}
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return exitError{code: exitUsage, err: err}
		}
	}
	return err
}
