package warzone

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMapFormat             = errors.New("malformed map file")
	ErrMapInvalid            = errors.New("map failed validation")
	ErrUnknownCommandInPhase = errors.New("command not accepted in this phase")
	ErrOrderInvalid          = errors.New("invalid order")
	ErrStaleOrder            = errors.New("order precondition no longer holds")
	ErrGameOver              = errors.New("game is over")
	ErrUnknownContinent      = errors.New("unknown continent")
	ErrTerritoryNotFound     = errors.New("territory not found")
	ErrDuplicateName         = errors.New("duplicate name")
	ErrUnknownPlayer         = errors.New("unknown player")
	ErrUsage                 = errors.New("bad command usage")
)

// MapFormatError reports a malformed line in a map file.
type MapFormatError struct {
	Line int
	Msg  string
}

func (e *MapFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("map line %d: %s", e.Line, e.Msg)
	}
	return "map: " + e.Msg
}

func (e *MapFormatError) Unwrap() error { return ErrMapFormat }

// MapValidationError lists every rule a map failed.
type MapValidationError struct {
	Problems []string
}

func (e *MapValidationError) Error() string {
	return "invalid map: " + strings.Join(e.Problems, "; ")
}

func (e *MapValidationError) Unwrap() error { return ErrMapInvalid }

// UnknownCommandError is returned when a command is outside the current phase's whitelist.
type UnknownCommandError struct {
	Command string
	Phase   Phase
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q is not accepted in phase %s", e.Command, e.Phase)
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommandInPhase }

// OrderValidationError describes why an order was rejected at issue time.
type OrderValidationError struct {
	Order   Order
	Message string
}

func (e *OrderValidationError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.Describe(), e.Message)
}

func (e *OrderValidationError) Unwrap() error { return ErrOrderInvalid }

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
