package r718

import (
	"errors"
	"fmt"
)

// Domain errors of the cycle simulation.
var (
	// ErrPropertyLookup indicates the water property oracle could not resolve a state.
	ErrPropertyLookup = errors.New("r718: property lookup failure")

	// ErrNonPhysical indicates a quality or pressure invariant was violated.
	ErrNonPhysical = errors.New("r718: non-physical result")

	// ErrSupersonicInfeasible indicates the nozzle cannot expand to the requested pressure.
	ErrSupersonicInfeasible = errors.New("r718: supersonic expansion infeasible")

	// ErrEjectorMalfunction indicates the back pressure reaches or exceeds the highest pressure the diffuser can recover.
	ErrEjectorMalfunction = errors.New("r718: ejector malfunction")

	// ErrConvergence indicates a coupler stage did not meet the residual bound.
	ErrConvergence = errors.New("r718: convergence failure")

	// ErrInvalidParameter indicates a component parameter outside its valid range.
	ErrInvalidParameter = errors.New("r718: invalid parameter")
)

// PropertyError carries the pair that the property oracle could not resolve.
type PropertyError struct {
	A      Property
	VA     float64
	B      Property
	VB     float64
	Reason string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("%v: (%s=%g, %s=%g): %s", ErrPropertyLookup, e.A, e.VA, e.B, e.VB, e.Reason)
}

func (e *PropertyError) Unwrap() error {
	return ErrPropertyLookup
}

// ComponentError wraps a failure with the component, the offending input and
// the physical law that was being applied.
type ComponentError struct {
	Component Kind
	Input     string
	Law       string
	Wrapped   error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s: %s (input %s): %v", e.Component, e.Law, e.Input, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}

// EjectorError reports an ejector infeasibility together with the pressures
// that bound the operating envelope.
type EjectorError struct {
	Stage                string
	BackPressure         float64 // Pa
	CriticalBackPressure float64 // Pa
	MaxBackPressure      float64 // Pa
	Wrapped              error
}

func (e *EjectorError) Error() string {
	return fmt.Sprintf("ejector %s: back pressure %.1f Pa (critical %.1f Pa, max %.1f Pa): %v",
		e.Stage, e.BackPressure, e.CriticalBackPressure, e.MaxBackPressure, e.Wrapped)
}

func (e *EjectorError) Unwrap() error {
	return e.Wrapped
}

// IterationError wraps a component failure with the coupler position.
type IterationError struct {
	Stage     Stage
	Iteration int
	Wrapped   error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("%s iteration %d: %v", e.Stage, e.Iteration, e.Wrapped)
}

func (e *IterationError) Unwrap() error {
	return e.Wrapped
}

// ConvergenceError is returned when a stage stops without meeting the
// residual bound. Dominant names the residual with the largest magnitude.
type ConvergenceError struct {
	Stage      Stage
	Iterations int
	Dominant   string
	Residual   float64
	Cause      error
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%v: %s after %d iterations, dominant residual %s = %.3e",
		ErrConvergence, e.Stage, e.Iterations, e.Dominant, e.Residual)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConvergenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConvergence}
	}
	return []error{ErrConvergence, e.Cause}
}

func invalidParam(name string, value float64, want string) error {
	return fmt.Errorf("%w: %s = %g, want %s", ErrInvalidParameter, name, value, want)
}
