package config

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors. They are only ever returned while building an engine.
var (
	// ErrMissingParam indicates a required parameter is absent.
	ErrMissingParam = errors.New("config: missing required parameter")

	// ErrNonFinite indicates a NaN or infinite parameter value.
	ErrNonFinite = errors.New("config: parameter is not finite")

	// ErrClampOrder indicates min_distance > max_distance.
	ErrClampOrder = errors.New("config: min_distance exceeds max_distance")

	// ErrOutOfRange indicates a parameter outside its valid bounds.
	ErrOutOfRange = errors.New("config: parameter out of valid bounds")

	// ErrUnknownName indicates an unregistered model, integrator or hook name.
	ErrUnknownName = errors.New("config: unknown name")
)

// Error wraps a configuration error with the offending parameter.
type Error struct {
	Param   string
	Value   float64
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s)", e.Wrapped.Error(), e.Param)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// bound describes the accepted range of a parameter.
type bound struct {
	min, max     float64
	exclusiveMin bool
}

var bounds = map[string]bound{
	Attraction:      {min: 0, max: math.MaxFloat64},
	Repulsion:       {min: 0, max: math.MaxFloat64},
	RepulsionPower:  {min: 0, max: 8, exclusiveMin: true},
	EdgeLength:      {min: 0, max: math.MaxFloat64},
	MinDistance:     {min: 0, max: math.MaxFloat64, exclusiveMin: true},
	MaxDistance:     {min: 0, max: math.MaxFloat64},
	Damping:         {min: 0, max: 1},
	MaxSpeed:        {min: 0, max: math.MaxFloat64},
	DefaultMass:     {min: 0, max: math.MaxFloat64, exclusiveMin: true},
	BoundsWidth:     {min: 0, max: math.MaxFloat64},
	BoundsHeight:    {min: 0, max: math.MaxFloat64},
	Jitter:          {min: 0, max: math.MaxFloat64},
	JitterScale:     {min: 0, max: math.MaxFloat64},
	SettleFrequency: {min: 0, max: math.MaxFloat64},
	SettleDamping:   {min: 0, max: math.MaxFloat64},
	TrailLength:     {min: 0, max: 1 << 16},
}

// Validate checks that every required parameter is present, that every value
// is finite and within bounds, and that the distance clamps are ordered.
// Unrecognised parameter names are allowed; only their finiteness is checked.
func (c *Config) Validate(required ...string) error {
	if c.Model == "" {
		return &Error{Param: "model", Wrapped: ErrUnknownName}
	}
	if c.Integrator == "" {
		return &Error{Param: "integrator", Wrapped: ErrUnknownName}
	}
	if c.Workers < 0 {
		return &Error{Param: "workers", Value: float64(c.Workers), Wrapped: ErrOutOfRange}
	}

	for _, name := range required {
		if !c.Params.Has(name) {
			return &Error{Param: name, Wrapped: ErrMissingParam}
		}
	}

	for _, name := range c.Params.Names() {
		v := c.Params[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &Error{Param: name, Value: v, Wrapped: ErrNonFinite}
		}
		b, ok := bounds[name]
		if !ok {
			continue
		}
		if v < b.min || v > b.max || (b.exclusiveMin && v == b.min) {
			return &Error{Param: name, Value: v, Wrapped: ErrOutOfRange}
		}
	}

	minD, hasMin := c.Params[MinDistance]
	maxD, hasMax := c.Params[MaxDistance]
	if hasMin && hasMax && maxD > 0 && minD > maxD {
		return &Error{Param: MinDistance, Value: minD, Wrapped: ErrClampOrder}
	}
	return nil
}
