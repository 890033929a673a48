package mdp

import "errors"

// Domain errors for model construction and solving.
var (
	// ErrValidation indicates malformed model data, such as a probability
	// distribution that does not sum to one.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates the pieces handed to a solver do not fit
	// together, such as a worth expression indexing past the reward dimension.
	ErrConfiguration = errors.New("configuration mismatch")
)
