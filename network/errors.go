// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
)

// Sentinel errors for model construction and state validation.
var (
	// ErrNoBuses indicates a network without buses.
	ErrNoBuses = errors.New("network: at least one bus is required")

	// ErrDuplicateUID indicates two elements of the same class share a UID.
	ErrDuplicateUID = errors.New("network: duplicate uid")

	// ErrBusOutOfRange indicates an element references a bus index outside [0, NumBus).
	ErrBusOutOfRange = errors.New("network: bus index out of range")

	// ErrSelfLoop indicates a branch or DC link whose From equals To.
	ErrSelfLoop = errors.New("network: from-bus equals to-bus")

	// ErrBadSusceptance indicates a zero or non-finite series susceptance.
	ErrBadSusceptance = errors.New("network: series susceptance must be finite and non-zero")

	// ErrBadRating indicates a negative or non-finite rating.
	ErrBadRating = errors.New("network: rating must be finite and >= 0")

	// ErrUnknownBranch indicates a contingency naming a branch that is not modeled.
	ErrUnknownBranch = errors.New("network: contingency references unknown branch")

	// ErrUnknownUID indicates a lookup by a UID that does not exist.
	ErrUnknownUID = errors.New("network: unknown uid")

	// ErrStateShape indicates a State whose slices do not match the network.
	ErrStateShape = errors.New("network: state shape mismatch")

	// ErrNaNInf indicates a NaN or ±Inf value in a State.
	ErrNaNInf = errors.New("network: NaN or Inf in state")

	// ErrIntervalOutOfRange indicates an interval index outside [0, NumIntervals).
	ErrIntervalOutOfRange = errors.New("network: interval index out of range")

	// ErrBadDuration indicates a non-positive or non-finite interval duration.
	ErrBadDuration = errors.New("network: interval duration must be finite and > 0")
)

// networkErrorf tags err with the element class and UID that caused it.
func networkErrorf(class, uid string, err error) error {
	return fmt.Errorf("%s %q: %w", class, uid, err)
}
