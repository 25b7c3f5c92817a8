// SPDX-License-Identifier: MIT

package dcflow

import (
	"errors"
	"fmt"
)

// ErrInternal marks a numerical failure that contradicts the connectivity
// precondition (singular factor, non-finite angles). It is never recoverable.
var ErrInternal = errors.New("dcflow: internal numerical error")

// internalError tags err as ErrInternal while keeping it matchable.
func internalError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, stage, err)
}
