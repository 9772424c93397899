package regalloc

import (
	"fmt"

	"l5c/internal/errors"
)

func internalInvariantf(format string, args ...any) error {
	return errors.Internal(fmt.Sprintf(format, args...), "interference graph invariant violated")
}
