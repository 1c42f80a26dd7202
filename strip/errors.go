package strip

import (
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("invalid argument")

func invalidCapacity(n int) error {
	return fmt.Errorf("capacity must be > 0 (got %d): %w", n, ErrInvalidArgument)
}

func invalidCount(n, available int) error {
	return fmt.Errorf("count %d out of range [0,%d]: %w", n, available, ErrInvalidArgument)
}
