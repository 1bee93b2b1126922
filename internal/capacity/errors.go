package capacity

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when a cluster filter leaves nothing to aggregate.
var ErrEmptySelection = errors.New("selection contains no clusters or no VMs")

type ErrInconsistentDataset struct {
	error
}

func NewErrInconsistentDataset(format string, args ...any) *ErrInconsistentDataset {
	return &ErrInconsistentDataset{fmt.Errorf(format, args...)}
}
