package sizing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kubev2v/capacity-planner/internal/capacity"
)

const (
	MinGrowth = 0.0
	MaxGrowth = 100.0
)

var ErrGrowthOutOfRange = errors.New("growth must be between 0 and 100 percent")

// ErrUnknownBasis is returned when a basis is not allowed for a resource or
// missing from the overview it is looked up in.
type ErrUnknownBasis struct {
	error
}

func NewErrUnknownBasis(resource Resource, basis capacity.Basis) *ErrUnknownBasis {
	return &ErrUnknownBasis{fmt.Errorf("basis %q is not available for %s", basis, resource)}
}

// Rounding is the precision a sized value is presented with.
type Rounding int

const (
	// Whole rounds the final value up to an integer, for counts like vCPUs.
	Whole Rounding = iota
	// Hundredths keeps two decimals, for memory and storage.
	Hundredths
)

// Result is the outcome of sizing one resource.
type Result struct {
	BasisValue  float64
	FinalValue  float64
	GrowthDelta float64
}

// SelectAndSize looks up basis in the overview by name and applies growth
// percent to it.
func SelectAndSize(overview capacity.Overview, basis capacity.Basis, growth float64, rounding Rounding) (Result, error) {
	if growth < MinGrowth || growth > MaxGrowth {
		return Result{}, ErrGrowthOutOfRange
	}
	value, ok := overview.Get(basis)
	if !ok {
		return Result{}, fmt.Errorf("basis %q: %w", basis, errMissingBasis)
	}
	return Grow(value, growth, rounding), nil
}

var errMissingBasis = errors.New("not present in overview")

// Grow applies growth percent to value.
func Grow(value, growth float64, rounding Rounding) Result {
	factor := 1 + growth/100
	var r Result
	switch rounding {
	case Hundredths:
		r.BasisValue = capacity.RoundTo(value, 2)
		r.FinalValue = capacity.CeilTo(r.BasisValue*factor, 2)
		r.GrowthDelta = capacity.RoundTo(r.FinalValue-r.BasisValue, 2)
	default:
		r.BasisValue = value
		r.FinalValue = capacity.Ceil(value * factor)
		r.GrowthDelta = r.FinalValue - r.BasisValue
	}
	return r
}

// Allowed reports whether basis is one of bases.
func Allowed(bases []capacity.Basis, basis capacity.Basis) bool {
	return slices.Contains(bases, basis)
}

// BasesFor returns the bases a resource may be sized from, default first.
func BasesFor(r Resource) []capacity.Basis {
	switch r {
	case ResourceCPU:
		return CPUBases
	case ResourceMemory:
		return MemoryBases
	case ResourceStorage:
		return StorageBases
	default:
		return nil
	}
}
