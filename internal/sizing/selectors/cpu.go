package selectors

import (
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

// Compile-time assertion that CPU implements the Sizer interface.
var _ sizing.Sizer = (*CPU)(nil)

// CPU sizes vCPUs from the vCPU overview. Final values are whole vCPUs.
type CPU struct {
	defaults
}

// CPUOption configuration option for the selector
type CPUOption func(*CPU)

// WithCPUBasis sets the basis used when a selection does not name one.
func WithCPUBasis(b capacity.Basis) CPUOption {
	return func(c *CPU) {
		c.basis = b
	}
}

// WithCPUGrowth sets the growth used when a selection does not carry one.
func WithCPUGrowth(g float64) CPUOption {
	return func(c *CPU) {
		c.growth = g
	}
}

func NewCPU(opts ...CPUOption) *CPU {
	res := CPU{defaults{basis: sizing.CPUBases[0], growth: sizing.DefaultCPUGrowth}}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

func (c *CPU) Name() sizing.Resource { return sizing.ResourceCPU }

func (c *CPU) Bases() []capacity.Basis { return sizing.CPUBases }

func (c *CPU) Size(summary *capacity.Summary, choice sizing.Choice) (sizing.Recommendation, error) {
	if summary == nil {
		return sizing.Recommendation{}, errNoSummary
	}
	basis, growth, err := c.resolve(c.Name(), c.Bases(), choice)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	rec, err := size(c.Name(), summary.VCPU, basis, growth, sizing.Whole)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	rec.Savings = savings(summary.VCPU, rec, sizing.Whole)
	return rec, nil
}
