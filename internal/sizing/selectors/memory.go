package selectors

import (
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

var _ sizing.Sizer = (*Memory)(nil)

// Memory sizes vMemory in GiB from the vMemory overview.
//
// The default basis is the provisioned memory of powered-on VMs: memory is
// not overcommitted, so measured usage is only offered as an alternative.
type Memory struct {
	defaults
}

type MemoryOption func(*Memory)

func WithMemoryBasis(b capacity.Basis) MemoryOption {
	return func(m *Memory) {
		m.basis = b
	}
}

func WithMemoryGrowth(g float64) MemoryOption {
	return func(m *Memory) {
		m.growth = g
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	res := Memory{defaults{basis: sizing.MemoryBases[0], growth: sizing.DefaultMemoryGrowth}}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

func (m *Memory) Name() sizing.Resource { return sizing.ResourceMemory }

func (m *Memory) Bases() []capacity.Basis { return sizing.MemoryBases }

func (m *Memory) Size(summary *capacity.Summary, choice sizing.Choice) (sizing.Recommendation, error) {
	if summary == nil {
		return sizing.Recommendation{}, errNoSummary
	}
	basis, growth, err := m.resolve(m.Name(), m.Bases(), choice)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	rec, err := size(m.Name(), summary.VMemory, basis, growth, sizing.Hundredths)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	rec.Savings = savings(summary.VMemory, rec, sizing.Hundredths)
	return rec, nil
}
