package selectors

import (
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

var _ sizing.Sizer = (*Storage)(nil)

// Storage sizes TiB from the blended partition and disk totals.
type Storage struct {
	defaults
}

type StorageOption func(*Storage)

func WithStorageBasis(b capacity.Basis) StorageOption {
	return func(s *Storage) {
		s.basis = b
	}
}

func WithStorageGrowth(g float64) StorageOption {
	return func(s *Storage) {
		s.growth = g
	}
}

func NewStorage(opts ...StorageOption) *Storage {
	res := Storage{defaults{basis: sizing.StorageBases[0], growth: sizing.DefaultStorageGrowth}}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

func (s *Storage) Name() sizing.Resource { return sizing.ResourceStorage }

func (s *Storage) Bases() []capacity.Basis { return sizing.StorageBases }

func (s *Storage) Size(summary *capacity.Summary, choice sizing.Choice) (sizing.Recommendation, error) {
	if summary == nil {
		return sizing.Recommendation{}, errNoSummary
	}
	basis, growth, err := s.resolve(s.Name(), s.Bases(), choice)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	return size(s.Name(), summary.VStorage, basis, growth, sizing.Hundredths)
}
