package selectors

import (
	"errors"
	"fmt"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

var errNoSummary = errors.New("no summary to size from")

// defaults holds the basis and growth used when a choice leaves them empty.
type defaults struct {
	basis  capacity.Basis
	growth float64
}

func (d defaults) resolve(resource sizing.Resource, bases []capacity.Basis, choice sizing.Choice) (capacity.Basis, float64, error) {
	basis := d.basis
	if choice.Basis != "" {
		basis = choice.Basis
	}
	if !sizing.Allowed(bases, basis) {
		return "", 0, sizing.NewErrUnknownBasis(resource, basis)
	}

	growth := d.growth
	if choice.Growth != nil {
		growth = *choice.Growth
	}
	if growth < sizing.MinGrowth || growth > sizing.MaxGrowth {
		return "", 0, fmt.Errorf("%s growth %v: %w", resource, growth, sizing.ErrGrowthOutOfRange)
	}
	return basis, growth, nil
}

func size(resource sizing.Resource, overview capacity.Overview, basis capacity.Basis, growth float64, rounding sizing.Rounding) (sizing.Recommendation, error) {
	res, err := sizing.SelectAndSize(overview, basis, growth, rounding)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	return sizing.Recommendation{
		Resource:    resource,
		Basis:       basis,
		BasisLabel:  basis.Label(),
		Growth:      growth,
		Unit:        overview.Unit,
		BasisValue:  res.BasisValue,
		FinalValue:  res.FinalValue,
		GrowthDelta: res.GrowthDelta,
		Reason: fmt.Sprintf("%s of %s grown by %.0f%%",
			capacity.NewQuantity(res.BasisValue, overview.Unit), basis.Label(), growth),
	}, nil
}

// savings returns provisioned (on) minus the basis value, at the precision
// of the recommendation.
func savings(overview capacity.Overview, rec sizing.Recommendation, rounding sizing.Rounding) *float64 {
	provisioned, ok := overview.Get(capacity.BasisProvisionedOn)
	if !ok {
		return nil
	}
	v := provisioned - rec.BasisValue
	if rounding == sizing.Hundredths {
		v = capacity.RoundTo(provisioned, 2) - rec.BasisValue
		v = capacity.RoundTo(v, 2)
	}
	return &v
}
