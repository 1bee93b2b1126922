package sizing

import (
	"github.com/kubev2v/capacity-planner/internal/capacity"
)

// Resource names a sized resource.
type Resource string

const (
	ResourceCPU     Resource = "cpu"
	ResourceMemory  Resource = "memory"
	ResourceStorage Resource = "storage"
)

// Allowed bases per resource. The first entry is the default.
var (
	CPUBases = []capacity.Basis{
		capacity.BasisP95On,
		capacity.BasisPeakOn,
		capacity.BasisProvisionedOn,
		capacity.BasisProvisionedAll,
		capacity.BasisAverageOn,
		capacity.BasisMedianOn,
	}
	MemoryBases = []capacity.Basis{
		capacity.BasisProvisionedOn,
		capacity.BasisProvisionedAll,
		capacity.BasisPeakOn,
		capacity.BasisP95On,
		capacity.BasisAverageOn,
		capacity.BasisMedianOn,
	}
	StorageBases = []capacity.Basis{
		capacity.BasisConsumedAll,
		capacity.BasisConsumedOn,
		capacity.BasisProvisionedAll,
		capacity.BasisProvisionedOn,
	}
)

// Default growth in percent.
const (
	DefaultCPUGrowth     = 10.0
	DefaultMemoryGrowth  = 30.0
	DefaultStorageGrowth = 20.0
)

// Sizer computes the recommendation of one resource from a summary.
type Sizer interface {
	// Name returns the resource sized, used as the key in Engine results.
	Name() Resource
	// Bases returns the bases the sizer accepts, default first.
	Bases() []capacity.Basis
	// Size picks the basis value of the choice and applies growth.
	Size(summary *capacity.Summary, choice Choice) (Recommendation, error)
}

// Choice is the basis and growth picked for one resource. Zero values
// select the sizer defaults.
type Choice struct {
	Basis  capacity.Basis `json:"basis,omitempty"`
	Growth *float64       `json:"growth,omitempty"`
}

// Selection is the full set of parameters of a sizing request.
type Selection struct {
	Clusters []string `json:"clusters,omitempty"`
	CPU      Choice   `json:"cpu"`
	Memory   Choice   `json:"memory"`
	Storage  Choice   `json:"storage"`
}

func (s Selection) Choice(r Resource) Choice {
	switch r {
	case ResourceCPU:
		return s.CPU
	case ResourceMemory:
		return s.Memory
	case ResourceStorage:
		return s.Storage
	default:
		return Choice{}
	}
}

// DefaultSelection selects every cluster with the default basis and growth
// of each resource.
func DefaultSelection() Selection {
	growth := func(v float64) *float64 { return &v }
	return Selection{
		CPU:     Choice{Basis: CPUBases[0], Growth: growth(DefaultCPUGrowth)},
		Memory:  Choice{Basis: MemoryBases[0], Growth: growth(DefaultMemoryGrowth)},
		Storage: Choice{Basis: StorageBases[0], Growth: growth(DefaultStorageGrowth)},
	}
}

// Recommendation is the sizing result of one resource.
type Recommendation struct {
	Resource    Resource       `json:"resource"`
	Basis       capacity.Basis `json:"basis"`
	BasisLabel  string         `json:"basisLabel"`
	Growth      float64        `json:"growth"`
	Unit        capacity.Unit  `json:"unit"`
	BasisValue  float64        `json:"basisValue"`
	FinalValue  float64        `json:"finalValue"`
	GrowthDelta float64        `json:"growthDelta"`
	// Savings is provisioned (on) minus the basis value, when meaningful.
	Savings *float64 `json:"savings,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}
