package capacity

// Kind selects the flooring and rounding policy of Estimate.
type Kind int

const (
	CPU Kind = iota
	Memory
)

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	default:
		return "unknown"
	}
}

// Buffer is the head room added to every utilization based estimate.
const Buffer = 1.2

// Estimate returns the capacity a VM needs given its provisioned capacity and
// a utilization sample in percent. A nil sample yields the provisioned value.
//
// CPU estimates are whole vCPUs, at least 1 and at most provisioned.
// Memory estimates are whole GiB, at least 1 GiB and at most provisioned;
// VMs provisioned with less than 1 GiB keep their provisioned value.
func Estimate(provisioned float64, utilization *float64, kind Kind) float64 {
	if utilization == nil {
		return provisioned
	}

	raw := provisioned * (*utilization / 100) * Buffer

	switch kind {
	case CPU:
		if raw < 1 {
			raw = 1
		}
		if raw > provisioned {
			raw = provisioned
		}
		return Ceil(raw)
	default:
		if raw < 1 {
			if provisioned < 1 {
				return provisioned
			}
			return 1
		}
		if raw > provisioned {
			return provisioned
		}
		return min(Ceil(raw), provisioned)
	}
}
