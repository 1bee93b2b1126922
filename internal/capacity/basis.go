package capacity

// Basis names a statistical aggregate a sizing recommendation can start from.
type Basis string

const (
	BasisProvisionedOn  Basis = "provisioned-on"
	BasisProvisionedOff Basis = "provisioned-off"
	BasisProvisionedAll Basis = "provisioned-all"
	BasisPeakOn         Basis = "peak-on"
	BasisAverageOn      Basis = "average-on"
	BasisMedianOn       Basis = "median-on"
	BasisP95On          Basis = "p95-on"
	BasisConsumedOn     Basis = "consumed-on"
	BasisConsumedAll    Basis = "consumed-all"
)

var basisLabels = map[Basis]string{
	BasisProvisionedOn:  "Provisioned (on)",
	BasisProvisionedOff: "Provisioned (off)",
	BasisProvisionedAll: "Provisioned (on+off)",
	BasisPeakOn:         "Peak (on)",
	BasisAverageOn:      "Average (on)",
	BasisMedianOn:       "Median (on)",
	BasisP95On:          "95th Percentile (on)",
	BasisConsumedOn:     "Consumed (on)",
	BasisConsumedAll:    "Consumed (on+off)",
}

func (b Basis) Label() string {
	if l, ok := basisLabels[b]; ok {
		return l
	}
	return string(b)
}

// usageBases is the row order of the usage based overview table.
var usageBases = []Basis{BasisProvisionedOn, BasisPeakOn, BasisAverageOn, BasisMedianOn, BasisP95On}

// Overview maps every basis of a resource to its aggregate value.
type Overview struct {
	Unit   Unit              `json:"unit"`
	Values map[Basis]float64 `json:"values"`
}

type OverviewRow struct {
	Basis Basis   `json:"basis"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func newOverview(unit Unit) Overview {
	return Overview{Unit: unit, Values: map[Basis]float64{}}
}

// Get returns the value of a basis and whether the overview carries it.
func (o Overview) Get(b Basis) (float64, bool) {
	v, ok := o.Values[b]
	return v, ok
}

// UsageRows returns provisioned, peak, average, median and 95th percentile
// values of powered-on VMs, in that order.
func (o Overview) UsageRows() []OverviewRow {
	rows := make([]OverviewRow, 0, len(usageBases))
	for _, b := range usageBases {
		v, ok := o.Values[b]
		if !ok {
			continue
		}
		rows = append(rows, OverviewRow{Basis: b, Label: b.Label(), Value: v})
	}
	return rows
}
