package report

import (
	"fmt"
	"time"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/service/report/types"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

var (
	vcpuLabels = map[capacity.Basis]string{
		capacity.BasisProvisionedOn: "# vCPUs (provisioned)",
		capacity.BasisPeakOn:        "# vCPUs (Peak)",
		capacity.BasisAverageOn:     "# vCPUs (Average)",
		capacity.BasisMedianOn:      "# vCPUs (Median)",
		capacity.BasisP95On:         "# vCPUs (95th Percentile)",
	}
	vmemoryLabels = map[capacity.Basis]string{
		capacity.BasisProvisionedOn: "# vMemory (provisioned)",
		capacity.BasisPeakOn:        "# vMemory (Peak)",
		capacity.BasisAverageOn:     "# vMemory (Average)",
		capacity.BasisMedianOn:      "# vMemory (Median)",
		capacity.BasisP95On:         "# vMemory (95th Percentile)",
	}
)

type Processor struct {
	now func() time.Time
}

func NewProcessor() *Processor {
	return &Processor{now: time.Now}
}

// Process assembles the report data of an analysis. Recommendations are
// ordered like resources.
func (p *Processor) Process(
	source string,
	selection sizing.Selection,
	summary *capacity.Summary,
	recommendations []sizing.Recommendation,
	details []capacity.VMDetail,
) (*types.ReportData, error) {
	if summary == nil {
		return nil, fmt.Errorf("report needs a summary")
	}

	return &types.ReportData{
		Source:          source,
		Selection:       selection,
		Summary:         summary,
		Recommendations: recommendations,
		Details:         details,
		Overviews: types.Overviews{
			VCPU:    overviewTable("vCPUs", summary.VCPU, vcpuLabels),
			VMemory: overviewTable("GiB", summary.VMemory, vmemoryLabels),
		},
		Timestamps: p.generateTimestamps(),
	}, nil
}

func overviewTable(header string, o capacity.Overview, labels map[capacity.Basis]string) types.OverviewTable {
	t := types.OverviewTable{Header: header}
	for _, row := range o.UsageRows() {
		label, ok := labels[row.Basis]
		if !ok {
			label = row.Label
		}
		value := row.Value
		if o.Unit != capacity.UnitVCPU {
			value = capacity.RoundTo(value, 2)
		}
		t.Rows = append(t.Rows, types.OverviewRow{Label: label, Value: value})
	}
	return t
}

func (p *Processor) generateTimestamps() types.ReportTimestamps {
	now := p.now()
	return types.ReportTimestamps{
		Generated:     now.Format("January 2, 2006"),
		GeneratedTime: now.Format("15:04:05"),
		Time:          now,
	}
}
