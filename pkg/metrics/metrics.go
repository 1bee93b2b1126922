package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	capacityPlanner = "capacity_planner"

	// Workbook metrics
	workbookLoadsTotal = "workbook_loads_total"

	// Analysis metrics
	analysesTotal = "analyses_total"
	exportsTotal  = "exports_total"

	// Labels
	stateLabel  = "state"
	formatLabel = "format"

	StateSuccess = "success"
	StateCached  = "cached"
	StateFailed  = "failed"
)

/**
* Metrics definition
**/
var workbookLoadsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: capacityPlanner,
		Name:      workbookLoadsTotal,
		Help:      "number of uploaded workbooks by outcome",
	},
	[]string{stateLabel},
)

var analysesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: capacityPlanner,
		Name:      analysesTotal,
		Help:      "number of sizing analyses by outcome",
	},
	[]string{stateLabel},
)

var exportsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: capacityPlanner,
		Name:      exportsTotal,
		Help:      "number of rendered reports by format and outcome",
	},
	[]string{formatLabel, stateLabel},
)

func IncreaseWorkbookLoadsTotal(state string) {
	workbookLoadsTotalMetric.With(prometheus.Labels{stateLabel: state}).Inc()
}

func IncreaseAnalysesTotal(state string) {
	analysesTotalMetric.With(prometheus.Labels{stateLabel: state}).Inc()
}

func IncreaseExportsTotal(format, state string) {
	labels := prometheus.Labels{
		formatLabel: format,
		stateLabel:  state,
	}
	exportsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(workbookLoadsTotalMetric)
	prometheus.MustRegister(analysesTotalMetric)
	prometheus.MustRegister(exportsTotalMetric)
}
