package types

import (
	"time"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
	SupportedFormat() ReportFormat
	ContentType() string
}

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// ReportData is everything a renderer needs. Values stay numeric, renderers
// format them.
type ReportData struct {
	Source          string
	Selection       sizing.Selection
	Summary         *capacity.Summary
	Recommendations []sizing.Recommendation
	Details         []capacity.VMDetail
	Overviews       Overviews
	Timestamps      ReportTimestamps
}

// Overviews are the labelled vCPU and vMemory usage tables of the overview
// sheet.
type Overviews struct {
	VCPU    OverviewTable
	VMemory OverviewTable
}

type OverviewTable struct {
	Header string
	Rows   []OverviewRow
}

type OverviewRow struct {
	Label string
	Value float64
}

type ReportTimestamps struct {
	Generated     string
	GeneratedTime string
	Time          time.Time
}
