package service

import (
	"github.com/kubev2v/capacity-planner/internal/service/report"
	"github.com/kubev2v/capacity-planner/internal/service/report/csv"
	"github.com/kubev2v/capacity-planner/internal/service/report/types"
	"github.com/kubev2v/capacity-planner/internal/service/report/xlsx"
)

type ReportRenderer = types.ReportRenderer
type ReportFormat = types.ReportFormat
type ReportData = types.ReportData

const (
	ReportFormatCSV  = types.ReportFormatCSV
	ReportFormatXLSX = types.ReportFormatXLSX
)

type ReportService struct {
	processor *report.Processor
	renderers map[types.ReportFormat]types.ReportRenderer
}

func NewReportService() *ReportService {
	service := &ReportService{
		processor: report.NewProcessor(),
		renderers: make(map[types.ReportFormat]types.ReportRenderer),
	}

	csvRenderer := csv.NewRenderer()
	xlsxRenderer := xlsx.NewRenderer()

	service.renderers[csvRenderer.SupportedFormat()] = csvRenderer
	service.renderers[xlsxRenderer.SupportedFormat()] = xlsxRenderer

	return service
}

// Formats returns the supported report formats.
func (r *ReportService) Formats() []ReportFormat {
	return []ReportFormat{ReportFormatXLSX, ReportFormatCSV}
}

func (r *ReportService) Renderer(format ReportFormat) (ReportRenderer, error) {
	renderer, exists := r.renderers[format]
	if !exists {
		return nil, NewErrUnsupportedFormat(string(format))
	}
	return renderer, nil
}

func (r *ReportService) Render(a *Analysis, renderer ReportRenderer) ([]byte, error) {
	data, err := r.processor.Process(a.Name, a.Selection, a.Summary, a.Recommendations, a.details)
	if err != nil {
		return nil, err
	}
	return renderer.Render(data)
}
