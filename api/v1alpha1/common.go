package v1alpha1

import "strings"

// StringToReportFormat maps a format name to a ReportFormat. Unknown names
// are returned as is and rejected later.
func StringToReportFormat(s string) ReportFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ReportFormatXLSX):
		return ReportFormatXLSX
	case string(ReportFormatCSV):
		return ReportFormatCSV
	default:
		return ReportFormat(s)
	}
}
