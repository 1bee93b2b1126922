package events

// DatasetEvent is emitted when a workbook is loaded.
type DatasetEvent struct {
	DatasetID string   `json:"dataset_id"`
	Name      string   `json:"name"`
	Clusters  []string `json:"clusters"`
	VMs       int      `json:"vms"`
	Hosts     int      `json:"hosts"`
	Cached    bool     `json:"cached"`
}

// ReportEvent is emitted when a report is exported or published.
// Location is empty for exports.
type ReportEvent struct {
	DatasetID string   `json:"dataset_id"`
	Clusters  []string `json:"clusters"`
	Format    string   `json:"format"`
	Name      string   `json:"name"`
	Size      int      `json:"size"`
	Location  string   `json:"location,omitempty"`
}
