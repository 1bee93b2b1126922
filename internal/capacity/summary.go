package capacity

// Summary is the aggregate view of a selection. Ratios whose denominator is
// zero are nil.
type Summary struct {
	Clusters  []string        `json:"clusters"`
	Overview  ClusterOverview `json:"overview"`
	CPU       CPUSummary      `json:"cpu"`
	Memory    MemorySummary   `json:"memory"`
	Storage   StorageSummary  `json:"storage"`
	IO        IOSummary       `json:"io"`
	Hosts     HostOverview    `json:"hosts"`
	VCPU      Overview        `json:"vcpu"`
	VMemory   Overview        `json:"vmemory"`
	VStorage  Overview        `json:"vstorage"`
	Ratios    VCPURatios      `json:"ratios"`
	TopCPU    []TopVM         `json:"topCpu"`
	TopMemory []TopVM         `json:"topMemory"`
	TopDisk   []TopVM         `json:"topStorage"`
	GuestOS   []GuestOSCount  `json:"guestOs"`
	Blended   BlendedStorage  `json:"blendedStorage"`
	Sources   StorageSources  `json:"storageSources"`
	Warnings  []string        `json:"warnings,omitempty"`
}

type ClusterOverview struct {
	Datacenters int `json:"datacenters"`
	Clusters    int `json:"clusters"`
	Hosts       int `json:"hosts"`
	VMs         int `json:"vms"`
	VMsOn       int `json:"vmsOn"`
	VMsOff      int `json:"vmsOff"`
}

type CPUSummary struct {
	TotalGHz    float64  `json:"totalGHz"`
	ConsumedGHz float64  `json:"consumedGHz"`
	Utilization *float64 `json:"utilization"`
}

type MemorySummary struct {
	TotalGiB    float64  `json:"totalGiB"`
	ConsumedGiB float64  `json:"consumedGiB"`
	Utilization *float64 `json:"utilization"`
}

type StorageSummary struct {
	ProvisionedTiB float64  `json:"provisionedTiB"`
	ConsumedTiB    float64  `json:"consumedTiB"`
	Utilization    *float64 `json:"utilization"`
}

type IOSummary struct {
	IOPS           float64  `json:"iops"`
	ThroughputKBps float64  `json:"throughputKBps"`
	ReadPercent    *float64 `json:"readPercent"`
	WritePercent   *float64 `json:"writePercent"`
}

// HostOverview follows the rounding of the host tables: counts and maxima are
// rounded half to even, averages are nil without hosts.
type HostOverview struct {
	Hosts           int      `json:"hosts"`
	Sockets         int      `json:"sockets"`
	Cores           int      `json:"cores"`
	MaxVMsPerHost   int      `json:"maxVmsPerHost"`
	AvgVMsPerHost   *float64 `json:"avgVmsPerHost"`
	MaxCoresPerHost int      `json:"maxCoresPerHost"`
	MaxSpeedMHz     float64  `json:"maxSpeedMHz"`
	AvgSpeedMHz     *float64 `json:"avgSpeedMHz"`
	MaxCPUUsage     float64  `json:"maxCpuUsage"`
	AvgCPUUsage     *float64 `json:"avgCpuUsage"`
	MaxMemoryGiB    float64  `json:"maxMemoryGiB"`
	MaxMemoryUsage  float64  `json:"maxMemoryUsage"`
	AvgMemoryUsage  *float64 `json:"avgMemoryUsage"`
}

// VCPURatios is the vCPU to physical core over-provisioning. N1 variants
// assume the host with the most cores is unavailable.
type VCPURatios struct {
	PerCoreOn    *float64 `json:"perCoreOn"`
	PerCoreAll   *float64 `json:"perCoreAll"`
	PerCoreOnN1  *float64 `json:"perCoreOnN1"`
	PerCoreAllN1 *float64 `json:"perCoreAllN1"`
}

type TopVM struct {
	MOID        string  `json:"moid"`
	Name        string  `json:"name"`
	ClusterName string  `json:"clusterName"`
	Value       float64 `json:"value"`
}

type GuestOSCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SnapshotTotals struct {
	Count   int     `json:"count"`
	SizeGiB float64 `json:"sizeGiB"`
}

// StorageSources holds the per-source storage tables. Snapshots are
// informational only.
type StorageSources struct {
	Partition StorageSplit   `json:"partition"`
	Disk      StorageSplit   `json:"disk"`
	Snapshot  SnapshotTotals `json:"snapshot"`
}
