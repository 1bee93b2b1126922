package inventory

// Tables is the raw representation of a Collector workbook.
// Every slice holds one entry per sheet row, in sheet order, with sizes
// still expressed in the unit used by the source (MiB).
type Tables struct {
	VMs        []VM
	CPU        []CPUSample
	Memory     []MemorySample
	Hosts      []Host
	Clusters   []Cluster
	Partitions []Partition
	VMList     []VMListEntry
	Disks      []Disk
	Snapshots  []Snapshot
}

// Power states as reported by the collector.
const (
	PoweredOn  = "poweredOn"
	PoweredOff = "poweredOff"
)

// VM is a row of the vInfo sheet.
type VM struct {
	MOID        string
	Name        string
	PowerState  string
	ClusterName string
}

// Utilization holds the four statistical samples of a resource, in percent.
// A nil value means no sample was collected (e.g. the VM was powered off).
type Utilization struct {
	Peak   *float64
	Avg    *float64
	Median *float64
	P95    *float64
}

// CPUSample is a row of the vCPU sheet.
type CPUSample struct {
	MOID        string
	ClusterName string
	VCPUs       int
	Utilization Utilization
}

// MemorySample is a row of the vMemory sheet.
type MemorySample struct {
	MOID        string
	ClusterName string
	SizeMiB     float64
	Utilization Utilization
}

// Host is a row of the vHosts sheet. ClusterMOID references Cluster.MOID.
type Host struct {
	ClusterMOID string
	Sockets     int
	Cores       int
	CoresPerCPU int
	SpeedMHz    float64
	CPUUsage    float64
	MemoryGiB   float64
	MemoryUsage float64
	VMCount     int
}

// Cluster is a row of the vCluster sheet.
type Cluster struct {
	Datacenter  string
	MOID        string
	Name        string
	CPUUsage    float64
	MemoryUsage float64
	P95         IOStats
	Peak        *IOStats
}

// IOStats holds the disk I/O figures of a cluster.
type IOStats struct {
	ThroughputKBps float64
	IOPS           float64
	Reads          float64
	Writes         float64
}

// Partition is a row of the vPartition sheet.
type Partition struct {
	MOID        string
	VMName      string
	PowerState  string
	ConsumedMiB float64
	CapacityMiB float64
	Datacenter  string
	ClusterName string
	HostName    string
}

// VMListEntry is a row of the vmList sheet.
type VMListEntry struct {
	MOID        string
	Name        string
	PowerState  string
	ClusterName string
	GuestOS     string
	CapacityMiB float64
	ConsumedMiB float64
	Thin        bool
}

// Disk is a row of the vDisk sheet.
type Disk struct {
	MOID        string
	VMName      string
	ClusterName string
	Label       string
	CapacityMiB float64
	Thin        bool
}

// Snapshot is a row of the vSnapshot sheet.
type Snapshot struct {
	MOID        string
	VMName      string
	ClusterName string
	SizeMiB     float64
}
