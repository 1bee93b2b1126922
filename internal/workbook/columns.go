package workbook

// Sheet names of a Collector export.
const (
	SheetVInfo      = "vInfo"
	SheetVCPU       = "vCPU"
	SheetVMemory    = "vMemory"
	SheetVHosts     = "vHosts"
	SheetVCluster   = "vCluster"
	SheetVPartition = "vPartition"
	SheetVMList     = "vmList"
	SheetVDisk      = "vDisk"
	SheetVSnapshot  = "vSnapshot"
)

// Column headers. Lookups are case-insensitive.
const (
	colVMName      = "VM Name"
	colPowerState  = "Power State"
	colClusterName = "Cluster Name"
	colMOID        = "MOID"
	colVCPUs       = "vCPUs"
	colPeak        = "Peak %"
	colAverage     = "Average %"
	colMedian      = "Median %"
	colP95         = "95th Percentile % (recommended)"
	colSizeMiB     = "Size (MiB)"
	colCluster     = "Cluster"
	colCPUs        = "CPUs"
	colVMs         = "VMs"
	colCPUCores    = "CPU Cores"
	colCPUSpeed    = "CPU Speed"
	colCoresPerCPU = "Cores per CPU"
	colMemorySize  = "Memory Size"
	colCPUUsage    = "CPU Usage"
	colMemoryUsage = "Memory Usage"
	colDatacenter  = "Datacenter"
	colCPUUsagePct = "CPU Usage %"
	colMemUsagePct = "Memory Usage %"
	colP95Through  = "95th Percentile Disk Throughput (KBps)"
	colP95IOPS     = "95th Percentile IOPS"
	colP95Reads    = "95th Percentile Number of Reads"
	colP95Writes   = "95th Percentile Number of Writes"
	colPeakThrough = "Peak Disk Throughput (KBps)"
	colPeakIOPS    = "Peak IOPS"
	colPeakReads   = "Peak Number of Reads"
	colPeakWrites  = "Peak Number of Writes"
	colConsumedMiB = "Consumed (MiB)"
	colCapacityMiB = "Capacity (MiB)"
	colDCName      = "Datacenter Name"
	colHostName    = "Host Name"
	colGuestOS     = "Guest OS"
	colThin        = "Thin Provisioned"
	colDisk        = "Disk"
)

// requiredColumns is the parsing contract: a sheet missing any of these
// columns is rejected.
var requiredColumns = map[string][]string{
	SheetVInfo:      {colVMName, colPowerState, colClusterName, colMOID},
	SheetVCPU:       {colVCPUs, colPeak, colAverage, colMedian, colP95, colClusterName, colMOID},
	SheetVMemory:    {colSizeMiB, colPeak, colAverage, colMedian, colP95, colClusterName, colMOID},
	SheetVHosts:     {colCluster, colCPUs, colVMs, colCPUCores, colCPUSpeed, colCoresPerCPU, colMemorySize, colCPUUsage, colMemoryUsage},
	SheetVCluster:   {colDatacenter, colMOID, colClusterName, colCPUUsagePct, colMemUsagePct, colP95Through, colP95IOPS, colP95Reads, colP95Writes},
	SheetVPartition: {colVMName, colPowerState, colConsumedMiB, colCapacityMiB, colDCName, colClusterName, colHostName, colMOID},
	SheetVMList:     {colVMName, colPowerState, colClusterName, colMOID, colGuestOS, colCapacityMiB, colConsumedMiB},
	SheetVDisk:      {colVMName, colClusterName, colMOID, colCapacityMiB},
	SheetVSnapshot:  {colVMName, colClusterName, colMOID, colSizeMiB},
}

// sheetOrder is the order sheets are validated in, so that the reported
// error is stable.
var sheetOrder = []string{
	SheetVInfo,
	SheetVCPU,
	SheetVMemory,
	SheetVHosts,
	SheetVCluster,
	SheetVPartition,
	SheetVMList,
	SheetVDisk,
	SheetVSnapshot,
}

// RequiredColumns returns the columns a sheet must carry.
func RequiredColumns(sheet string) []string {
	cols := requiredColumns[sheet]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Sheets returns the names of every sheet the reader consumes.
func Sheets() []string {
	out := make([]string, len(sheetOrder))
	copy(out, sheetOrder)
	return out
}
