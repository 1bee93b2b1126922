package capacity

import (
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
)

const (
	// TopN is the length of the top VM tables.
	TopN = 10
	// UnknownGuestOS labels VMs whose guest OS could not be read.
	UnknownGuestOS = "Unknown"
)

var cvmNameRegex = regexp.MustCompile(`^NTNX-.*-CVM$`)

// Aggregate reduces a (filtered) dataset to its summary figures.
func Aggregate(d *Dataset) *Summary {
	blended := ReconcileStorage(d)

	return &Summary{
		Clusters:  clusterNames(d),
		Overview:  ClusterOverviewOf(d),
		CPU:       CPUSummaryOf(d.Hosts),
		Memory:    MemorySummaryOf(d.Hosts),
		Storage:   StorageSummaryOf(d.Partitions),
		IO:        IOSummaryOf(d.Clusters),
		Hosts:     HostOverviewOf(d.Hosts),
		VCPU:      VCPUOverview(d.CPU),
		VMemory:   VMemoryOverview(d.Memory),
		VStorage:  VStorageOverview(blended),
		Ratios:    VCPURatiosOf(d.CPU, d.Hosts),
		TopCPU:    TopCPU(d.CPU),
		TopMemory: TopMemory(d.Memory),
		TopDisk:   TopStorage(d.VMList),
		GuestOS:   GuestOSCensus(d.VMList),
		Blended:   blended,
		Sources:   StorageSourcesOf(d),
		Warnings:  Warnings(d),
	}
}

func clusterNames(d *Dataset) []string {
	names := make([]string, 0, len(d.Clusters))
	for _, c := range d.Clusters {
		if !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	slices.Sort(names)
	return names
}

func ClusterOverviewOf(d *Dataset) ClusterOverview {
	datacenters := map[string]struct{}{}
	clusters := map[string]struct{}{}
	for _, c := range d.Clusters {
		datacenters[c.Datacenter] = struct{}{}
		clusters[c.Name] = struct{}{}
	}

	o := ClusterOverview{
		Datacenters: len(datacenters),
		Clusters:    len(clusters),
		Hosts:       len(d.Hosts),
		VMs:         len(d.VMs),
	}
	for _, vm := range d.VMs {
		switch vm.PowerState {
		case inventory.PoweredOn:
			o.VMsOn++
		case inventory.PoweredOff:
			o.VMsOff++
		}
	}
	return o
}

// CPUSummaryOf computes available and consumed GHz over hosts. Utilization is
// consumed over total.
func CPUSummaryOf(hosts []Host) CPUSummary {
	var total, consumed float64
	for _, h := range hosts {
		mhz := float64(h.Cores) * h.SpeedMHz
		total += mhz
		consumed += mhz * h.CPUUsage / 100
	}
	total, consumed = MHzToGHz(total), MHzToGHz(consumed)
	return CPUSummary{TotalGHz: total, ConsumedGHz: consumed, Utilization: ratio(consumed, total)}
}

// MemorySummaryOf sums host memory. Utilization is the plain mean of the
// host usage percentages, not weighted by host memory size.
func MemorySummaryOf(hosts []Host) MemorySummary {
	var total, consumed, usage float64
	for _, h := range hosts {
		total += h.MemoryGiB
		consumed += h.MemoryGiB * h.MemoryUsage / 100
		usage += h.MemoryUsage
	}
	s := MemorySummary{TotalGiB: total, ConsumedGiB: consumed}
	if len(hosts) > 0 {
		s.Utilization = ptr(usage / float64(len(hosts)))
	}
	return s
}

// StorageSummaryOf sums partition capacity and consumption in TiB.
func StorageSummaryOf(partitions []Partition) StorageSummary {
	var provisioned, consumed float64
	for _, p := range partitions {
		provisioned += p.CapacityGiB
		consumed += p.ConsumedGiB
	}
	provisioned, consumed = GiBToTiB(provisioned), GiBToTiB(consumed)
	return StorageSummary{ProvisionedTiB: provisioned, ConsumedTiB: consumed, Utilization: ratio(consumed, provisioned)}
}

// IOSummaryOf sums 95th percentile cluster I/O. The read share is rounded
// down and the write share up, independently, so they may not add to 100.
func IOSummaryOf(clusters []Cluster) IOSummary {
	var s IOSummary
	var reads, writes float64
	for _, c := range clusters {
		s.IOPS += c.P95.IOPS
		s.ThroughputKBps += c.P95.ThroughputKBps
		reads += c.P95.Reads
		writes += c.P95.Writes
	}
	s.ReadPercent, s.WritePercent = ReadWriteRatio(reads, writes)
	return s
}

// ReadWriteRatio returns floor(reads share) and ceil(writes share) in percent,
// or nils when there is no I/O.
func ReadWriteRatio(reads, writes float64) (*float64, *float64) {
	total := reads + writes
	if total == 0 {
		return nil, nil
	}
	return ptr(Floor(reads / total * 100)), ptr(Ceil(writes / total * 100))
}

func HostOverviewOf(hosts []Host) HostOverview {
	o := HostOverview{Hosts: len(hosts)}
	if len(hosts) == 0 {
		return o
	}

	var vms, speed, cpuUsage, memUsage float64
	for _, h := range hosts {
		o.Sockets += h.Sockets
		o.Cores += h.Cores
		o.MaxVMsPerHost = max(o.MaxVMsPerHost, h.VMCount)
		o.MaxCoresPerHost = max(o.MaxCoresPerHost, h.Cores)
		o.MaxSpeedMHz = max(o.MaxSpeedMHz, h.SpeedMHz)
		o.MaxCPUUsage = max(o.MaxCPUUsage, h.CPUUsage)
		o.MaxMemoryGiB = max(o.MaxMemoryGiB, h.MemoryGiB)
		o.MaxMemoryUsage = max(o.MaxMemoryUsage, h.MemoryUsage)
		vms += float64(h.VMCount)
		speed += h.SpeedMHz
		cpuUsage += h.CPUUsage
		memUsage += h.MemoryUsage
	}

	n := float64(len(hosts))
	o.AvgVMsPerHost = ptr(RoundHalfEven(vms / n))
	o.AvgSpeedMHz = ptr(RoundHalfEven(speed / n))
	o.AvgCPUUsage = ptr(RoundHalfEven(cpuUsage / n))
	o.AvgMemoryUsage = ptr(RoundHalfEven(memUsage / n))
	o.MaxSpeedMHz = RoundHalfEven(o.MaxSpeedMHz)
	o.MaxCPUUsage = RoundHalfEven(o.MaxCPUUsage)
	o.MaxMemoryGiB = RoundHalfEven(o.MaxMemoryGiB)
	o.MaxMemoryUsage = RoundHalfEven(o.MaxMemoryUsage)
	return o
}

// VCPUOverview sums provisioned vCPUs and the estimate columns.
// Usage based values only cover powered-on VMs.
func VCPUOverview(rows []CPURow) Overview {
	o := newOverview(UnitVCPU)
	for _, b := range []Basis{BasisProvisionedOn, BasisProvisionedOff, BasisProvisionedAll, BasisPeakOn, BasisAverageOn, BasisMedianOn, BasisP95On} {
		o.Values[b] = 0
	}
	for _, r := range rows {
		addOverview(o, r.PowerState, r.VCPUs, r.Estimates)
	}
	return o
}

// VMemoryOverview is VCPUOverview for memory, in GiB.
func VMemoryOverview(rows []MemoryRow) Overview {
	o := newOverview(UnitGiB)
	for _, b := range []Basis{BasisProvisionedOn, BasisProvisionedOff, BasisProvisionedAll, BasisPeakOn, BasisAverageOn, BasisMedianOn, BasisP95On} {
		o.Values[b] = 0
	}
	for _, r := range rows {
		addOverview(o, r.PowerState, r.SizeGiB, r.Estimates)
	}
	return o
}

func addOverview(o Overview, powerState string, provisioned float64, e Estimates) {
	o.Values[BasisProvisionedAll] += provisioned
	switch powerState {
	case inventory.PoweredOff:
		o.Values[BasisProvisionedOff] += provisioned
	case inventory.PoweredOn:
		o.Values[BasisProvisionedOn] += provisioned
		o.Values[BasisPeakOn] += e.Peak
		o.Values[BasisAverageOn] += e.Avg
		o.Values[BasisMedianOn] += e.Median
		o.Values[BasisP95On] += e.P95
	}
}

// VStorageOverview exposes the blended VM storage in TiB.
func VStorageOverview(b BlendedStorage) Overview {
	o := newOverview(UnitTiB)
	o.Values[BasisConsumedOn] = GiBToTiB(b.Total.On.ConsumedGiB)
	o.Values[BasisConsumedAll] = GiBToTiB(b.Total.All.ConsumedGiB)
	o.Values[BasisProvisionedOn] = GiBToTiB(b.Total.On.ProvisionedGiB)
	o.Values[BasisProvisionedAll] = GiBToTiB(b.Total.All.ProvisionedGiB)
	return o
}

// VCPURatiosOf computes vCPUs per physical core. The N-1 figures remove the
// host with the most cores and are 0 with fewer than two hosts.
func VCPURatiosOf(rows []CPURow, hosts []Host) VCPURatios {
	var on, all float64
	for _, r := range rows {
		all += r.VCPUs
		if r.PowerState == inventory.PoweredOn {
			on += r.VCPUs
		}
	}

	var cores, largest float64
	for _, h := range hosts {
		c := float64(h.Cores)
		cores += c
		largest = max(largest, c)
	}

	perCore := func(vcpus, cores float64) *float64 {
		if cores == 0 {
			return nil
		}
		return ptr(vcpus / cores)
	}

	r := VCPURatios{
		PerCoreOn:  perCore(on, cores),
		PerCoreAll: perCore(all, cores),
	}
	if len(hosts) <= 1 {
		r.PerCoreOnN1 = ptr(0)
		r.PerCoreAllN1 = ptr(0)
		return r
	}
	r.PerCoreOnN1 = perCore(on, cores-largest)
	r.PerCoreAllN1 = perCore(all, cores-largest)
	return r
}

func TopCPU(rows []CPURow) []TopVM {
	var top []TopVM
	for _, r := range rows {
		if r.PowerState == inventory.PoweredOn {
			top = append(top, TopVM{MOID: r.MOID, Name: r.VMName, ClusterName: r.ClusterName, Value: r.VCPUs})
		}
	}
	return topN(top)
}

func TopMemory(rows []MemoryRow) []TopVM {
	var top []TopVM
	for _, r := range rows {
		if r.PowerState == inventory.PoweredOn {
			top = append(top, TopVM{MOID: r.MOID, Name: r.VMName, ClusterName: r.ClusterName, Value: r.SizeGiB})
		}
	}
	return topN(top)
}

// TopStorage ranks powered-on VMs by provisioned capacity in GiB.
func TopStorage(rows []VMListRow) []TopVM {
	var top []TopVM
	for _, r := range rows {
		if r.PowerState == inventory.PoweredOn {
			top = append(top, TopVM{MOID: r.MOID, Name: r.Name, ClusterName: r.ClusterName, Value: r.CapacityGiB})
		}
	}
	return topN(top)
}

// topN keeps input order between equal values.
func topN(vms []TopVM) []TopVM {
	sort.SliceStable(vms, func(i, j int) bool { return vms[i].Value > vms[j].Value })
	if len(vms) > TopN {
		vms = vms[:TopN]
	}
	if vms == nil {
		return []TopVM{}
	}
	return vms
}

// GuestOSCensus counts VMs per guest OS, most frequent first.
func GuestOSCensus(rows []VMListRow) []GuestOSCount {
	counts := map[string]int{}
	for _, r := range rows {
		name := r.GuestOS
		if name == "" {
			name = UnknownGuestOS
		}
		counts[name]++
	}

	census := make([]GuestOSCount, 0, len(counts))
	for name, count := range counts {
		census = append(census, GuestOSCount{Name: name, Count: count})
	}
	sort.Slice(census, func(i, j int) bool {
		if census[i].Count != census[j].Count {
			return census[i].Count > census[j].Count
		}
		return census[i].Name < census[j].Name
	})
	return census
}

func StorageSourcesOf(d *Dataset) StorageSources {
	var s StorageSources
	for _, p := range d.Partitions {
		s.Partition.add(p.PowerState, StorageSlice{ProvisionedGiB: p.CapacityGiB, ConsumedGiB: p.ConsumedGiB})
	}
	for _, disk := range d.Disks {
		s.Disk.add(disk.PowerState, StorageSlice{ProvisionedGiB: disk.CapacityGiB})
	}
	for _, snap := range d.Snapshots {
		s.Snapshot.Count++
		s.Snapshot.SizeGiB += snap.SizeGiB
	}
	return s
}

// Warnings flags data that skews the analysis.
func Warnings(d *Dataset) []string {
	var cvms int
	for _, vm := range d.VMs {
		if cvmNameRegex.MatchString(vm.Name) {
			cvms++
		}
	}
	if cvms == 0 {
		return nil
	}
	return []string{fmt.Sprintf("the inventory contains %d Nutanix CVM(s), storage figures may be inflated; export Nutanix clusters from Prism or remove the CVMs", cvms)}
}
