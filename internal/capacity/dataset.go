package capacity

import (
	"slices"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
	"go.uber.org/zap"
)

// Dataset holds the normalized tables of one workbook. Sizes are in GiB and
// joins by MOID are resolved. A Dataset is never mutated once built.
type Dataset struct {
	VMs        []VM
	CPU        []CPURow
	Memory     []MemoryRow
	Hosts      []Host
	Clusters   []Cluster
	Partitions []Partition
	VMList     []VMListRow
	Disks      []Disk
	Snapshots  []Snapshot
}

type VM struct {
	MOID        string
	Name        string
	PowerState  string
	ClusterName string
}

// Estimates holds the per-basis estimate columns of a VM resource.
type Estimates struct {
	Peak   float64
	Avg    float64
	Median float64
	P95    float64
}

type CPURow struct {
	MOID        string
	VMName      string
	PowerState  string
	ClusterName string
	VCPUs       float64
	Utilization inventory.Utilization
	Estimates   Estimates
}

type MemoryRow struct {
	MOID        string
	VMName      string
	PowerState  string
	ClusterName string
	SizeGiB     float64
	Utilization inventory.Utilization
	Estimates   Estimates
}

// Host no longer carries the cluster MOID, only the joined cluster name.
type Host struct {
	ClusterName string
	Sockets     int
	Cores       int
	CoresPerCPU int
	SpeedMHz    float64
	CPUUsage    float64
	MemoryGiB   float64
	MemoryUsage float64
	VMCount     int
}

type Cluster struct {
	Datacenter  string
	Name        string
	CPUUsage    float64
	MemoryUsage float64
	P95         inventory.IOStats
	Peak        *inventory.IOStats
}

type Partition struct {
	MOID        string
	VMName      string
	PowerState  string
	ClusterName string
	Datacenter  string
	HostName    string
	ConsumedGiB float64
	CapacityGiB float64
}

type VMListRow struct {
	MOID        string
	Name        string
	PowerState  string
	ClusterName string
	GuestOS     string
	CapacityGiB float64
	ConsumedGiB float64
	Thin        bool
}

// Disk carries the power state of its VM, joined from vInfo.
type Disk struct {
	MOID        string
	VMName      string
	PowerState  string
	ClusterName string
	Label       string
	CapacityGiB float64
	Thin        bool
}

type Snapshot struct {
	MOID        string
	VMName      string
	ClusterName string
	SizeGiB     float64
}

// Normalize converts raw tables into a Dataset: MiB sizes become GiB, CPU and
// memory estimates are computed for every basis, hosts get their cluster
// name and disk and sample rows get the power state of their VM.
func Normalize(t *inventory.Tables) (*Dataset, error) {
	if t == nil {
		return nil, NewErrInconsistentDataset("no tables to normalize")
	}

	vmByID := make(map[string]inventory.VM, len(t.VMs))
	vms := make([]VM, 0, len(t.VMs))
	for i, vm := range t.VMs {
		if vm.MOID == "" {
			return nil, NewErrInconsistentDataset("vInfo row %d: empty MOID", i+2)
		}
		if _, dup := vmByID[vm.MOID]; dup {
			return nil, NewErrInconsistentDataset("vInfo: duplicate MOID %q", vm.MOID)
		}
		vmByID[vm.MOID] = vm
		vms = append(vms, VM{MOID: vm.MOID, Name: vm.Name, PowerState: vm.PowerState, ClusterName: vm.ClusterName})
	}

	clusterNames := make(map[string]string, len(t.Clusters))
	clusters := make([]Cluster, 0, len(t.Clusters))
	for i, c := range t.Clusters {
		if c.MOID == "" {
			return nil, NewErrInconsistentDataset("vCluster row %d: empty MOID", i+2)
		}
		if _, dup := clusterNames[c.MOID]; dup {
			return nil, NewErrInconsistentDataset("vCluster: duplicate MOID %q", c.MOID)
		}
		clusterNames[c.MOID] = c.Name
		var peak *inventory.IOStats
		if c.Peak != nil {
			p := *c.Peak
			peak = &p
		}
		clusters = append(clusters, Cluster{
			Datacenter:  c.Datacenter,
			Name:        c.Name,
			CPUUsage:    c.CPUUsage,
			MemoryUsage: c.MemoryUsage,
			P95:         c.P95,
			Peak:        peak,
		})
	}

	hosts := make([]Host, 0, len(t.Hosts))
	dropped := 0
	for _, h := range t.Hosts {
		name, ok := clusterNames[h.ClusterMOID]
		if !ok {
			dropped++
			continue
		}
		hosts = append(hosts, Host{
			ClusterName: name,
			Sockets:     h.Sockets,
			Cores:       h.Cores,
			CoresPerCPU: h.CoresPerCPU,
			SpeedMHz:    h.SpeedMHz,
			CPUUsage:    h.CPUUsage,
			MemoryGiB:   h.MemoryGiB,
			MemoryUsage: h.MemoryUsage,
			VMCount:     h.VMCount,
		})
	}
	if dropped > 0 {
		zap.S().Named("capacity").Warnw("hosts without a known cluster were ignored", "count", dropped)
	}

	cpu := make([]CPURow, 0, len(t.CPU))
	for _, s := range t.CPU {
		vm := vmByID[s.MOID]
		p := float64(s.VCPUs)
		cpu = append(cpu, CPURow{
			MOID:        s.MOID,
			VMName:      vm.Name,
			PowerState:  vm.PowerState,
			ClusterName: s.ClusterName,
			VCPUs:       p,
			Utilization: copyUtilization(s.Utilization),
			Estimates:   estimateAll(p, s.Utilization, CPU),
		})
	}

	memory := make([]MemoryRow, 0, len(t.Memory))
	for _, s := range t.Memory {
		vm := vmByID[s.MOID]
		p := MiBToGiB(s.SizeMiB)
		memory = append(memory, MemoryRow{
			MOID:        s.MOID,
			VMName:      vm.Name,
			PowerState:  vm.PowerState,
			ClusterName: s.ClusterName,
			SizeGiB:     p,
			Utilization: copyUtilization(s.Utilization),
			Estimates:   estimateAll(p, s.Utilization, Memory),
		})
	}

	partitions := make([]Partition, 0, len(t.Partitions))
	for _, p := range t.Partitions {
		partitions = append(partitions, Partition{
			MOID:        p.MOID,
			VMName:      p.VMName,
			PowerState:  p.PowerState,
			ClusterName: p.ClusterName,
			Datacenter:  p.Datacenter,
			HostName:    p.HostName,
			ConsumedGiB: MiBToGiB(p.ConsumedMiB),
			CapacityGiB: MiBToGiB(p.CapacityMiB),
		})
	}

	vmList := make([]VMListRow, 0, len(t.VMList))
	for _, e := range t.VMList {
		vmList = append(vmList, VMListRow{
			MOID:        e.MOID,
			Name:        e.Name,
			PowerState:  e.PowerState,
			ClusterName: e.ClusterName,
			GuestOS:     e.GuestOS,
			CapacityGiB: MiBToGiB(e.CapacityMiB),
			ConsumedGiB: MiBToGiB(e.ConsumedMiB),
			Thin:        e.Thin,
		})
	}

	disks := make([]Disk, 0, len(t.Disks))
	for _, d := range t.Disks {
		disks = append(disks, Disk{
			MOID:        d.MOID,
			VMName:      d.VMName,
			PowerState:  vmByID[d.MOID].PowerState,
			ClusterName: d.ClusterName,
			Label:       d.Label,
			CapacityGiB: MiBToGiB(d.CapacityMiB),
			Thin:        d.Thin,
		})
	}

	snapshots := make([]Snapshot, 0, len(t.Snapshots))
	for _, s := range t.Snapshots {
		snapshots = append(snapshots, Snapshot{
			MOID:        s.MOID,
			VMName:      s.VMName,
			ClusterName: s.ClusterName,
			SizeGiB:     MiBToGiB(s.SizeMiB),
		})
	}

	return &Dataset{
		VMs:        vms,
		CPU:        cpu,
		Memory:     memory,
		Hosts:      hosts,
		Clusters:   clusters,
		Partitions: partitions,
		VMList:     vmList,
		Disks:      disks,
		Snapshots:  snapshots,
	}, nil
}

func estimateAll(provisioned float64, u inventory.Utilization, kind Kind) Estimates {
	return Estimates{
		Peak:   Estimate(provisioned, u.Peak, kind),
		Avg:    Estimate(provisioned, u.Avg, kind),
		Median: Estimate(provisioned, u.Median, kind),
		P95:    Estimate(provisioned, u.P95, kind),
	}
}

func copyUtilization(u inventory.Utilization) inventory.Utilization {
	clone := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		c := *v
		return &c
	}
	return inventory.Utilization{Peak: clone(u.Peak), Avg: clone(u.Avg), Median: clone(u.Median), P95: clone(u.P95)}
}

// ClusterNames returns the distinct cluster names of the VMs, sorted.
func (d *Dataset) ClusterNames() []string {
	seen := map[string]struct{}{}
	names := []string{}
	for _, vm := range d.VMs {
		if _, ok := seen[vm.ClusterName]; ok {
			continue
		}
		seen[vm.ClusterName] = struct{}{}
		names = append(names, vm.ClusterName)
	}
	slices.Sort(names)
	return names
}
