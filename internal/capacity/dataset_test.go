package capacity

import (
	"errors"
	"testing"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() *inventory.Tables {
	return &inventory.Tables{
		VMs: []inventory.VM{
			{MOID: "vm-1", Name: "web", PowerState: inventory.PoweredOn, ClusterName: "a"},
			{MOID: "vm-2", Name: "tiny", PowerState: inventory.PoweredOn, ClusterName: "a"},
			{MOID: "vm-3", Name: "db", PowerState: inventory.PoweredOff, ClusterName: "b"},
		},
		CPU: []inventory.CPUSample{
			{MOID: "vm-1", ClusterName: "a", VCPUs: 4, Utilization: inventory.Utilization{P95: pct(50), Peak: pct(90), Avg: pct(10), Median: pct(10)}},
			{MOID: "vm-3", ClusterName: "b", VCPUs: 8},
		},
		Memory: []inventory.MemorySample{
			{MOID: "vm-1", ClusterName: "a", SizeMiB: 8192, Utilization: inventory.Utilization{P95: pct(40)}},
			{MOID: "vm-2", ClusterName: "a", SizeMiB: 512},
		},
		Hosts: []inventory.Host{
			{ClusterMOID: "domain-c1", Cores: 16, SpeedMHz: 2000, CPUUsage: 50},
			{ClusterMOID: "domain-c1", Cores: 16, SpeedMHz: 2000, CPUUsage: 50},
			{ClusterMOID: "domain-c2", Cores: 8, SpeedMHz: 3000, CPUUsage: 10},
			{ClusterMOID: "domain-c404", Cores: 8, SpeedMHz: 3000, CPUUsage: 10},
		},
		Clusters: []inventory.Cluster{
			{Datacenter: "dc", MOID: "domain-c1", Name: "a"},
			{Datacenter: "dc", MOID: "domain-c2", Name: "b"},
		},
		Partitions: []inventory.Partition{
			{MOID: "vm-1", PowerState: inventory.PoweredOn, ClusterName: "a", CapacityMiB: 10240, ConsumedMiB: 5120},
		},
		Disks: []inventory.Disk{
			{MOID: "vm-3", ClusterName: "b", CapacityMiB: 2048},
		},
		Snapshots: []inventory.Snapshot{
			{MOID: "vm-1", ClusterName: "a", SizeMiB: 1024},
		},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	d, err := Normalize(sampleTables())
	require.NoError(t, err)

	t.Run("hosts get their cluster name", func(t *testing.T) {
		require.Len(t, d.Hosts, 3)
		assert.Equal(t, "a", d.Hosts[0].ClusterName)
		assert.Equal(t, "b", d.Hosts[2].ClusterName)
	})

	t.Run("cpu estimates", func(t *testing.T) {
		assert.Equal(t, Estimates{Peak: 4, Avg: 1, Median: 1, P95: 3}, d.CPU[0].Estimates)
		assert.Equal(t, Estimates{Peak: 8, Avg: 8, Median: 8, P95: 8}, d.CPU[1].Estimates)
		assert.Equal(t, inventory.PoweredOff, d.CPU[1].PowerState)
	})

	t.Run("memory in GiB", func(t *testing.T) {
		assert.Equal(t, 8.0, d.Memory[0].SizeGiB)
		assert.Equal(t, 4.0, d.Memory[0].Estimates.P95)
		assert.Equal(t, 8.0, d.Memory[0].Estimates.Peak)
	})

	t.Run("small VM without samples keeps its provisioned memory", func(t *testing.T) {
		assert.Equal(t, Estimates{Peak: 0.5, Avg: 0.5, Median: 0.5, P95: 0.5}, d.Memory[1].Estimates)
	})

	t.Run("disks get the power state of their VM", func(t *testing.T) {
		assert.Equal(t, inventory.PoweredOff, d.Disks[0].PowerState)
		assert.Equal(t, 2.0, d.Disks[0].CapacityGiB)
	})

	t.Run("storage in GiB", func(t *testing.T) {
		assert.Equal(t, 10.0, d.Partitions[0].CapacityGiB)
		assert.Equal(t, 1.0, d.Snapshots[0].SizeGiB)
	})

	t.Run("cluster names", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, d.ClusterNames())
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	tables := sampleTables()
	first, err := Normalize(tables)
	require.NoError(t, err)
	second, err := Normalize(tables)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleTables(), tables)
}

func TestNormalize_Inconsistent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*inventory.Tables)
	}{
		{name: "duplicate vm moid", mutate: func(tb *inventory.Tables) { tb.VMs = append(tb.VMs, tb.VMs[0]) }},
		{name: "empty vm moid", mutate: func(tb *inventory.Tables) { tb.VMs[1].MOID = "" }},
		{name: "duplicate cluster moid", mutate: func(tb *inventory.Tables) { tb.Clusters[1].MOID = "domain-c1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := sampleTables()
			tt.mutate(tables)
			_, err := Normalize(tables)
			var inconsistent *ErrInconsistentDataset
			assert.True(t, errors.As(err, &inconsistent))
		})
	}

	_, err := Normalize(nil)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	t.Parallel()
	d, err := Normalize(sampleTables())
	require.NoError(t, err)

	all, err := d.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all.VMs, 3)

	a, err := d.Filter([]string{"a"})
	require.NoError(t, err)
	assert.Len(t, a.VMs, 2)
	assert.Len(t, a.Hosts, 2)
	assert.Len(t, a.Clusters, 1)
	assert.Len(t, a.Disks, 0)
	assert.Len(t, a.CPU, 1)
	assert.Len(t, d.VMs, 3, "filter must not modify the dataset")

	_, err = d.Filter([]string{"missing"})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestAggregate_SingleClusterScenario(t *testing.T) {
	t.Parallel()
	d, err := Normalize(sampleTables())
	require.NoError(t, err)
	a, err := d.Filter([]string{"a"})
	require.NoError(t, err)

	s := Aggregate(a)

	assert.Equal(t, []string{"a"}, s.Clusters)
	assert.InDelta(t, 64, s.CPU.TotalGHz, 1e-9)
	assert.InDelta(t, 32, s.CPU.ConsumedGHz, 1e-9)
	assert.InDelta(t, 50, *s.CPU.Utilization, 1e-9)
	p95, ok := s.VCPU.Get(BasisP95On)
	require.True(t, ok)
	assert.Equal(t, 3.0, p95)
	assert.Equal(t, 2, s.Overview.VMsOn)
	assert.Equal(t, 0, s.Overview.VMsOff)
	assert.NotNil(t, s.Ratios.PerCoreOnN1)
	assert.InDelta(t, 4.0/16, *s.Ratios.PerCoreOnN1, 1e-9)
}

func TestAggregate_SingleHostN1IsZero(t *testing.T) {
	t.Parallel()
	d, err := Normalize(sampleTables())
	require.NoError(t, err)
	b, err := d.Filter([]string{"b"})
	require.NoError(t, err)

	s := Aggregate(b)

	require.Len(t, b.Hosts, 1)
	assert.Zero(t, *s.Ratios.PerCoreOnN1)
	assert.Zero(t, *s.Ratios.PerCoreAllN1)
}

func TestDetails(t *testing.T) {
	t.Parallel()
	d, err := Normalize(sampleTables())
	require.NoError(t, err)

	details := d.Details()

	require.Len(t, details, 3)
	assert.Equal(t, "web", details[0].VM.Name)
	require.NotNil(t, details[0].CPU)
	require.NotNil(t, details[0].Memory)
	assert.Equal(t, 50.0, *details[0].CPU.Utilization.P95)
	assert.Equal(t, 3.0, details[0].CPU.Estimates.P95)
	assert.Nil(t, details[1].CPU)
	assert.NotNil(t, details[1].Memory)
	assert.Nil(t, details[2].Memory)
}
