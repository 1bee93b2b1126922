package capacity

import (
	"testing"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUSummaryOf(t *testing.T) {
	t.Parallel()
	hosts := []Host{
		{ClusterName: "a", Cores: 16, SpeedMHz: 2000, CPUUsage: 50},
		{ClusterName: "a", Cores: 16, SpeedMHz: 2000, CPUUsage: 50},
	}

	s := CPUSummaryOf(hosts)

	assert.InDelta(t, 64, s.TotalGHz, 1e-9)
	assert.InDelta(t, 32, s.ConsumedGHz, 1e-9)
	require.NotNil(t, s.Utilization)
	assert.InDelta(t, 50, *s.Utilization, 1e-9)
}

func TestCPUSummaryOf_NoCapacity(t *testing.T) {
	t.Parallel()
	s := CPUSummaryOf(nil)
	assert.Zero(t, s.TotalGHz)
	assert.Nil(t, s.Utilization)
}

func TestMemorySummaryOf_UnweightedMean(t *testing.T) {
	t.Parallel()
	hosts := []Host{
		{MemoryGiB: 1024, MemoryUsage: 10},
		{MemoryGiB: 64, MemoryUsage: 90},
	}

	s := MemorySummaryOf(hosts)

	assert.InDelta(t, 1088, s.TotalGiB, 1e-9)
	assert.InDelta(t, 102.4+57.6, s.ConsumedGiB, 1e-9)
	require.NotNil(t, s.Utilization)
	// weighted would be ~14.7%
	assert.InDelta(t, 50, *s.Utilization, 1e-9)
}

func TestMemorySummaryOf_NoHosts(t *testing.T) {
	t.Parallel()
	assert.Nil(t, MemorySummaryOf(nil).Utilization)
}

func TestStorageSummaryOf(t *testing.T) {
	t.Parallel()
	s := StorageSummaryOf([]Partition{
		{CapacityGiB: 1024, ConsumedGiB: 256},
		{CapacityGiB: 1024, ConsumedGiB: 256},
	})
	assert.InDelta(t, 2, s.ProvisionedTiB, 1e-9)
	assert.InDelta(t, 0.5, s.ConsumedTiB, 1e-9)
	require.NotNil(t, s.Utilization)
	assert.InDelta(t, 25, *s.Utilization, 1e-9)

	assert.Nil(t, StorageSummaryOf(nil).Utilization)
}

func TestReadWriteRatio(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		reads, writes float64
		read, write   float64
	}{
		{name: "one third", reads: 1, writes: 2, read: 33, write: 67},
		{name: "two thirds", reads: 2, writes: 1, read: 66, write: 34},
		{name: "exact halves", reads: 1, writes: 1, read: 50, write: 50},
		{name: "exact quarters", reads: 1, writes: 3, read: 25, write: 75},
		{name: "independent rounding", reads: 1, writes: 6, read: 14, write: 86},
		{name: "float noise is not rounded up", reads: 3, writes: 7, read: 30, write: 70},
		{name: "only reads", reads: 5, writes: 0, read: 100, write: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			read, write := ReadWriteRatio(tt.reads, tt.writes)
			require.NotNil(t, read)
			require.NotNil(t, write)
			assert.Equal(t, tt.read, *read)
			assert.Equal(t, tt.write, *write)
			assert.LessOrEqual(t, *read+*write-100, 1.0)
		})
	}
}

func TestReadWriteRatio_NoIO(t *testing.T) {
	t.Parallel()
	read, write := ReadWriteRatio(0, 0)
	assert.Nil(t, read)
	assert.Nil(t, write)
}

func TestIOSummaryOf(t *testing.T) {
	t.Parallel()
	s := IOSummaryOf([]Cluster{
		{P95: inventory.IOStats{IOPS: 100, ThroughputKBps: 10, Reads: 1, Writes: 1}},
		{P95: inventory.IOStats{IOPS: 50, ThroughputKBps: 5, Reads: 0, Writes: 1}},
	})
	assert.InDelta(t, 150, s.IOPS, 1e-9)
	assert.InDelta(t, 15, s.ThroughputKBps, 1e-9)
	require.NotNil(t, s.ReadPercent)
	assert.Equal(t, 33.0, *s.ReadPercent)
	assert.Equal(t, 67.0, *s.WritePercent)
}

func TestVCPURatiosOf(t *testing.T) {
	t.Parallel()
	rows := []CPURow{
		{PowerState: inventory.PoweredOn, VCPUs: 32},
		{PowerState: inventory.PoweredOff, VCPUs: 16},
	}

	t.Run("several hosts", func(t *testing.T) {
		hosts := []Host{{Cores: 16}, {Cores: 16}, {Cores: 32}}
		r := VCPURatiosOf(rows, hosts)
		require.NotNil(t, r.PerCoreOn)
		assert.InDelta(t, 0.5, *r.PerCoreOn, 1e-9)
		assert.InDelta(t, 0.75, *r.PerCoreAll, 1e-9)
		// the 32 core host is removed
		assert.InDelta(t, 1, *r.PerCoreOnN1, 1e-9)
		assert.InDelta(t, 1.5, *r.PerCoreAllN1, 1e-9)
	})

	t.Run("single host", func(t *testing.T) {
		r := VCPURatiosOf(rows, []Host{{Cores: 16}})
		require.NotNil(t, r.PerCoreOnN1)
		assert.Zero(t, *r.PerCoreOnN1)
		assert.Zero(t, *r.PerCoreAllN1)
		assert.InDelta(t, 2, *r.PerCoreOn, 1e-9)
	})

	t.Run("no hosts", func(t *testing.T) {
		r := VCPURatiosOf(rows, nil)
		assert.Nil(t, r.PerCoreOn)
		assert.Nil(t, r.PerCoreAll)
		assert.Zero(t, *r.PerCoreOnN1)
	})
}

func TestVCPUOverview(t *testing.T) {
	t.Parallel()
	o := VCPUOverview([]CPURow{
		{PowerState: inventory.PoweredOn, VCPUs: 4, Estimates: Estimates{Peak: 4, Avg: 1, Median: 1, P95: 3}},
		{PowerState: inventory.PoweredOn, VCPUs: 2, Estimates: Estimates{Peak: 2, Avg: 1, Median: 1, P95: 1}},
		{PowerState: inventory.PoweredOff, VCPUs: 8, Estimates: Estimates{Peak: 8, Avg: 8, Median: 8, P95: 8}},
	})

	assert.Equal(t, UnitVCPU, o.Unit)
	expected := map[Basis]float64{
		BasisProvisionedOn:  6,
		BasisProvisionedOff: 8,
		BasisProvisionedAll: 14,
		BasisPeakOn:         6,
		BasisAverageOn:      2,
		BasisMedianOn:       2,
		BasisP95On:          4,
	}
	assert.Equal(t, expected, o.Values)

	rows := o.UsageRows()
	require.Len(t, rows, 5)
	assert.Equal(t, BasisProvisionedOn, rows[0].Basis)
	assert.Equal(t, BasisP95On, rows[4].Basis)
	assert.Equal(t, 4.0, rows[4].Value)
}

func TestTopCPU_StableAndLimited(t *testing.T) {
	t.Parallel()
	var rows []CPURow
	for i := 0; i < 12; i++ {
		rows = append(rows, CPURow{MOID: string(rune('a' + i)), PowerState: inventory.PoweredOn, VCPUs: 2})
	}
	rows = append(rows, CPURow{MOID: "big", PowerState: inventory.PoweredOn, VCPUs: 8})
	rows = append(rows, CPURow{MOID: "off", PowerState: inventory.PoweredOff, VCPUs: 64})

	top := TopCPU(rows)

	require.Len(t, top, TopN)
	assert.Equal(t, "big", top[0].MOID)
	// ties keep input order
	assert.Equal(t, "a", top[1].MOID)
	assert.Equal(t, "b", top[2].MOID)
	assert.Equal(t, "i", top[9].MOID)
	for _, vm := range top {
		assert.NotEqual(t, "off", vm.MOID)
	}
}

func TestTopStorage_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, TopStorage(nil))
	assert.NotNil(t, TopStorage(nil))
}

func TestGuestOSCensus(t *testing.T) {
	t.Parallel()
	census := GuestOSCensus([]VMListRow{
		{GuestOS: "Windows"},
		{GuestOS: ""},
		{GuestOS: "Linux"},
		{GuestOS: "Windows"},
		{GuestOS: ""},
		{GuestOS: "BSD"},
	})

	assert.Equal(t, []GuestOSCount{
		{Name: UnknownGuestOS, Count: 2},
		{Name: "Windows", Count: 2},
		{Name: "BSD", Count: 1},
		{Name: "Linux", Count: 1},
	}, census)
}

func TestHostOverviewOf(t *testing.T) {
	t.Parallel()
	o := HostOverviewOf([]Host{
		{Sockets: 2, Cores: 16, SpeedMHz: 2100, CPUUsage: 40, MemoryGiB: 256, MemoryUsage: 30, VMCount: 10},
		{Sockets: 2, Cores: 24, SpeedMHz: 2500, CPUUsage: 60, MemoryGiB: 512, MemoryUsage: 50, VMCount: 15},
	})

	assert.Equal(t, 2, o.Hosts)
	assert.Equal(t, 4, o.Sockets)
	assert.Equal(t, 40, o.Cores)
	assert.Equal(t, 15, o.MaxVMsPerHost)
	// 12.5 rounds half to even
	assert.Equal(t, 12.0, *o.AvgVMsPerHost)
	assert.Equal(t, 24, o.MaxCoresPerHost)
	assert.Equal(t, 2500.0, o.MaxSpeedMHz)
	assert.Equal(t, 2300.0, *o.AvgSpeedMHz)
	assert.Equal(t, 50.0, *o.AvgCPUUsage)
	assert.Equal(t, 512.0, o.MaxMemoryGiB)
	assert.Equal(t, 40.0, *o.AvgMemoryUsage)

	empty := HostOverviewOf(nil)
	assert.Zero(t, empty.Hosts)
	assert.Nil(t, empty.AvgCPUUsage)
}

func TestWarnings_CVM(t *testing.T) {
	t.Parallel()
	d := &Dataset{VMs: []VM{{Name: "NTNX-ABC123-A-CVM"}, {Name: "app-01"}, {Name: "NTNX-CVM-like"}}}
	w := Warnings(d)
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "1 Nutanix CVM")

	assert.Nil(t, Warnings(&Dataset{VMs: []VM{{Name: "app-01"}}}))
}
