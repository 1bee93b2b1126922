package capacity

import (
	"testing"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
	"github.com/stretchr/testify/assert"
)

func storageDataset() *Dataset {
	return &Dataset{
		Partitions: []Partition{
			{MOID: "vm-1", PowerState: inventory.PoweredOn, CapacityGiB: 100, ConsumedGiB: 40},
			{MOID: "vm-1", PowerState: inventory.PoweredOn, CapacityGiB: 50, ConsumedGiB: 10},
			{MOID: "vm-2", PowerState: inventory.PoweredOff, CapacityGiB: 20, ConsumedGiB: 5},
		},
		Disks: []Disk{
			{MOID: "vm-1", PowerState: inventory.PoweredOn, CapacityGiB: 200},
			{MOID: "vm-2", PowerState: inventory.PoweredOff, CapacityGiB: 30},
			{MOID: "vm-3", PowerState: inventory.PoweredOn, CapacityGiB: 100},
			{MOID: "vm-3", PowerState: inventory.PoweredOn, CapacityGiB: 50},
			{MOID: "vm-4", PowerState: inventory.PoweredOff, CapacityGiB: 10},
		},
	}
}

func TestReconcileStorage(t *testing.T) {
	t.Parallel()
	b := ReconcileStorage(storageDataset())

	assert.Equal(t, 2, b.FallbackVMs)

	assert.InDelta(t, 150, b.Partition.On.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 50, b.Partition.On.ConsumedGiB, 1e-9)
	assert.InDelta(t, 20, b.Partition.Off.ProvisionedGiB, 1e-9)

	assert.InDelta(t, 150, b.Fallback.On.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 120, b.Fallback.On.ConsumedGiB, 1e-9)
	assert.InDelta(t, 10, b.Fallback.Off.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 8, b.Fallback.Off.ConsumedGiB, 1e-9)

	assert.InDelta(t, 300, b.Total.On.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 170, b.Total.On.ConsumedGiB, 1e-9)
	assert.InDelta(t, 30, b.Total.Off.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 13, b.Total.Off.ConsumedGiB, 1e-9)
	assert.InDelta(t, 330, b.Total.All.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 183, b.Total.All.ConsumedGiB, 1e-9)
}

func TestReconcileStorage_DiskRowsOfPartitionedVMsAreIgnored(t *testing.T) {
	t.Parallel()
	d := storageDataset()
	before := ReconcileStorage(d)

	// vm-1 and vm-2 have partitions, their disks must not matter
	d.Disks = filter(d.Disks, func(disk Disk) bool { return disk.MOID != "vm-1" && disk.MOID != "vm-2" })
	after := ReconcileStorage(d)

	assert.Equal(t, before.Total, after.Total)
}

func TestReconcileStorage_UnknownPowerStateCountsInAll(t *testing.T) {
	t.Parallel()
	b := ReconcileStorage(&Dataset{Disks: []Disk{{MOID: "orphan", CapacityGiB: 10}}})
	assert.Zero(t, b.Total.On.ProvisionedGiB)
	assert.Zero(t, b.Total.Off.ProvisionedGiB)
	assert.InDelta(t, 10, b.Total.All.ProvisionedGiB, 1e-9)
	assert.InDelta(t, 8, b.Total.All.ConsumedGiB, 1e-9)
}

func TestVStorageOverview(t *testing.T) {
	t.Parallel()
	o := VStorageOverview(ReconcileStorage(storageDataset()))
	assert.Equal(t, UnitTiB, o.Unit)
	v, ok := o.Get(BasisConsumedAll)
	assert.True(t, ok)
	assert.InDelta(t, 183.0/1024, v, 1e-12)
	_, ok = o.Get(BasisP95On)
	assert.False(t, ok)
}

func TestUnitRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mib := range []float64{0, 1, 512, 1023.5, 8192, 123456.789, 1 << 30} {
		assert.InDelta(t, mib, GiBToMiB(MiBToGiB(mib)), 1e-9)
		assert.InDelta(t, mib, TiBToGiB(GiBToTiB(mib)), 1e-9)
	}
}

func TestRounding(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 6.0, Ceil(10*0.5*1.2))
	assert.Equal(t, 1.24, CeilTo(1.231, 2))
	assert.Equal(t, 1.23, CeilTo(1.23, 2))
	assert.Equal(t, 1.23, RoundTo(1.2349, 2))
	assert.Equal(t, 2.0, RoundHalfEven(2.5))
	assert.Equal(t, 4.0, RoundHalfEven(3.5))
	assert.Equal(t, "4 vCPU", NewQuantity(4, UnitVCPU).String())
	assert.Equal(t, "1.50 TiB", NewQuantity(1.5, UnitTiB).String())
}
