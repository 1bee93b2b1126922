package capacity

import "github.com/kubev2v/capacity-planner/pkg/inventory"

// FallbackConsumedRatio is the share of disk capacity assumed consumed for
// VMs without partition data.
const FallbackConsumedRatio = 0.8

type StorageSlice struct {
	ProvisionedGiB float64 `json:"provisionedGiB"`
	ConsumedGiB    float64 `json:"consumedGiB"`
}

func (s StorageSlice) add(o StorageSlice) StorageSlice {
	return StorageSlice{ProvisionedGiB: s.ProvisionedGiB + o.ProvisionedGiB, ConsumedGiB: s.ConsumedGiB + o.ConsumedGiB}
}

// StorageSplit splits storage figures by VM power state. All also counts
// VMs whose power state is neither on nor off.
type StorageSplit struct {
	On  StorageSlice `json:"on"`
	Off StorageSlice `json:"off"`
	All StorageSlice `json:"all"`
}

func (s *StorageSplit) add(powerState string, v StorageSlice) {
	switch powerState {
	case inventory.PoweredOn:
		s.On = s.On.add(v)
	case inventory.PoweredOff:
		s.Off = s.Off.add(v)
	}
	s.All = s.All.add(v)
}

func (s StorageSplit) sum(o StorageSplit) StorageSplit {
	return StorageSplit{On: s.On.add(o.On), Off: s.Off.add(o.Off), All: s.All.add(o.All)}
}

// BlendedStorage merges partition figures with disk figures of the VMs that
// have no partition rows.
type BlendedStorage struct {
	Partition   StorageSplit `json:"partition"`
	Fallback    StorageSplit `json:"fallback"`
	Total       StorageSplit `json:"total"`
	FallbackVMs int          `json:"fallbackVMs"`
}

// ReconcileStorage computes the blended VM storage of a dataset. A VM with at
// least one partition row only contributes its partition figures. The disks
// of every other VM count fully as provisioned and FallbackConsumedRatio of
// their capacity as consumed.
func ReconcileStorage(d *Dataset) BlendedStorage {
	var b BlendedStorage

	withPartitions := make(map[string]struct{}, len(d.Partitions))
	for _, p := range d.Partitions {
		withPartitions[p.MOID] = struct{}{}
		b.Partition.add(p.PowerState, StorageSlice{ProvisionedGiB: p.CapacityGiB, ConsumedGiB: p.ConsumedGiB})
	}

	fallbackVMs := map[string]struct{}{}
	for _, disk := range d.Disks {
		if _, ok := withPartitions[disk.MOID]; ok {
			continue
		}
		fallbackVMs[disk.MOID] = struct{}{}
		b.Fallback.add(disk.PowerState, StorageSlice{
			ProvisionedGiB: disk.CapacityGiB,
			ConsumedGiB:    disk.CapacityGiB * FallbackConsumedRatio,
		})
	}

	b.FallbackVMs = len(fallbackVMs)
	b.Total = b.Partition.sum(b.Fallback)
	return b
}
