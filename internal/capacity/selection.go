package capacity

// Filter returns the part of the dataset that belongs to the named clusters.
// An empty list selects every cluster. ErrEmptySelection is returned when the
// result has no cluster or no VM.
func (d *Dataset) Filter(clusters []string) (*Dataset, error) {
	out := d
	if len(clusters) > 0 {
		keep := make(map[string]struct{}, len(clusters))
		for _, c := range clusters {
			keep[c] = struct{}{}
		}
		in := func(name string) bool {
			_, ok := keep[name]
			return ok
		}

		out = &Dataset{
			VMs:        filter(d.VMs, func(r VM) bool { return in(r.ClusterName) }),
			CPU:        filter(d.CPU, func(r CPURow) bool { return in(r.ClusterName) }),
			Memory:     filter(d.Memory, func(r MemoryRow) bool { return in(r.ClusterName) }),
			Hosts:      filter(d.Hosts, func(r Host) bool { return in(r.ClusterName) }),
			Clusters:   filter(d.Clusters, func(r Cluster) bool { return in(r.Name) }),
			Partitions: filter(d.Partitions, func(r Partition) bool { return in(r.ClusterName) }),
			VMList:     filter(d.VMList, func(r VMListRow) bool { return in(r.ClusterName) }),
			Disks:      filter(d.Disks, func(r Disk) bool { return in(r.ClusterName) }),
			Snapshots:  filter(d.Snapshots, func(r Snapshot) bool { return in(r.ClusterName) }),
		}
	}

	if len(out.Clusters) == 0 || len(out.VMs) == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
