package capacity

// VMDetail is the per-VM row of the exported details table: the VM joined
// with its vCPU and vMemory samples by MOID.
type VMDetail struct {
	VM     VM
	CPU    *CPURow
	Memory *MemoryRow
}

// Details joins every VM with its CPU and memory row, in vInfo order. A VM
// without samples keeps a nil row.
func (d *Dataset) Details() []VMDetail {
	cpu := make(map[string]*CPURow, len(d.CPU))
	for i := range d.CPU {
		if _, found := cpu[d.CPU[i].MOID]; !found {
			cpu[d.CPU[i].MOID] = &d.CPU[i]
		}
	}
	memory := make(map[string]*MemoryRow, len(d.Memory))
	for i := range d.Memory {
		if _, found := memory[d.Memory[i].MOID]; !found {
			memory[d.Memory[i].MOID] = &d.Memory[i]
		}
	}

	details := make([]VMDetail, 0, len(d.VMs))
	for _, vm := range d.VMs {
		details = append(details, VMDetail{VM: vm, CPU: cpu[vm.MOID], Memory: memory[vm.MOID]})
	}
	return details
}
