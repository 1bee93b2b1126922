// Package workbooktest builds in-memory Collector workbooks for tests.
package workbooktest

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/kubev2v/capacity-planner/internal/workbook"
	"github.com/xuri/excelize/v2"
)

type sheet struct {
	headers []string
	rows    []map[string]any
}

// Builder assembles a workbook sheet by sheet. A new Builder carries every
// sheet the reader expects, each with its required headers and no rows.
type Builder struct {
	order  []string
	sheets map[string]*sheet
}

type Row map[string]any

func New() *Builder {
	b := &Builder{sheets: map[string]*sheet{}}
	for _, name := range workbook.Sheets() {
		b.order = append(b.order, name)
		b.sheets[name] = &sheet{headers: workbook.RequiredColumns(name)}
	}
	return b
}

// AddRow appends a row. Columns unknown to the sheet are added to its header.
func (b *Builder) AddRow(sheetName string, row Row) *Builder {
	s, ok := b.sheets[sheetName]
	if !ok {
		s = &sheet{}
		b.sheets[sheetName] = s
		b.order = append(b.order, sheetName)
	}
	for col := range row {
		if !slices.Contains(s.headers, col) {
			s.headers = append(s.headers, col)
		}
	}
	s.rows = append(s.rows, row)
	return b
}

func (b *Builder) DropSheet(sheetName string) *Builder {
	delete(b.sheets, sheetName)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == sheetName })
	return b
}

func (b *Builder) DropColumn(sheetName, column string) *Builder {
	if s, ok := b.sheets[sheetName]; ok {
		s.headers = slices.DeleteFunc(s.headers, func(h string) bool { return h == column })
	}
	return b
}

// Bytes renders the workbook as xlsx.
func (b *Builder) Bytes() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range b.order {
		s := b.sheets[name]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		header := make([]any, len(s.headers))
		for c, h := range s.headers {
			header[c] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, err
		}

		for r, row := range s.rows {
			values := make([]any, len(s.headers))
			for c, h := range s.headers {
				values[c] = row[h]
			}
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", r+2), &values); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBytes is Bytes for fixtures that cannot fail.
func (b *Builder) MustBytes() []byte {
	content, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return content
}

// Sample returns a single-cluster workbook: two hosts with 16 cores at
// 2000 MHz and 50% usage, one powered-on VM with 4 vCPUs and 8 GiB, and one
// powered-off VM with 2 vCPUs and 512 MiB.
func Sample() *Builder {
	return New().
		AddRow(workbook.SheetVCluster, Row{
			"Datacenter": "dc-1", "MOID": "domain-c1", "Cluster Name": "cluster-a",
			"CPU Usage %": 50, "Memory Usage %": 40,
			"95th Percentile Disk Throughput (KBps)": 1000, "95th Percentile IOPS": 300,
			"95th Percentile Number of Reads": 1, "95th Percentile Number of Writes": 2,
		}).
		AddRow(workbook.SheetVHosts, hostRow("domain-c1", 16, 2000, 50, 256, 40, 1)).
		AddRow(workbook.SheetVHosts, hostRow("domain-c1", 16, 2000, 50, 256, 60, 1)).
		AddRow(workbook.SheetVInfo, Row{"VM Name": "vm-on", "Power State": "poweredOn", "Cluster Name": "cluster-a", "MOID": "vm-1"}).
		AddRow(workbook.SheetVInfo, Row{"VM Name": "vm-off", "Power State": "poweredOff", "Cluster Name": "cluster-a", "MOID": "vm-2"}).
		AddRow(workbook.SheetVCPU, Row{
			"vCPUs": 4, "Peak %": 80, "Average %": 20, "Median %": 10,
			"95th Percentile % (recommended)": 50, "Cluster Name": "cluster-a", "MOID": "vm-1",
		}).
		AddRow(workbook.SheetVCPU, Row{"vCPUs": 2, "Cluster Name": "cluster-a", "MOID": "vm-2"}).
		AddRow(workbook.SheetVMemory, Row{
			"Size (MiB)": 8192, "Peak %": 50, "Average %": 25, "Median %": 20,
			"95th Percentile % (recommended)": 40, "Cluster Name": "cluster-a", "MOID": "vm-1",
		}).
		AddRow(workbook.SheetVMemory, Row{"Size (MiB)": 512, "Cluster Name": "cluster-a", "MOID": "vm-2"}).
		AddRow(workbook.SheetVPartition, Row{
			"VM Name": "vm-on", "Power State": "poweredOn", "Consumed (MiB)": 20480, "Capacity (MiB)": 40960,
			"Datacenter Name": "dc-1", "Cluster Name": "cluster-a", "Host Name": "esx-1", "MOID": "vm-1",
		}).
		AddRow(workbook.SheetVMList, Row{
			"VM Name": "vm-on", "Power State": "poweredOn", "Cluster Name": "cluster-a", "MOID": "vm-1",
			"Guest OS": "Ubuntu Linux (64-bit)", "Capacity (MiB)": 40960, "Consumed (MiB)": 20480,
		}).
		AddRow(workbook.SheetVMList, Row{
			"VM Name": "vm-off", "Power State": "poweredOff", "Cluster Name": "cluster-a", "MOID": "vm-2",
			"Guest OS": "", "Capacity (MiB)": 10240, "Consumed (MiB)": 0,
		}).
		AddRow(workbook.SheetVDisk, Row{"VM Name": "vm-on", "Cluster Name": "cluster-a", "MOID": "vm-1", "Capacity (MiB)": 40960}).
		AddRow(workbook.SheetVDisk, Row{"VM Name": "vm-off", "Cluster Name": "cluster-a", "MOID": "vm-2", "Capacity (MiB)": 10240}).
		AddRow(workbook.SheetVSnapshot, Row{"VM Name": "vm-on", "Cluster Name": "cluster-a", "MOID": "vm-1", "Size (MiB)": 1024})
}

func hostRow(clusterMOID string, cores int, speed, cpuUsage, memGiB, memUsage float64, vms int) Row {
	return Row{
		"Cluster": clusterMOID, "CPUs": 2, "VMs": vms, "CPU Cores": cores, "CPU Speed": speed,
		"Cores per CPU": cores / 2, "Memory Size": memGiB, "CPU Usage": cpuUsage, "Memory Usage": memUsage,
	}
}
