package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kubev2v/capacity-planner/pkg/inventory"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Parse reads a Collector workbook and returns its raw tables.
// Every sheet listed in Sheets must be present and carry its required columns.
func Parse(content []byte) (*inventory.Tables, error) {
	excelFile, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, NewErrUnreadableWorkbook(err)
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()

	loaded := make(map[string]*sheetRows, len(sheetOrder))
	for _, name := range sheetOrder {
		s, err := loadSheet(excelFile, sheets, name)
		if err != nil {
			return nil, err
		}
		loaded[name] = s
	}

	tables := &inventory.Tables{}
	if tables.VMs, err = parseVInfo(loaded[SheetVInfo]); err != nil {
		return nil, err
	}
	if tables.CPU, err = parseVCPU(loaded[SheetVCPU]); err != nil {
		return nil, err
	}
	if tables.Memory, err = parseVMemory(loaded[SheetVMemory]); err != nil {
		return nil, err
	}
	if tables.Hosts, err = parseVHosts(loaded[SheetVHosts]); err != nil {
		return nil, err
	}
	if tables.Clusters, err = parseVCluster(loaded[SheetVCluster]); err != nil {
		return nil, err
	}
	if tables.Partitions, err = parseVPartition(loaded[SheetVPartition]); err != nil {
		return nil, err
	}
	if tables.VMList, err = parseVMList(loaded[SheetVMList]); err != nil {
		return nil, err
	}
	if tables.Disks, err = parseVDisk(loaded[SheetVDisk]); err != nil {
		return nil, err
	}
	if tables.Snapshots, err = parseVSnapshot(loaded[SheetVSnapshot]); err != nil {
		return nil, err
	}

	zap.S().Named("workbook").Infow("workbook parsed",
		"vms", len(tables.VMs),
		"hosts", len(tables.Hosts),
		"clusters", len(tables.Clusters),
		"partitions", len(tables.Partitions),
		"disks", len(tables.Disks))

	return tables, nil
}

type sheetRows struct {
	name   string
	colMap map[string]int
	rows   [][]string
}

func loadSheet(excelFile *excelize.File, sheets []string, name string) (*sheetRows, error) {
	rows, err := readSheet(excelFile, sheets, name)
	if err != nil {
		return nil, err
	}

	header, data := splitSheet(rows)
	colMap := buildColumnMap(header)
	for _, col := range requiredColumns[name] {
		if !hasColumn(colMap, col) {
			return nil, NewErrMissingColumn(name, col)
		}
	}

	return &sheetRows{name: name, colMap: colMap, rows: data}, nil
}

func (s *sheetRows) has(column string) bool {
	return hasColumn(s.colMap, column)
}

// each calls fn for every non-empty data row and stops at the first cell error.
func (s *sheetRows) each(fn func(r *rowReader)) error {
	for i, row := range s.rows {
		if isEmptyRow(row) {
			continue
		}
		// header is row 1
		r := &rowReader{sheet: s.name, colMap: s.colMap, row: row, line: i + 2}
		fn(r)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// rowReader decodes cells of one row. The first decoding error is kept and
// later reads become no-ops.
type rowReader struct {
	sheet  string
	colMap map[string]int
	row    []string
	line   int
	err    error
}

func (r *rowReader) text(column string) string {
	return getColumnValue(r.row, r.colMap, column)
}

// number reads a required numeric cell. An empty cell is an error.
func (r *rowReader) number(column string) float64 {
	if r.err != nil {
		return 0
	}
	raw := r.text(column)
	if strings.TrimSpace(raw) == "" {
		r.err = NewErrInvalidCell(r.sheet, column, r.line, errors.New("empty value"))
		return 0
	}
	v, err := parseNumber(raw)
	if err != nil {
		r.err = NewErrInvalidCell(r.sheet, column, r.line, err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.err = NewErrInvalidCell(r.sheet, column, r.line, errors.New("value is not a finite number"))
		return 0
	}
	return v
}

func (r *rowReader) integer(column string) int {
	v := r.number(column)
	if r.err != nil {
		return 0
	}
	if v != math.Trunc(v) {
		r.err = NewErrInvalidCell(r.sheet, column, r.line, fmt.Errorf("value %v is not an integer", v))
		return 0
	}
	return int(v)
}

// percent returns nil when the cell is empty.
func (r *rowReader) percent(column string) *float64 {
	if r.err != nil || strings.TrimSpace(r.text(column)) == "" {
		return nil
	}
	v := r.number(column)
	if r.err != nil {
		return nil
	}
	if v < 0 || v > 100 {
		r.err = NewErrInvalidCell(r.sheet, column, r.line, fmt.Errorf("percentage %v out of range [0,100]", v))
		return nil
	}
	return &v
}

func (r *rowReader) flag(column string) bool {
	return parseBooleanValue(r.text(column))
}

func (r *rowReader) utilization() inventory.Utilization {
	return inventory.Utilization{
		Peak:   r.percent(colPeak),
		Avg:    r.percent(colAverage),
		Median: r.percent(colMedian),
		P95:    r.percent(colP95),
	}
}

func parseVInfo(s *sheetRows) ([]inventory.VM, error) {
	vms := make([]inventory.VM, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		vms = append(vms, inventory.VM{
			MOID:        r.text(colMOID),
			Name:        r.text(colVMName),
			PowerState:  r.text(colPowerState),
			ClusterName: r.text(colClusterName),
		})
	})
	return vms, err
}

func parseVCPU(s *sheetRows) ([]inventory.CPUSample, error) {
	samples := make([]inventory.CPUSample, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		samples = append(samples, inventory.CPUSample{
			MOID:        r.text(colMOID),
			ClusterName: r.text(colClusterName),
			VCPUs:       r.integer(colVCPUs),
			Utilization: r.utilization(),
		})
	})
	return samples, err
}

func parseVMemory(s *sheetRows) ([]inventory.MemorySample, error) {
	samples := make([]inventory.MemorySample, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		samples = append(samples, inventory.MemorySample{
			MOID:        r.text(colMOID),
			ClusterName: r.text(colClusterName),
			SizeMiB:     r.number(colSizeMiB),
			Utilization: r.utilization(),
		})
	})
	return samples, err
}

func parseVHosts(s *sheetRows) ([]inventory.Host, error) {
	hosts := make([]inventory.Host, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		hosts = append(hosts, inventory.Host{
			ClusterMOID: r.text(colCluster),
			Sockets:     r.integer(colCPUs),
			Cores:       r.integer(colCPUCores),
			CoresPerCPU: r.integer(colCoresPerCPU),
			SpeedMHz:    r.number(colCPUSpeed),
			CPUUsage:    r.number(colCPUUsage),
			MemoryGiB:   r.number(colMemorySize),
			MemoryUsage: r.number(colMemoryUsage),
			VMCount:     r.integer(colVMs),
		})
	})
	return hosts, err
}

func parseVCluster(s *sheetRows) ([]inventory.Cluster, error) {
	withPeak := s.has(colPeakThrough) && s.has(colPeakIOPS) && s.has(colPeakReads) && s.has(colPeakWrites)

	clusters := make([]inventory.Cluster, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		c := inventory.Cluster{
			Datacenter:  r.text(colDatacenter),
			MOID:        r.text(colMOID),
			Name:        r.text(colClusterName),
			CPUUsage:    r.number(colCPUUsagePct),
			MemoryUsage: r.number(colMemUsagePct),
			P95: inventory.IOStats{
				ThroughputKBps: r.number(colP95Through),
				IOPS:           r.number(colP95IOPS),
				Reads:          r.number(colP95Reads),
				Writes:         r.number(colP95Writes),
			},
		}
		if withPeak {
			c.Peak = &inventory.IOStats{
				ThroughputKBps: r.number(colPeakThrough),
				IOPS:           r.number(colPeakIOPS),
				Reads:          r.number(colPeakReads),
				Writes:         r.number(colPeakWrites),
			}
		}
		clusters = append(clusters, c)
	})
	return clusters, err
}

func parseVPartition(s *sheetRows) ([]inventory.Partition, error) {
	partitions := make([]inventory.Partition, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		partitions = append(partitions, inventory.Partition{
			MOID:        r.text(colMOID),
			VMName:      r.text(colVMName),
			PowerState:  r.text(colPowerState),
			ConsumedMiB: r.number(colConsumedMiB),
			CapacityMiB: r.number(colCapacityMiB),
			Datacenter:  r.text(colDCName),
			ClusterName: r.text(colClusterName),
			HostName:    r.text(colHostName),
		})
	})
	return partitions, err
}

func parseVMList(s *sheetRows) ([]inventory.VMListEntry, error) {
	entries := make([]inventory.VMListEntry, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		entries = append(entries, inventory.VMListEntry{
			MOID:        r.text(colMOID),
			Name:        r.text(colVMName),
			PowerState:  r.text(colPowerState),
			ClusterName: r.text(colClusterName),
			GuestOS:     r.text(colGuestOS),
			CapacityMiB: r.number(colCapacityMiB),
			ConsumedMiB: r.number(colConsumedMiB),
			Thin:        r.flag(colThin),
		})
	})
	return entries, err
}

func parseVDisk(s *sheetRows) ([]inventory.Disk, error) {
	disks := make([]inventory.Disk, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		disks = append(disks, inventory.Disk{
			MOID:        r.text(colMOID),
			VMName:      r.text(colVMName),
			ClusterName: r.text(colClusterName),
			Label:       r.text(colDisk),
			CapacityMiB: r.number(colCapacityMiB),
			Thin:        r.flag(colThin),
		})
	})
	return disks, err
}

func parseVSnapshot(s *sheetRows) ([]inventory.Snapshot, error) {
	snapshots := make([]inventory.Snapshot, 0, len(s.rows))
	err := s.each(func(r *rowReader) {
		snapshots = append(snapshots, inventory.Snapshot{
			MOID:        r.text(colMOID),
			VMName:      r.text(colVMName),
			ClusterName: r.text(colClusterName),
			SizeMiB:     r.number(colSizeMiB),
		})
	})
	return snapshots, err
}
