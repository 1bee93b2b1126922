package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/service/report/types"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

const notAvailable = "n/a"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

func (r *Renderer) ContentType() string {
	return "text/csv"
}

func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	if data == nil || data.Summary == nil {
		return nil, fmt.Errorf("no summary to render")
	}

	var csvRows [][]string

	csvRows = append(csvRows, []string{"CAPACITY PLANNING REPORT"})
	csvRows = append(csvRows, []string{fmt.Sprintf("Generated: %s at %s",
		data.Timestamps.Generated, data.Timestamps.GeneratedTime)})
	csvRows = append(csvRows, []string{"Source", data.Source})
	csvRows = append(csvRows, []string{"Clusters", strings.Join(data.Summary.Clusters, ", ")})
	csvRows = append(csvRows, []string{""})

	csvRows = r.addRecommendations(csvRows, data.Recommendations)
	csvRows = r.addClusterOverview(csvRows, data.Summary.Overview)
	csvRows = r.addUtilization(csvRows, data.Summary)
	csvRows = r.addHostOverview(csvRows, data.Summary.Hosts)
	csvRows = r.addOverview(csvRows, "VCPU OVERVIEW", data.Overviews.VCPU)
	csvRows = r.addOverview(csvRows, "VMEMORY OVERVIEW", data.Overviews.VMemory)
	csvRows = r.addRatios(csvRows, data.Summary.Ratios)
	csvRows = r.addStorage(csvRows, data.Summary)
	csvRows = r.addTopVMs(csvRows, "TOP VMS BY VCPU", capacity.UnitVCPU, data.Summary.TopCPU)
	csvRows = r.addTopVMs(csvRows, "TOP VMS BY VMEMORY", capacity.UnitGiB, data.Summary.TopMemory)
	csvRows = r.addTopVMs(csvRows, "TOP VMS BY STORAGE", capacity.UnitGiB, data.Summary.TopDisk)
	csvRows = r.addGuestOS(csvRows, data.Summary.GuestOS)
	csvRows = r.addWarnings(csvRows, data.Summary.Warnings)

	return r.convertRowsToCSV(csvRows)
}

func (r *Renderer) addRecommendations(csvRows [][]string, recs []sizing.Recommendation) [][]string {
	csvRows = append(csvRows, []string{"SIZING RECOMMENDATION"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Resource", "Basis", "Growth %", "Basis Value", "Final Value", "Growth Delta", "Savings", "Unit", "Notes"})

	for _, rec := range recs {
		if rec.Basis == "" {
			csvRows = append(csvRows, []string{string(rec.Resource), "", "", "", "", "", "", "", rec.Reason})
			continue
		}
		csvRows = append(csvRows, []string{
			string(rec.Resource),
			rec.BasisLabel,
			formatFloat(rec.Growth, 0),
			formatValue(rec.BasisValue, rec.Unit),
			formatValue(rec.FinalValue, rec.Unit),
			formatValue(rec.GrowthDelta, rec.Unit),
			formatOptional(rec.Savings, 2),
			string(rec.Unit),
			rec.Reason,
		})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addClusterOverview(csvRows [][]string, o capacity.ClusterOverview) [][]string {
	csvRows = append(csvRows, []string{"CLUSTER OVERVIEW"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Metric", "Value"})
	csvRows = append(csvRows, []string{"Datacenters", fmt.Sprintf("%d", o.Datacenters)})
	csvRows = append(csvRows, []string{"Clusters", fmt.Sprintf("%d", o.Clusters)})
	csvRows = append(csvRows, []string{"Hosts", fmt.Sprintf("%d", o.Hosts)})
	csvRows = append(csvRows, []string{"VMs", fmt.Sprintf("%d", o.VMs)})
	csvRows = append(csvRows, []string{"VMs powered on", fmt.Sprintf("%d", o.VMsOn)})
	csvRows = append(csvRows, []string{"VMs powered off", fmt.Sprintf("%d", o.VMsOff)})
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addUtilization(csvRows [][]string, s *capacity.Summary) [][]string {
	csvRows = append(csvRows, []string{"CURRENT UTILIZATION"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Resource", "Total", "Consumed", "Utilization %"})
	csvRows = append(csvRows, []string{
		"CPU (GHz)",
		formatFloat(s.CPU.TotalGHz, 2),
		formatFloat(s.CPU.ConsumedGHz, 2),
		formatOptional(s.CPU.Utilization, 2)})
	csvRows = append(csvRows, []string{
		"Memory (GiB)",
		formatFloat(s.Memory.TotalGiB, 2),
		formatFloat(s.Memory.ConsumedGiB, 2),
		formatOptional(s.Memory.Utilization, 2)})
	csvRows = append(csvRows, []string{
		"Storage (TiB)",
		formatFloat(s.Storage.ProvisionedTiB, 2),
		formatFloat(s.Storage.ConsumedTiB, 2),
		formatOptional(s.Storage.Utilization, 2)})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"IOPS (95th Percentile)", formatFloat(s.IO.IOPS, 0)})
	csvRows = append(csvRows, []string{"Throughput KBps (95th Percentile)", formatFloat(s.IO.ThroughputKBps, 0)})
	csvRows = append(csvRows, []string{"Read %", formatOptional(s.IO.ReadPercent, 0)})
	csvRows = append(csvRows, []string{"Write %", formatOptional(s.IO.WritePercent, 0)})
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addHostOverview(csvRows [][]string, h capacity.HostOverview) [][]string {
	csvRows = append(csvRows, []string{"HOST OVERVIEW"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Metric", "Value"})
	csvRows = append(csvRows, []string{"Hosts", fmt.Sprintf("%d", h.Hosts)})
	csvRows = append(csvRows, []string{"Sockets", fmt.Sprintf("%d", h.Sockets)})
	csvRows = append(csvRows, []string{"Cores", fmt.Sprintf("%d", h.Cores)})
	csvRows = append(csvRows, []string{"Max VMs per host", fmt.Sprintf("%d", h.MaxVMsPerHost)})
	csvRows = append(csvRows, []string{"Avg VMs per host", formatOptional(h.AvgVMsPerHost, 0)})
	csvRows = append(csvRows, []string{"Max cores per host", fmt.Sprintf("%d", h.MaxCoresPerHost)})
	csvRows = append(csvRows, []string{"Max clock (GHz)", formatFloat(capacity.MHzToGHz(h.MaxSpeedMHz), 2)})
	csvRows = append(csvRows, []string{"Avg clock (GHz)", formatOptional(ghz(h.AvgSpeedMHz), 2)})
	csvRows = append(csvRows, []string{"Max CPU usage %", formatFloat(h.MaxCPUUsage, 2)})
	csvRows = append(csvRows, []string{"Avg CPU usage %", formatOptional(h.AvgCPUUsage, 2)})
	csvRows = append(csvRows, []string{"Max memory per host (GiB)", formatFloat(h.MaxMemoryGiB, 2)})
	csvRows = append(csvRows, []string{"Max memory usage %", formatFloat(h.MaxMemoryUsage, 2)})
	csvRows = append(csvRows, []string{"Avg memory usage %", formatOptional(h.AvgMemoryUsage, 2)})
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addOverview(csvRows [][]string, title string, t types.OverviewTable) [][]string {
	csvRows = append(csvRows, []string{title})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"", t.Header})
	for _, row := range t.Rows {
		csvRows = append(csvRows, []string{row.Label, formatFloat(row.Value, 2)})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addRatios(csvRows [][]string, ratios capacity.VCPURatios) [][]string {
	csvRows = append(csvRows, []string{"VCPU PER PHYSICAL CORE"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Population", "All hosts", "N-1 hosts"})
	csvRows = append(csvRows, []string{"Powered on", formatOptional(ratios.PerCoreOn, 2), formatOptional(ratios.PerCoreOnN1, 2)})
	csvRows = append(csvRows, []string{"Powered on and off", formatOptional(ratios.PerCoreAll, 2), formatOptional(ratios.PerCoreAllN1, 2)})
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addStorage(csvRows [][]string, s *capacity.Summary) [][]string {
	csvRows = append(csvRows, []string{"STORAGE ANALYSIS"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Source", "Population", "Provisioned (GiB)", "Consumed (GiB)"})

	splits := []struct {
		name  string
		split capacity.StorageSplit
	}{
		{"vPartition", s.Sources.Partition},
		{"vDisk", s.Sources.Disk},
		{"Blended", s.Blended.Total},
	}
	for _, sp := range splits {
		for _, pop := range []struct {
			name  string
			slice capacity.StorageSlice
		}{{"on", sp.split.On}, {"off", sp.split.Off}, {"all", sp.split.All}} {
			csvRows = append(csvRows, []string{
				sp.name,
				pop.name,
				formatFloat(pop.slice.ProvisionedGiB, 2),
				formatFloat(pop.slice.ConsumedGiB, 2),
			})
		}
	}
	csvRows = append(csvRows, []string{"VMs sized from vDisk", fmt.Sprintf("%d", s.Blended.FallbackVMs)})
	csvRows = append(csvRows, []string{"Snapshots", fmt.Sprintf("%d", s.Sources.Snapshot.Count), formatFloat(s.Sources.Snapshot.SizeGiB, 2)})
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addTopVMs(csvRows [][]string, title string, unit capacity.Unit, vms []capacity.TopVM) [][]string {
	if len(vms) == 0 {
		return csvRows
	}

	csvRows = append(csvRows, []string{title})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"VM Name", "Cluster Name", "MOID", string(unit)})
	for _, vm := range vms {
		csvRows = append(csvRows, []string{vm.Name, vm.ClusterName, vm.MOID, formatValue(vm.Value, unit)})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addGuestOS(csvRows [][]string, census []capacity.GuestOSCount) [][]string {
	if len(census) == 0 {
		return csvRows
	}

	csvRows = append(csvRows, []string{"OPERATING SYSTEM DISTRIBUTION"})
	csvRows = append(csvRows, []string{""})
	csvRows = append(csvRows, []string{"Operating System", "VM Count"})
	for _, os := range census {
		csvRows = append(csvRows, []string{os.Name, fmt.Sprintf("%d", os.Count)})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) addWarnings(csvRows [][]string, warnings []string) [][]string {
	if len(warnings) == 0 {
		return csvRows
	}

	csvRows = append(csvRows, []string{"WARNINGS"})
	csvRows = append(csvRows, []string{""})
	for _, w := range warnings {
		csvRows = append(csvRows, []string{w})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) convertRowsToCSV(csvRows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

func formatFloat(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}

func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return notAvailable
	}
	return formatFloat(*v, decimals)
}

func formatValue(v float64, unit capacity.Unit) string {
	if unit == capacity.UnitVCPU || unit == capacity.UnitCount {
		return formatFloat(v, 0)
	}
	return formatFloat(v, 2)
}

func ghz(mhz *float64) *float64 {
	if mhz == nil {
		return nil
	}
	v := capacity.MHzToGHz(*mhz)
	return &v
}
