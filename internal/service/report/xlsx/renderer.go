package xlsx

import (
	"fmt"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/service/report/types"
	"github.com/xuri/excelize/v2"
)

const (
	SheetDetails  = "VM Details"
	SheetOverview = "Uebersicht"
	SheetNotes    = "Anmerkungen"

	detailsTable = "VMDetails"
	notAvailable = "nicht vorhanden"

	// Rows are 1-based like the cells they address.
	detailsHeaderRow = 5
	vcpuHeaderRow    = 5
	vmemoryHeaderRow = 22
	sizingHeaderRow  = 39
)

var (
	detailsColumns = []string{
		"VM Name", "Power State", "Cluster Name", "MOID",
		"vCPUs", "vCPU Peak %", "vCPU Average %", "vCPU Median %", "vCPU 95th Percentile %",
		"vCPU Peak #", "vCPU Average #", "vCPU Median #", "vCPU 95th Percentile #",
		"vMemory Size (GiB)", "vMemory Peak %", "vMemory Average %", "vMemory Median %", "vMemory 95th Percentile %",
		"vMemory Peak #", "vMemory Average #", "vMemory Median #", "vMemory 95th Percentile #",
	}

	// chart bar colors
	vcpuColor    = "F36D21"
	vmemoryColor = "034EA2"

	notes = []string{
		"Diese Analyse basiert auf einer Nutanix Collector Auswertung. Diese kann neben den zugewiesenen vCPU & vMemory Ressourcen an die VMs ebenfalls die Performance Werte der letzten 7 Tage in 30 Minuten Intervallen aus vCenter / Nutanix Prism auslesen und bietet anhand dessen eine Möglichkeit für VM Right-Sizing Empfehlungen.",
		"Stellen Sie bitte sicher, dass die Auswertung für einen repräsentativen Zeitraum durchgeführt wurde. Für die ausgeschalteten VMs stehen (abhängig davon, wie lange diese bereits ausgeschaltet sind) i.d.R. keine Performance Werte (Peak, Average, Median oder 95th Percentile) zur Verfügung - in diesem Fall werden die provisionierten / zugewiesenen Werte verwendet.",
		"Auch werden bei allen Performance-basierten Werten 20% zusätzlicher Puffer mit eingerechnet. Generell ist die Empfehlung sich bei den Performance Werten an den 95th Percentile Werten zu orientieren, da diese die tatsächliche Auslastung am besten repräsentieren und nicht durch ggf. kurzzeitige Lastspitzen verfälscht werden.",
		"Die gezeigten Empfehlungen orientieren sich rein an der vCPU & vMemory Auslastung der VM ohne die darin laufenden Anwendungen & deren Anforderungen zu berücksichtigen. Daher obliegt Ihnen eine abschließende Bewertung, ob die getroffenen Right Sizing Empfehlungen bei Ihnen durchführbar bzw. supported sind.",
		"Solch ein VM Right Sizing bietet sich vor der Beschaffung einer neuen Infrastruktur an, sollte aber auch darüber hinaus regelmäßig und wiederkehrend durchgeführt werden.",
	}
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes the details, overview and notes sheets.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	if data == nil || data.Summary == nil {
		return nil, fmt.Errorf("no summary to render")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	s, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetDetails); err != nil {
		return nil, err
	}
	if err := r.writeDetails(f, s, data.Details); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", SheetDetails, err)
	}
	if err := r.writeOverview(f, s, data); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", SheetOverview, err)
	}
	if err := r.writeNotes(f, s, data.Summary.Warnings); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", SheetNotes, err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header    int
	subheader int
	wrap      int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "034EA2", Size: 18}})
	if err != nil {
		return nil, err
	}
	subheader, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "000000", Size: 14}})
	if err != nil {
		return nil, err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}
	return &styles{header: header, subheader: subheader, wrap: wrap}, nil
}

func (r *Renderer) writeDetails(f *excelize.File, s *styles, details []capacity.VMDetail) error {
	lastCol, err := excelize.ColumnNumberToName(len(detailsColumns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetDetails, "A", lastCol, 25); err != nil {
		return err
	}
	if err := writeCell(f, SheetDetails, "A1", "VM Right Sizing Analyse - VM Details", s.header); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetDetails, "A3", "Bitte Anmerkungen auf gesondertem Tabellenblatt beachten."); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(detailsColumns))
	for _, c := range detailsColumns {
		header = append(header, c)
	}
	if err := setRow(f, SheetDetails, detailsHeaderRow, header); err != nil {
		return err
	}
	for i, d := range details {
		if err := setRow(f, SheetDetails, detailsHeaderRow+1+i, detailRow(d)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetDetails, &excelize.Panes{
		Freeze:      true,
		YSplit:      detailsHeaderRow,
		TopLeftCell: fmt.Sprintf("A%d", detailsHeaderRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	// a table needs at least one data row
	if len(details) == 0 {
		return nil
	}
	return f.AddTable(SheetDetails, &excelize.Table{
		Range:     fmt.Sprintf("A%d:%s%d", detailsHeaderRow, lastCol, detailsHeaderRow+len(details)),
		Name:      detailsTable,
		StyleName: "TableStyleMedium2",
	})
}

func detailRow(d capacity.VMDetail) []interface{} {
	row := []interface{}{d.VM.Name, d.VM.PowerState, d.VM.ClusterName, d.VM.MOID}
	if d.CPU != nil {
		u, e := d.CPU.Utilization, d.CPU.Estimates
		row = append(row, d.CPU.VCPUs,
			percent(u.Peak), percent(u.Avg), percent(u.Median), percent(u.P95),
			e.Peak, e.Avg, e.Median, e.P95)
	} else {
		row = append(row, missing(9)...)
	}
	if d.Memory != nil {
		u, e := d.Memory.Utilization, d.Memory.Estimates
		row = append(row, capacity.RoundTo(d.Memory.SizeGiB, 2),
			percent(u.Peak), percent(u.Avg), percent(u.Median), percent(u.P95),
			capacity.RoundTo(e.Peak, 2), capacity.RoundTo(e.Avg, 2), capacity.RoundTo(e.Median, 2), capacity.RoundTo(e.P95, 2))
	} else {
		row = append(row, missing(9)...)
	}
	return row
}

func (r *Renderer) writeOverview(f *excelize.File, s *styles, data *types.ReportData) error {
	if _, err := f.NewSheet(SheetOverview); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetOverview, "A", "B", 25); err != nil {
		return err
	}
	if err := writeCell(f, SheetOverview, "A1", "VM Right Sizing Analyse - Uebersicht", s.header); err != nil {
		return err
	}
	if err := writeCell(f, SheetOverview, "A3", "vCPU Gesamt-Auswertung:", s.subheader); err != nil {
		return err
	}
	if err := writeCell(f, SheetOverview, "A20", "vMemory Gesamt-Auswertung:", s.subheader); err != nil {
		return err
	}

	if err := writeOverviewTable(f, vcpuHeaderRow, data.Overviews.VCPU); err != nil {
		return err
	}
	if err := writeOverviewTable(f, vmemoryHeaderRow, data.Overviews.VMemory); err != nil {
		return err
	}

	if err := addColumnChart(f, "D3", "vCPU", vcpuHeaderRow, len(data.Overviews.VCPU.Rows), vcpuColor); err != nil {
		return err
	}
	if err := addColumnChart(f, "D20", "vMemory", vmemoryHeaderRow, len(data.Overviews.VMemory.Rows), vmemoryColor); err != nil {
		return err
	}

	return r.writeSizing(f, s, data)
}

func writeOverviewTable(f *excelize.File, headerRow int, t types.OverviewTable) error {
	if err := setRow(f, SheetOverview, headerRow, []interface{}{"", t.Header}); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, SheetOverview, headerRow+1+i, []interface{}{row.Label, row.Value}); err != nil {
			return err
		}
	}
	return nil
}

func addColumnChart(f *excelize.File, anchor, title string, headerRow, rows int, color string) error {
	if rows == 0 {
		return nil
	}
	first, last := headerRow+1, headerRow+rows
	return f.AddChart(SheetOverview, anchor, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$%d", SheetOverview, headerRow),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", SheetOverview, first, last),
				Values:     fmt.Sprintf("%s!$B$%d:$B$%d", SheetOverview, first, last),
				Fill:       excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			},
		},
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func (r *Renderer) writeSizing(f *excelize.File, s *styles, data *types.ReportData) error {
	if len(data.Recommendations) == 0 {
		return nil
	}
	if err := writeCell(f, SheetOverview, fmt.Sprintf("A%d", sizingHeaderRow-2), "Sizing Empfehlung:", s.subheader); err != nil {
		return err
	}
	header := []interface{}{"Ressource", "Basis", "Wachstum %", "Basiswert", "Empfehlung", "Differenz", "Einheit"}
	if err := setRow(f, SheetOverview, sizingHeaderRow, header); err != nil {
		return err
	}
	for i, rec := range data.Recommendations {
		row := []interface{}{string(rec.Resource), rec.BasisLabel, rec.Growth, rec.BasisValue, rec.FinalValue, rec.GrowthDelta, string(rec.Unit)}
		if rec.Basis == "" {
			row = []interface{}{string(rec.Resource), rec.Reason}
		}
		if err := setRow(f, SheetOverview, sizingHeaderRow+1+i, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeNotes(f *excelize.File, s *styles, warnings []string) error {
	if _, err := f.NewSheet(SheetNotes); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetNotes, "A", "A", 150); err != nil {
		return err
	}
	if err := writeCell(f, SheetNotes, "A1", "Anmerkungen", s.header); err != nil {
		return err
	}
	row := 3
	for _, text := range append(append([]string{}, notes...), warnings...) {
		if err := writeCell(f, SheetNotes, fmt.Sprintf("A%d", row), text, s.wrap); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeCell(f *excelize.File, sheet, cell string, value interface{}, style int) error {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func percent(v *float64) interface{} {
	if v == nil {
		return notAvailable
	}
	return *v
}

func missing(n int) []interface{} {
	res := make([]interface{}, n)
	for i := range res {
		res[i] = notAvailable
	}
	return res
}
