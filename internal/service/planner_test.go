package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/internal/service/report/xlsx"
	"github.com/kubev2v/capacity-planner/internal/sizing"
	"github.com/kubev2v/capacity-planner/internal/workbook"
	"github.com/kubev2v/capacity-planner/internal/workbook/workbooktest"
)

func TestService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Service Suite")
}

type fakeUploader struct {
	name        string
	contentType string
	size        int
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, name string, content []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.name, f.contentType, f.size = name, contentType, len(content)
	return "s3://reports/" + name, nil
}

var _ = Describe("PlannerService", func() {
	var (
		ctx     context.Context
		srv     *service.PlannerService
		content []byte
	)

	BeforeEach(func() {
		ctx = context.TODO()
		srv = service.NewPlannerService(cache.New(4))
		content = workbooktest.Sample().MustBytes()
	})

	Describe("Load", func() {
		It("should load a workbook", func() {
			ds, err := srv.Load(ctx, "collector.xlsx", content)
			Expect(err).To(BeNil())
			Expect(ds.ID).To(Equal(cache.KeyOf(content)))
			Expect(ds.Name).To(Equal("collector.xlsx"))
			Expect(ds.Clusters).To(Equal([]string{"cluster-a"}))
			Expect(ds.VMs).To(Equal(2))
			Expect(ds.Hosts).To(Equal(2))
			Expect(ds.Cached).To(BeFalse())
		})

		It("should serve the same bytes from the cache", func() {
			first, err := srv.Load(ctx, "a.xlsx", content)
			Expect(err).To(BeNil())
			second, err := srv.Load(ctx, "b.xlsx", content)
			Expect(err).To(BeNil())
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Cached).To(BeTrue())
		})

		It("should reject a file which is not a workbook", func() {
			_, err := srv.Load(ctx, "notes.txt", []byte("hello"))
			Expect(err).To(HaveOccurred())
			var malformed *service.ErrMalformedWorkbook
			Expect(errors.As(err, &malformed)).To(BeTrue())
		})

		It("should report the missing sheet", func() {
			_, err := srv.Load(ctx, "broken.xlsx", workbooktest.Sample().DropSheet(workbook.SheetVHosts).MustBytes())
			var missing *workbook.ErrMissingSheet
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(workbook.SheetVHosts))
		})

		It("should reject duplicate VM ids", func() {
			b := workbooktest.Sample().
				AddRow(workbook.SheetVInfo, workbooktest.Row{"VM Name": "dup", "Power State": "poweredOn", "Cluster Name": "cluster-a", "MOID": "vm-1"})
			_, err := srv.Load(ctx, "dup.xlsx", b.MustBytes())
			var malformed *service.ErrMalformedWorkbook
			Expect(errors.As(err, &malformed)).To(BeTrue())
		})
	})

	Context("with a loaded workbook", func() {
		var id cache.Key

		BeforeEach(func() {
			ds, err := srv.Load(ctx, "collector.xlsx", content)
			Expect(err).To(BeNil())
			id = ds.ID
		})

		Describe("Analyze", func() {
			It("should size every resource with the defaults", func() {
				a, err := srv.Analyze(ctx, id, sizing.DefaultSelection())
				Expect(err).To(BeNil())
				Expect(a.Recommendations).To(HaveLen(3))

				cpu := a.Recommendations[0]
				Expect(cpu.Resource).To(Equal(sizing.ResourceCPU))
				Expect(cpu.Basis).To(Equal(capacity.BasisP95On))
				Expect(cpu.BasisValue).To(Equal(3.0))
				Expect(cpu.FinalValue).To(Equal(4.0))
				Expect(*cpu.Savings).To(Equal(1.0))

				memory := a.Recommendations[1]
				Expect(memory.BasisValue).To(Equal(8.0))
				Expect(memory.FinalValue).To(Equal(10.4))

				storage := a.Recommendations[2]
				Expect(storage.Unit).To(Equal(capacity.UnitTiB))
				// 20 GiB consumed on partitions plus 80% of the 10 GiB disk of vm-off
				Expect(storage.BasisValue).To(Equal(0.03))
				Expect(storage.FinalValue).To(Equal(0.04))
			})

			It("should aggregate the selected cluster", func() {
				a, err := srv.Analyze(ctx, id, sizing.Selection{Clusters: []string{"cluster-a"}})
				Expect(err).To(BeNil())
				Expect(a.Summary.CPU.TotalGHz).To(BeNumerically("~", 64, 1e-9))
				Expect(*a.Summary.CPU.Utilization).To(BeNumerically("~", 50, 1e-9))
				Expect(*a.Summary.IO.ReadPercent).To(Equal(33.0))
				Expect(*a.Summary.IO.WritePercent).To(Equal(67.0))
				Expect(a.Summary.Overview.VMsOn).To(Equal(1))
				Expect(a.Summary.Overview.VMsOff).To(Equal(1))
			})

			It("should be deterministic", func() {
				first, err := srv.Analyze(ctx, id, sizing.DefaultSelection())
				Expect(err).To(BeNil())
				second, err := srv.Analyze(ctx, id, sizing.DefaultSelection())
				Expect(err).To(BeNil())
				Expect(second.Summary).To(Equal(first.Summary))
				Expect(second.Recommendations).To(Equal(first.Recommendations))
			})

			It("should fail for an unknown cluster", func() {
				_, err := srv.Analyze(ctx, id, sizing.Selection{Clusters: []string{"cluster-z"}})
				var empty *service.ErrEmptySelection
				Expect(errors.As(err, &empty)).To(BeTrue())
			})

			It("should fail for an unknown dataset", func() {
				_, err := srv.Analyze(ctx, cache.KeyOf([]byte("other")), sizing.DefaultSelection())
				var notFound *service.ErrDatasetNotFound
				Expect(errors.As(err, &notFound)).To(BeTrue())
			})

			It("should report a failing resource without failing the analysis", func() {
				sel := sizing.DefaultSelection()
				sel.Storage.Basis = capacity.BasisP95On
				a, err := srv.Analyze(ctx, id, sel)
				Expect(err).To(BeNil())
				Expect(a.Recommendations[2].Reason).To(HavePrefix("Error:"))
				Expect(a.Recommendations[0].FinalValue).To(Equal(4.0))
			})
		})

		Describe("Clusters and Forget", func() {
			It("should list the clusters", func() {
				clusters, err := srv.Clusters(ctx, id)
				Expect(err).To(BeNil())
				Expect(clusters).To(ConsistOf("cluster-a"))
			})

			It("should forget a dataset", func() {
				Expect(srv.Forget(ctx, id)).To(Succeed())
				_, err := srv.Get(ctx, id)
				var notFound *service.ErrDatasetNotFound
				Expect(errors.As(err, &notFound)).To(BeTrue())
				Expect(srv.Forget(ctx, id)).NotTo(Succeed())
			})
		})

		Describe("Export", func() {
			It("should render the workbook", func() {
				artifact, err := srv.Export(ctx, id, sizing.DefaultSelection(), service.ReportFormatXLSX)
				Expect(err).To(BeNil())
				Expect(artifact.Name).To(HaveSuffix(".xlsx"))
				Expect(workbook.IsExcelFile(artifact.Content)).To(BeTrue())

				f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
				Expect(err).To(BeNil())
				defer f.Close()

				Expect(f.GetSheetList()).To(Equal([]string{xlsx.SheetDetails, xlsx.SheetOverview, xlsx.SheetNotes}))

				title, err := f.GetCellValue(xlsx.SheetDetails, "A1")
				Expect(err).To(BeNil())
				Expect(title).To(Equal("VM Right Sizing Analyse - VM Details"))

				header, err := f.GetCellValue(xlsx.SheetDetails, "A5")
				Expect(err).To(BeNil())
				Expect(header).To(Equal("VM Name"))
				firstVM, err := f.GetCellValue(xlsx.SheetDetails, "A6")
				Expect(err).To(BeNil())
				Expect(firstVM).To(Equal("vm-on"))
				p95, err := f.GetCellValue(xlsx.SheetDetails, "M6")
				Expect(err).To(BeNil())
				Expect(p95).To(Equal("3"))
				noSample, err := f.GetCellValue(xlsx.SheetDetails, "I7")
				Expect(err).To(BeNil())
				Expect(noSample).To(Equal("nicht vorhanden"))

				label, err := f.GetCellValue(xlsx.SheetOverview, "A10")
				Expect(err).To(BeNil())
				Expect(label).To(Equal("# vCPUs (95th Percentile)"))
				value, err := f.GetCellValue(xlsx.SheetOverview, "B10")
				Expect(err).To(BeNil())
				Expect(value).To(Equal("3"))
				memLabel, err := f.GetCellValue(xlsx.SheetOverview, "A23")
				Expect(err).To(BeNil())
				Expect(memLabel).To(Equal("# vMemory (provisioned)"))

				notes, err := f.GetCellValue(xlsx.SheetNotes, "A1")
				Expect(err).To(BeNil())
				Expect(notes).To(Equal("Anmerkungen"))
			})

			It("should render the csv summary", func() {
				artifact, err := srv.Export(ctx, id, sizing.DefaultSelection(), service.ReportFormatCSV)
				Expect(err).To(BeNil())
				Expect(artifact.ContentType).To(Equal("text/csv"))

				r := csv.NewReader(bytes.NewReader(artifact.Content))
				r.FieldsPerRecord = -1
				rows, err := r.ReadAll()
				Expect(err).To(BeNil())
				Expect(rows[0]).To(Equal([]string{"CAPACITY PLANNING REPORT"}))
				Expect(rows).To(ContainElement([]string{"cpu", "95th Percentile (on)", "10", "3", "4", "1", "1.00", "vCPU", "3 vCPU of 95th Percentile (on) grown by 10%"}))
				Expect(rows).To(ContainElement([]string{"VMs powered off", "1"}))
			})

			It("should reject an unknown format", func() {
				_, err := srv.Export(ctx, id, sizing.DefaultSelection(), "pdf")
				var unsupported *service.ErrUnsupportedFormat
				Expect(errors.As(err, &unsupported)).To(BeTrue())
			})
		})

		Describe("Publish", func() {
			It("should fail without object store", func() {
				_, err := srv.Publish(ctx, id, sizing.DefaultSelection(), service.ReportFormatCSV)
				var notConfigured *service.ErrUploadNotConfigured
				Expect(errors.As(err, &notConfigured)).To(BeTrue())
			})

			It("should upload the rendered report", func() {
				uploader := &fakeUploader{}
				srv = service.NewPlannerService(cache.New(4), service.WithUploader(uploader))
				ds, err := srv.Load(ctx, "collector.xlsx", content)
				Expect(err).To(BeNil())

				location, err := srv.Publish(ctx, ds.ID, sizing.DefaultSelection(), service.ReportFormatXLSX)
				Expect(err).To(BeNil())
				Expect(location).To(Equal("s3://reports/" + uploader.name))
				Expect(uploader.size).To(BeNumerically(">", 0))
				Expect(uploader.contentType).To(ContainSubstring("spreadsheetml"))
			})
		})
	})
})
