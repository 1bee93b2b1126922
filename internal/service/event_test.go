package service_test

import (
	"context"
	"encoding/json"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/events"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/internal/sizing"
	"github.com/kubev2v/capacity-planner/internal/workbook/workbooktest"
)

type recordedEvent struct {
	kind string
	data []byte
}

type recordingWriter struct {
	events []recordedEvent
}

func (r *recordingWriter) Write(_ context.Context, kind string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	r.events = append(r.events, recordedEvent{kind: kind, data: data})
	return nil
}

var _ = Describe("planner events", func() {
	var (
		ctx    context.Context
		writer *recordingWriter
		srv    *service.PlannerService
	)

	BeforeEach(func() {
		ctx = context.TODO()
		writer = &recordingWriter{}
		srv = service.NewPlannerService(cache.New(2),
			service.WithEventWriter(writer),
			service.WithUploader(&fakeUploader{}),
		)
	})

	It("reports every load", func() {
		content := workbooktest.Sample().MustBytes()
		_, err := srv.Load(ctx, "sample.xlsx", content)
		Expect(err).To(BeNil())
		_, err = srv.Load(ctx, "sample.xlsx", content)
		Expect(err).To(BeNil())

		Expect(writer.events).To(HaveLen(2))
		Expect(writer.events[0].kind).To(Equal(events.DatasetMessageKind))

		var first, second events.DatasetEvent
		Expect(json.Unmarshal(writer.events[0].data, &first)).To(Succeed())
		Expect(json.Unmarshal(writer.events[1].data, &second)).To(Succeed())
		Expect(first.Name).To(Equal("sample.xlsx"))
		Expect(first.VMs).To(Equal(2))
		Expect(first.Cached).To(BeFalse())
		Expect(second.Cached).To(BeTrue())
	})

	It("does not report a failed load", func() {
		_, err := srv.Load(ctx, "broken.xlsx", []byte("broken"))
		Expect(err).NotTo(BeNil())
		Expect(writer.events).To(BeEmpty())
	})

	It("reports exports and publications once", func() {
		ds, err := srv.Load(ctx, "sample.xlsx", workbooktest.Sample().MustBytes())
		Expect(err).To(BeNil())

		_, err = srv.Export(ctx, ds.ID, sizing.DefaultSelection(), service.ReportFormat("csv"))
		Expect(err).To(BeNil())
		location, err := srv.Publish(ctx, ds.ID, sizing.DefaultSelection(), service.ReportFormat("xlsx"))
		Expect(err).To(BeNil())

		Expect(writer.events).To(HaveLen(3))

		var exported, published events.ReportEvent
		Expect(writer.events[1].kind).To(Equal(events.ReportMessageKind))
		Expect(json.Unmarshal(writer.events[1].data, &exported)).To(Succeed())
		Expect(exported.Format).To(Equal("csv"))
		Expect(exported.Location).To(BeEmpty())
		Expect(exported.Clusters).To(Equal([]string{"cluster-a"}))

		Expect(json.Unmarshal(writer.events[2].data, &published)).To(Succeed())
		Expect(published.Format).To(Equal("xlsx"))
		Expect(published.Location).To(Equal(location))
		Expect(published.Size).To(BeNumerically(">", 0))
	})
})
