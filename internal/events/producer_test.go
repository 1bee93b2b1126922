package events

import (
	"bytes"
	"context"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", func() {
	It("writes the messages as cloud events", func() {
		w := newTestWriter()
		p := NewEventProducer(w, WithOutputTopic("planner"))

		Expect(p.Write(context.TODO(), DatasetMessageKind, bytes.NewReader([]byte(`{"dataset_id":"a"}`)))).To(Succeed())
		Expect(p.Write(context.TODO(), ReportMessageKind, bytes.NewReader([]byte(`{"dataset_id":"b"}`)))).To(Succeed())

		Eventually(w.Events).Should(HaveLen(2))

		events := w.Events()
		Expect(events[0].Type()).To(Equal(DatasetMessageKind))
		Expect(events[0].Source()).To(Equal("capacity.planner"))
		Expect(string(events[0].Data())).To(Equal(`{"dataset_id":"a"}`))
		Expect(events[1].Type()).To(Equal(ReportMessageKind))
		Expect(w.topic).To(Equal("planner"))

		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})

	It("flushes pending messages on close", func() {
		w := newTestWriter()
		p := NewEventProducer(w)
		for i := 0; i < 50; i++ {
			Expect(p.Write(context.TODO(), DatasetMessageKind, bytes.NewReader([]byte("{}")))).To(Succeed())
		}

		Expect(p.Close()).To(Succeed())
		Expect(w.Events()).To(HaveLen(50))
		Expect(w.topic).To(Equal(defaultTopic))
	})

	It("can be closed more than once", func() {
		w := newTestWriter()
		p := NewEventProducer(w)
		Expect(p.Write(context.TODO(), DatasetMessageKind, bytes.NewReader([]byte("{}")))).To(Succeed())

		Expect(p.Close()).To(Succeed())
		Expect(p.Close()).To(Succeed())
		Expect(w.Events()).To(HaveLen(1))
		Expect(w.closes).To(Equal(1))
	})
})

type testwriter struct {
	lock   sync.Mutex
	events []cloudevents.Event
	topic  string
	closed bool
	closes int
}

func newTestWriter() *testwriter {
	return &testwriter{events: []cloudevents.Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.events = append(t.events, e)
	t.topic = topic
	return nil
}

func (t *testwriter) Events() []cloudevents.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]cloudevents.Event{}, t.events...)
}

func (t *testwriter) Close(_ context.Context) error {
	t.closed = true
	t.closes++
	return nil
}
