package events

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("buffer", func() {
	It("keeps the messages in order", func() {
		buffer := newBuffer()

		for _, d := range []string{"msg1", "msg2", "msg3"} {
			Expect(buffer.PushBack(&message{Kind: DatasetMessageKind, Data: []byte(d)})).To(Succeed())
		}
		Expect(buffer.Size()).To(Equal(3))
		Expect(buffer.head.Data).To(Equal([]byte("msg1")))
		Expect(buffer.tail.Data).To(Equal([]byte("msg3")))

		for i, d := range []string{"msg1", "msg2", "msg3"} {
			m := buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte(d)))
			Expect(buffer.Size()).To(Equal(2 - i))
		}

		Expect(buffer.head).To(BeNil())
		Expect(buffer.tail).To(BeNil())
		Expect(buffer.Pop()).To(BeNil())
	})

	It("accepts messages after being emptied", func() {
		buffer := newBuffer()
		Expect(buffer.PushBack(&message{Kind: ReportMessageKind, Data: []byte("msg1")})).To(Succeed())
		Expect(buffer.Pop()).NotTo(BeNil())

		Expect(buffer.PushBack(&message{Kind: ReportMessageKind, Data: []byte("msg2")})).To(Succeed())
		Expect(buffer.head).To(BeIdenticalTo(buffer.tail))
		Expect(buffer.Pop().Data).To(Equal([]byte("msg2")))
	})
})
