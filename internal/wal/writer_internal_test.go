package wal

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dto "github.com/prometheus/client_model/go"

	"github.com/backbone81/record-log/internal/segment"
	"github.com/backbone81/record-log/internal/utils"
)

var _ = Describe("Writer", func() {
	var file *utils.SegmentFileMemory
	var writer *Writer

	BeforeEach(func() {
		file = &utils.SegmentFileMemory{}
		writer = newWriter(WithSyncPolicyImmediate())
		segmentWriter, err := segment.NewFileSegmentWriter(file, 0, writer.syncPolicy)
		Expect(err).ToNot(HaveOccurred())
		writer.segmentWriter = segmentWriter
	})

	readAll := func() [][]byte {
		reader := segment.NewSegmentReader(&utils.SegmentFileMemory{
			Data: file.Data,
		})
		var result [][]byte
		for reader.Next() {
			result = append(result, append([]byte{}, reader.Value().Data...))
		}
		Expect(reader.Err()).To(MatchError(io.EOF))
		return result
	}

	It("should remove a torn record and continue writing", func() {
		Expect(writer.AddRecord([]byte("foo"))).To(Succeed())
		length := writer.Length()

		file.LimitWrites = true
		file.WriteBudget = 5
		Expect(writer.AddRecord(make([]byte, 100))).To(MatchError(utils.ErrInjected))
		Expect(writer.Length()).To(Equal(length))
		Expect(file.Data).To(HaveLen(int(length)))

		file.LimitWrites = false
		Expect(writer.AddRecord([]byte("bar"))).To(Succeed())
		Expect(readAll()).To(Equal([][]byte{[]byte("foo"), []byte("bar")}))
	})

	It("should remove a record spanning blocks when a later fragment failed", func() {
		Expect(writer.AddRecord([]byte("foo"))).To(Succeed())
		length := writer.Length()

		file.LimitWrites = true
		file.WriteBudget = 40000
		Expect(writer.AddRecord(make([]byte, 70000))).To(MatchError(utils.ErrInjected))
		Expect(writer.Length()).To(Equal(length))
		Expect(writer.BlockOffset()).To(Equal(int(length)))

		file.LimitWrites = false
		Expect(writer.AddRecord([]byte("bar"))).To(Succeed())
		Expect(readAll()).To(Equal([][]byte{[]byte("foo"), []byte("bar")}))
	})

	It("should observe the duration of failed records", func() {
		sampleCount := func() uint64 {
			var metric dto.Metric
			Expect(AddRecordDuration.Write(&metric)).To(Succeed())
			return metric.GetHistogram().GetSampleCount()
		}
		before := sampleCount()

		file.FailWrites = true
		Expect(writer.AddRecord([]byte("foo"))).To(MatchError(utils.ErrInjected))
		Expect(sampleCount()).To(Equal(before + 1))
	})

	It("should remove a record whose sync failed", func() {
		Expect(writer.AddRecord([]byte("foo"))).To(Succeed())

		file.FailSyncs = true
		Expect(writer.AddRecord([]byte("bar"))).To(MatchError(utils.ErrInjected))

		file.FailSyncs = false
		Expect(readAll()).To(Equal([][]byte{[]byte("foo")}))
	})

	It("should become unusable when the torn record cannot be removed", func() {
		file.FailWrites = true
		file.FailTruncates = true
		err := writer.AddRecord([]byte("foo"))
		Expect(err).To(MatchError(utils.ErrInjected))
		Expect(err).To(MatchError(ErrWriterFailed))

		file.FailWrites = false
		file.FailTruncates = false
		Expect(writer.AddRecord([]byte("foo"))).To(MatchError(ErrWriterFailed))
		Expect(writer.Sync()).To(MatchError(ErrWriterFailed))
	})
})
