package segment_test

import (
	"io"
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/record-log/internal/encoding"
	"github.com/backbone81/record-log/internal/segment"
	"github.com/backbone81/record-log/internal/utils"
)

var _ = Describe("FileSegmentWriter", func() {
	Context("with files on disk", func() {
		var dir string
		var filePath string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "test-file-segment-writer-*")
			Expect(err).ToNot(HaveOccurred())
			filePath = path.Join(dir, "wal")
		})

		AfterEach(func() {
			Expect(os.RemoveAll(dir)).To(Succeed())
		})

		It("should create a new file", func() {
			writer, err := segment.CreateSegment(filePath, segment.CreateSegmentConfig{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				Expect(writer.Close()).To(Succeed())
			}()

			Expect(writer.FilePath()).To(Equal(filePath))
			Expect(writer.Length()).To(BeZero())
			Expect(writer.SyncPolicy().String()).To(Equal(segment.DefaultSyncPolicy.String()))

			entries, err := os.ReadDir(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("wal"))
		})

		It("should replace a temporary file left over from an earlier failure", func() {
			Expect(os.WriteFile(filePath+".new", []byte("garbage"), 0o600)).To(Succeed())

			writer, err := segment.CreateSegment(filePath, segment.CreateSegmentConfig{})
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			info, err := os.Stat(filePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Size()).To(BeZero())
			Expect(path.Join(dir, "wal.new")).ToNot(BeAnExistingFile())
		})

		It("should report the path of a file ending in .new", func() {
			filePath += ".new"
			Expect(os.WriteFile(filePath, nil, 0o600)).To(Succeed())

			writer, err := segment.OpenSegmentForAppend(filePath, segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.FilePath()).To(Equal(filePath))
			Expect(writer.Close()).To(Succeed())

			reader, err := segment.OpenSegment(filePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(reader.Next()).To(BeFalse())
			writer, err = reader.ToWriter(segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.FilePath()).To(Equal(filePath))
			Expect(writer.Close()).To(Succeed())
		})

		It("should refuse to overwrite an existing file", func() {
			Expect(os.WriteFile(filePath, nil, 0o600)).To(Succeed())
			Expect(segment.CreateSegment(filePath, segment.CreateSegmentConfig{})).Error().To(MatchError(segment.ErrSegmentExists))
		})

		It("should append to an existing file", func() {
			writer, err := segment.CreateSegment(filePath, segment.CreateSegmentConfig{
				SyncPolicy: segment.NewSyncPolicyNone(),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.AddRecord(make([]byte, 40000))).To(Succeed())
			length := writer.Length()
			Expect(writer.Close()).To(Succeed())

			writer, err = segment.OpenSegmentForAppend(filePath, segment.NewSyncPolicyImmediate())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Length()).To(Equal(length))
			Expect(writer.BlockOffset()).To(Equal(int(length % encoding.BlockSize)))
			Expect(writer.AddRecord([]byte("foo"))).To(Succeed())
			Expect(writer.Close()).To(Succeed())

			reader, err := segment.OpenSegment(filePath)
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				Expect(reader.Close()).To(Succeed())
			}()
			Expect(reader.Next()).To(BeTrue())
			Expect(reader.Value().Data).To(HaveLen(40000))
			Expect(reader.Next()).To(BeTrue())
			Expect(reader.Value().Data).To(Equal([]byte("foo")))
			Expect(reader.Next()).To(BeFalse())
			Expect(reader.Err()).To(MatchError(io.EOF))
		})
	})

	Context("with files in memory", func() {
		var file *utils.SegmentFileMemory

		BeforeEach(func() {
			file = &utils.SegmentFileMemory{}
		})

		It("should sync every fragment with the immediate sync policy", func() {
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyImmediate())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.AddRecord(make([]byte, 70000))).To(Succeed())
			Expect(file.Syncs).To(Equal(3))
		})

		It("should report a failing sync", func() {
			file.FailSyncs = true
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyImmediate())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.AddRecord([]byte("foo"))).To(MatchError(utils.ErrInjected))
			Expect(writer.Sync()).To(MatchError(utils.ErrInjected))
		})

		It("should close the file", func() {
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Close()).To(Succeed())
			Expect(file.Closed).To(BeTrue())
		})

		It("should rewind a record which was torn", func() {
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.AddRecord([]byte("foo"))).To(Succeed())
			length := writer.Length()

			file.LimitWrites = true
			file.WriteBudget = 3
			Expect(writer.AddRecord(make([]byte, 100))).To(MatchError(utils.ErrInjected))
			Expect(writer.Length()).To(Equal(length + 3))

			file.LimitWrites = false
			Expect(writer.Rewind(length)).To(Succeed())
			Expect(writer.Length()).To(Equal(length))
			Expect(file.Data).To(HaveLen(int(length)))
			Expect(writer.BlockOffset()).To(Equal(int(length)))
			Expect(writer.AddRecord([]byte("bar"))).To(Succeed())

			reader := segment.NewSegmentReader(&utils.SegmentFileMemory{
				Data: file.Data,
			})
			Expect(reader.Next()).To(BeTrue())
			Expect(reader.Value().Data).To(Equal([]byte("foo")))
			Expect(reader.Next()).To(BeTrue())
			Expect(reader.Value().Data).To(Equal([]byte("bar")))
			Expect(reader.Next()).To(BeFalse())
			Expect(reader.Err()).To(MatchError(io.EOF))
		})

		It("should reject rewinding beyond the end of the file", func() {
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Rewind(1)).To(MatchError(segment.ErrRewindInvalid))
			Expect(writer.Rewind(-1)).To(MatchError(segment.ErrRewindInvalid))
		})

		It("should report a failing truncate when rewinding", func() {
			writer, err := segment.NewFileSegmentWriter(file, 0, segment.NewSyncPolicyNone())
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.AddRecord([]byte("foo"))).To(Succeed())

			file.FailTruncates = true
			Expect(writer.Rewind(0)).To(MatchError(utils.ErrInjected))
		})
	})
})
