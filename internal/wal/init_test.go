package wal_test

import (
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/record-log/internal/segment"
	"github.com/backbone81/record-log/internal/wal"
)

var _ = Describe("Init", func() {
	var dir string
	var filePath string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "test-init-*")
		Expect(err).ToNot(HaveOccurred())
		filePath = path.Join(dir, "wal")
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("should initialize a write-ahead log", func() {
		Expect(wal.IsInitialized(filePath)).To(BeFalse())

		Expect(wal.Init(filePath)).To(Succeed())

		Expect(wal.IsInitialized(filePath)).To(BeTrue())
	})

	It("should refuse to initialize a write-ahead log twice", func() {
		Expect(wal.Init(filePath)).To(Succeed())
		Expect(wal.Init(filePath)).To(MatchError(segment.ErrSegmentExists))
	})

	It("should initialize only when required", func() {
		Expect(wal.InitIfRequired(filePath)).To(Succeed())
		Expect(wal.InitIfRequired(filePath)).To(Succeed())
		Expect(wal.IsInitialized(filePath)).To(BeTrue())
	})

	It("should report a directory as an error", func() {
		Expect(wal.IsInitialized(dir)).Error().To(MatchError(wal.ErrNotRegularFile))
	})
})
