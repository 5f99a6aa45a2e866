package segment_test

import (
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/record-log/internal/segment"
)

// countingSyncer counts the calls to Sync. It is safe to use from the background task of a sync policy.
type countingSyncer struct {
	syncs atomic.Int64
	fail  atomic.Bool
}

var errSync = errors.New("sync failed")

func (s *countingSyncer) Sync() error {
	s.syncs.Add(1)
	if s.fail.Load() {
		return errSync
	}
	return nil
}

var _ = Describe("SyncPolicy", func() {
	var syncer *countingSyncer

	BeforeEach(func() {
		syncer = &countingSyncer{}
	})

	DescribeTable("should parse sync policy types",
		func(value string, expected segment.SyncPolicyType) {
			Expect(segment.ParseSyncPolicyType(value)).To(Equal(expected))
		},
		Entry("none", "none", segment.SyncPolicyTypeNone),
		Entry("immediate", "immediate", segment.SyncPolicyTypeImmediate),
		Entry("periodic", "periodic", segment.SyncPolicyTypePeriodic),
		Entry("upper case", "PERIODIC", segment.SyncPolicyTypePeriodic),
	)

	It("should reject unknown sync policy types", func() {
		Expect(segment.ParseSyncPolicyType("grouped")).Error().To(MatchError(segment.ErrSyncPolicyUnsupported))
	})

	It("should parse the names of all sync policy types", func() {
		for _, syncPolicyType := range segment.SyncPolicyTypes {
			Expect(segment.ParseSyncPolicyType(syncPolicyType.String())).To(Equal(syncPolicyType))
		}
	})

	It("should never sync with the none sync policy", func() {
		policy := segment.NewSyncPolicyNone()
		Expect(policy.Startup(syncer)).To(Succeed())
		for range 10 {
			Expect(policy.Flushed()).To(Succeed())
		}
		Expect(policy.Shutdown()).To(Succeed())
		Expect(syncer.syncs.Load()).To(BeZero())
	})

	It("should sync on every flush with the immediate sync policy", func() {
		policy := segment.NewSyncPolicyImmediate()
		Expect(policy.Startup(syncer)).To(Succeed())
		for range 10 {
			Expect(policy.Flushed()).To(Succeed())
		}
		Expect(policy.Shutdown()).To(Succeed())
		Expect(syncer.syncs.Load()).To(Equal(int64(10)))
	})

	Context("with the periodic sync policy", func() {
		It("should sync after the given number of flushes", func() {
			policy := segment.NewSyncPolicyPeriodic(3, time.Hour)
			Expect(policy.Startup(syncer)).To(Succeed())

			Expect(policy.Flushed()).To(Succeed())
			Expect(policy.Flushed()).To(Succeed())
			Expect(syncer.syncs.Load()).To(BeZero())
			Expect(policy.Flushed()).To(Succeed())
			Expect(syncer.syncs.Load()).To(Equal(int64(1)))

			Expect(policy.Shutdown()).To(Succeed())
			Expect(syncer.syncs.Load()).To(Equal(int64(1)))
		})

		It("should sync pending flushes on shutdown", func() {
			policy := segment.NewSyncPolicyPeriodic(3, time.Hour)
			Expect(policy.Startup(syncer)).To(Succeed())
			Expect(policy.Flushed()).To(Succeed())
			Expect(policy.Shutdown()).To(Succeed())
			Expect(syncer.syncs.Load()).To(Equal(int64(1)))
		})

		It("should sync in the background", func() {
			policy := segment.NewSyncPolicyPeriodic(1000, time.Millisecond)
			Expect(policy.Startup(syncer)).To(Succeed())
			Expect(policy.Flushed()).To(Succeed())
			Eventually(syncer.syncs.Load).Should(Equal(int64(1)))
			Expect(policy.Shutdown()).To(Succeed())
		})

		It("should report a failed background sync on the next flush", func() {
			syncer.fail.Store(true)
			policy := segment.NewSyncPolicyPeriodic(1000, time.Millisecond)
			Expect(policy.Startup(syncer)).To(Succeed())
			Expect(policy.Flushed()).To(Succeed())
			Eventually(syncer.syncs.Load).Should(BeNumerically(">=", 1))
			Eventually(policy.Flushed).Should(MatchError(errSync))
			Expect(policy.Shutdown()).To(MatchError(errSync))
		})
	})
})
