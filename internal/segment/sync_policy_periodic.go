package segment

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// SyncPolicyPeriodic is syncing the log file to disk after some number of fragments were flushed, or after some time
// interval has passed. An error of a sync in the background is logged and returned by the next call to Flushed.
//
// As it starts a go routine, the sync policy carries its own mutex to synchronize with the background task.
type SyncPolicyPeriodic struct {
	mutex sync.Mutex

	syncAfterFlushes int
	syncEvery        time.Duration

	syncer            Syncer
	syncTicker        *time.Ticker
	shutdown          chan struct{}
	shutdownWaitGroup sync.WaitGroup

	unsyncedFlushes int
	backgroundErr   error
}

// SyncPolicyPeriodic implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyPeriodic)(nil)

// NewSyncPolicyPeriodic creates a new SyncPolicyPeriodic.
func NewSyncPolicyPeriodic(syncAfterFlushes int, syncEvery time.Duration) *SyncPolicyPeriodic {
	return &SyncPolicyPeriodic{
		syncAfterFlushes: max(syncAfterFlushes, 1),
		syncEvery:        max(syncEvery, 100*time.Microsecond),
	}
}

func (s *SyncPolicyPeriodic) Startup(syncer Syncer) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.syncer = syncer
	s.syncTicker = time.NewTicker(s.syncEvery)
	s.shutdown = make(chan struct{})
	s.shutdownWaitGroup.Add(1)
	go s.backgroundTask(s.syncTicker.C, s.shutdown)
	return nil
}

func (s *SyncPolicyPeriodic) Flushed() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.backgroundErr != nil {
		err := s.backgroundErr
		s.backgroundErr = nil
		return fmt.Errorf("periodic sync of the WAL file: %w", err)
	}

	s.unsyncedFlushes++
	if s.unsyncedFlushes < s.syncAfterFlushes {
		return nil
	}
	return s.syncNow()
}

func (s *SyncPolicyPeriodic) Shutdown() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.shutdown == nil {
		return nil
	}
	s.syncTicker.Stop()
	close(s.shutdown)
	s.shutdown = nil

	// We need to unlock the mutex while waiting for the shutdown, otherwise we run the risk of a deadlock.
	s.mutex.Unlock()
	s.shutdownWaitGroup.Wait()
	s.mutex.Lock()

	backgroundErr := s.backgroundErr
	s.backgroundErr = nil
	return errors.Join(backgroundErr, s.syncNow())
}

func (s *SyncPolicyPeriodic) String() string {
	return "periodic"
}

// backgroundTask receives the channels as parameters, as Shutdown resets the fields while the task is still running.
func (s *SyncPolicyPeriodic) backgroundTask(ticks <-chan time.Time, shutdown <-chan struct{}) {
	defer s.shutdownWaitGroup.Done()
	for {
		select {
		case <-ticks:
			s.periodicSync()
		case <-shutdown:
			return
		}
	}
}

func (s *SyncPolicyPeriodic) periodicSync() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.syncNow(); err != nil {
		log.Printf("ERROR: Periodic sync failed: %s\n", err)
		s.backgroundErr = err
		return
	}
}

func (s *SyncPolicyPeriodic) syncNow() error {
	if s.unsyncedFlushes == 0 {
		return nil
	}

	if err := s.syncer.Sync(); err != nil {
		return fmt.Errorf("syncing the WAL file: %w", err)
	}
	s.unsyncedFlushes = 0
	return nil
}
