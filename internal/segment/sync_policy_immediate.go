package segment

import (
	"fmt"
)

// SyncPolicyImmediate is syncing the content of the log file to disk after every fragment. This reduces the chances of
// data loss because of hardware failure, but it has a negative impact on performance.
type SyncPolicyImmediate struct {
	syncer Syncer
}

// SyncPolicyImmediate implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyImmediate)(nil)

// NewSyncPolicyImmediate creates a new SyncPolicyImmediate.
func NewSyncPolicyImmediate() *SyncPolicyImmediate {
	return &SyncPolicyImmediate{}
}

func (s *SyncPolicyImmediate) Startup(syncer Syncer) error {
	s.syncer = syncer
	return nil
}

func (s *SyncPolicyImmediate) Flushed() error {
	if err := s.syncer.Sync(); err != nil {
		return fmt.Errorf("syncing the WAL file: %w", err)
	}
	return nil
}

func (s *SyncPolicyImmediate) Shutdown() error {
	return nil
}

func (s *SyncPolicyImmediate) String() string {
	return "immediate"
}
