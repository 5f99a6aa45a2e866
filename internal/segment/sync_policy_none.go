package segment

// SyncPolicyNone is never syncing the content of the log file to disk. This improves performance but increases the
// risk of data loss in case of a crash of the operating system or a hardware failure.
type SyncPolicyNone struct{}

// SyncPolicyNone implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyNone)(nil)

// NewSyncPolicyNone creates a new SyncPolicyNone.
func NewSyncPolicyNone() *SyncPolicyNone {
	return &SyncPolicyNone{}
}

func (s *SyncPolicyNone) Startup(syncer Syncer) error {
	return nil
}

func (s *SyncPolicyNone) Flushed() error {
	return nil
}

func (s *SyncPolicyNone) Shutdown() error {
	return nil
}

func (s *SyncPolicyNone) String() string {
	return "none"
}
