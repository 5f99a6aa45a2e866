package segment

import (
	"errors"
	"strings"
)

var ErrSyncPolicyUnsupported = errors.New("unsupported WAL sync policy")

// SyncPolicyType describes the type of sync policy to apply when a fragment was flushed to the log file.
type SyncPolicyType int

const (
	SyncPolicyTypeNone SyncPolicyType = iota
	SyncPolicyTypeImmediate
	SyncPolicyTypePeriodic
)

// String returns a string representation of the sync policy type.
func (s SyncPolicyType) String() string {
	switch s {
	case SyncPolicyTypeNone:
		return "none"
	case SyncPolicyTypeImmediate:
		return "immediate"
	case SyncPolicyTypePeriodic:
		return "periodic"
	default:
		return "unknown"
	}
}

// SyncPolicyTypes provides a list of supported sync policies. Helpful for writing tests and benchmarks which iterate
// over all possibilities.
var SyncPolicyTypes = []SyncPolicyType{
	SyncPolicyTypeNone,
	SyncPolicyTypeImmediate,
	SyncPolicyTypePeriodic,
}

// DefaultSyncPolicy is the sync policy type which makes every fragment durable before AddRecord returns.
const DefaultSyncPolicy = SyncPolicyTypeImmediate

// ParseSyncPolicyType returns the sync policy type for its string representation.
func ParseSyncPolicyType(value string) (SyncPolicyType, error) {
	for _, syncPolicyType := range SyncPolicyTypes {
		if strings.EqualFold(value, syncPolicyType.String()) {
			return syncPolicyType, nil
		}
	}
	return 0, ErrSyncPolicyUnsupported
}

// Syncer is what a sync policy needs from the log file to make written data durable.
type Syncer interface {
	Sync() error
}

// SyncPolicy is the interface every sync policy needs to implement. Flushed is called after every fragment written.
//
// Access to a sync policy needs to be synchronized externally.
type SyncPolicy interface {
	Startup(syncer Syncer) error
	Flushed() error
	Shutdown() error
	String() string
}
