package dispatch

import "hashnet.dev/sdk/wire"

// Class is the retry decision derived from a precheck status.
type Class int

const (
	// ClassAccepted: decode the full response and return it.
	ClassAccepted Class = iota

	// ClassRetryable: back off and try again (same or next node).
	ClassRetryable

	// ClassPermanent: stop immediately and surface the status.
	ClassPermanent
)

// StatusPolicy maps precheck codes to retry classes. Which codes are
// transient is network policy, so the mapping is configuration data rather
// than dispatcher logic; everything not listed as retryable is permanent.
type StatusPolicy struct {
	Retryable map[wire.Status]bool
}

// DefaultStatusPolicy enumerates the network's published transient statuses.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		Retryable: map[wire.Status]bool{
			wire.StatusBusy:              true,
			wire.StatusPlatformNotActive: true,
		},
	}
}

func (p StatusPolicy) Classify(s wire.Status) Class {
	switch {
	case s == wire.StatusOK:
		return ClassAccepted
	case p.Retryable[s]:
		return ClassRetryable
	default:
		return ClassPermanent
	}
}
