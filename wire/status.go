package wire

import "fmt"

// Status is the application-level precheck code a node returns before (or
// without) fully executing an operation.
//
// Which codes are retryable is network policy, not protocol; the dispatcher
// takes that mapping as configuration. See dispatch.StatusPolicy.
type Status uint32

const (
	StatusOK Status = 0

	// Transient node/platform conditions.
	StatusBusy              Status = 1
	StatusPlatformNotActive Status = 2

	// Definitive rejections.
	StatusInvalidSignature           Status = 10
	StatusInsufficientPayerBalance   Status = 11
	StatusInsufficientTransactionFee Status = 12
	StatusDuplicateTransaction       Status = 13
	StatusEntityNotFound             Status = 14
	StatusInvalidTransactionID       Status = 15
	StatusMemoTooLong                Status = 16
	StatusTransactionExpired         Status = 17
	StatusBodySizeExceeded           Status = 18
)

var statusNames = map[Status]string{
	StatusOK:                         "OK",
	StatusBusy:                       "BUSY",
	StatusPlatformNotActive:          "PLATFORM_NOT_ACTIVE",
	StatusInvalidSignature:           "INVALID_SIGNATURE",
	StatusInsufficientPayerBalance:   "INSUFFICIENT_PAYER_BALANCE",
	StatusInsufficientTransactionFee: "INSUFFICIENT_TRANSACTION_FEE",
	StatusDuplicateTransaction:       "DUPLICATE_TRANSACTION",
	StatusEntityNotFound:             "ENTITY_NOT_FOUND",
	StatusInvalidTransactionID:       "INVALID_TRANSACTION_ID",
	StatusMemoTooLong:                "MEMO_TOO_LONG",
	StatusTransactionExpired:         "TRANSACTION_EXPIRED",
	StatusBodySizeExceeded:           "BODY_SIZE_EXCEEDED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", uint32(s))
}

// StatusError carries a definitive non-success precheck code.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return "precheck status " + e.Status.String()
}
