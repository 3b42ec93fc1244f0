package ident

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hashnet.dev/sdk/errs"
)

// TransactionID uniquely identifies an operation on the network together with
// the payer account that funds it.
//
// Once assigned to a frozen operation it is immutable.
type TransactionID struct {
	// Payer is the account paying for the operation.
	Payer AccountID

	// ValidStart is the network-meaningful instant from which the operation
	// is valid, with nanosecond resolution.
	ValidStart time.Time

	// Scheduled marks ids that identify a scheduled execution rather than
	// the scheduling operation itself.
	Scheduled bool

	// Nonce distinguishes internal child operations; 0 for user operations.
	Nonce int32
}

// GenerateTransactionID derives a fresh transaction id for payer at now.
func GenerateTransactionID(payer AccountID, now time.Time) TransactionID {
	return TransactionID{Payer: payer.Bare(), ValidStart: now}
}

// String renders the canonical text form:
// payer@seconds.nanos, with "?scheduled" and "/nonce" suffixes when set.
func (id TransactionID) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%d.%09d", id.Payer, id.ValidStart.Unix(), id.ValidStart.Nanosecond())
	if id.Scheduled {
		b.WriteString("?scheduled")
	}
	if id.Nonce != 0 {
		fmt.Fprintf(&b, "/%d", id.Nonce)
	}
	return b.String()
}

// ParseTransactionID parses the canonical text form produced by String.
func ParseTransactionID(s string) (TransactionID, error) {
	var id TransactionID

	if i := strings.IndexByte(s, '/'); i >= 0 {
		nonce, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return TransactionID{}, errs.Wrap(errs.KindParse, "malformed transaction id nonce", err)
		}
		id.Nonce = int32(nonce)
		s = s[:i]
	}
	if strings.HasSuffix(s, "?scheduled") {
		id.Scheduled = true
		s = strings.TrimSuffix(s, "?scheduled")
	}

	at := strings.IndexByte(s, '@')
	if at < 0 {
		return TransactionID{}, errs.New(errs.KindParse,
			fmt.Sprintf("expecting <payer>@<seconds>.<nanos>, got %q", s))
	}
	payer, err := ParseAccountID(s[:at])
	if err != nil {
		return TransactionID{}, err
	}
	id.Payer = payer

	ts := s[at+1:]
	dot := strings.IndexByte(ts, '.')
	if dot < 0 {
		return TransactionID{}, errs.New(errs.KindParse,
			fmt.Sprintf("expecting <seconds>.<nanos> valid-start, got %q", ts))
	}
	secs, err := strconv.ParseInt(ts[:dot], 10, 64)
	if err != nil {
		return TransactionID{}, errs.Wrap(errs.KindParse, "malformed valid-start seconds", err)
	}
	nanos, err := strconv.ParseInt(ts[dot+1:], 10, 64)
	if err != nil || nanos < 0 || nanos > 999_999_999 {
		return TransactionID{}, errs.Wrap(errs.KindParse, "malformed valid-start nanos", err)
	}
	id.ValidStart = time.Unix(secs, nanos).UTC()

	return id, nil
}

// IsZero reports whether the id has not been assigned.
func (id TransactionID) IsZero() bool {
	return id.Payer == (AccountID{}) && id.ValidStart.IsZero() && !id.Scheduled && id.Nonce == 0
}
