// Package ident implements the identifier value types used across the SDK:
// entity ids in shard.realm.num form, transaction ids, ledger ids, and the
// 20-byte EVM address form of an entity id.
package ident

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"hashnet.dev/sdk/errs"
)

// AccountID is the id of an account on the network.
//
// The zero value is not a valid account id on its own; 0.0.0 is reserved.
type AccountID struct {
	// A non-negative number identifying the shard containing this account.
	Shard uint64

	// A non-negative number identifying the realm within the shard.
	Realm uint64

	// A non-negative number identifying the account within the realm.
	Num uint64

	// Checksum attached during parsing, if the text form carried one.
	// Validated against a ledger id before dispatch; not part of the
	// network identity of the account.
	Checksum string
}

// TokenID is the id of a token on the network.
type TokenID struct {
	Shard, Realm, Num uint64
	Checksum          string
}

// ContractID is the id of a smart contract on the network.
type ContractID struct {
	Shard, Realm, Num uint64
	Checksum          string
}

// TopicID is the id of a message topic on the network.
type TopicID struct {
	Shard, Realm, Num uint64
	Checksum          string
}

func formatEntity(shard, realm, num uint64) string {
	return fmt.Sprintf("%d.%d.%d", shard, realm, num)
}

// parseEntity accepts "shard.realm.num", the bare-integer shorthand for
// "0.0.num", and an optional "-abcde" checksum suffix on the last component.
func parseEntity(s string) (shard, realm, num uint64, checksum string, err error) {
	if s == "" {
		return 0, 0, 0, "", errs.New(errs.KindParse, "expecting <shard>.<realm>.<num> (ex. `0.0.1001`), got empty string")
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		checksum = s[i+1:]
		s = s[:i]
		if len(checksum) != 5 {
			return 0, 0, 0, "", errs.New(errs.KindParse, fmt.Sprintf("checksum must be 5 letters, got %q", checksum))
		}
		for _, c := range checksum {
			if c < 'a' || c > 'z' {
				return 0, 0, 0, "", errs.New(errs.KindParse, fmt.Sprintf("checksum must be lowercase letters, got %q", checksum))
			}
		}
	}

	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		num, err = parseEntityNum(parts[0])
		return 0, 0, num, checksum, err
	case 3:
		if shard, err = parseEntityNum(parts[0]); err != nil {
			return 0, 0, 0, "", err
		}
		if realm, err = parseEntityNum(parts[1]); err != nil {
			return 0, 0, 0, "", err
		}
		if num, err = parseEntityNum(parts[2]); err != nil {
			return 0, 0, 0, "", err
		}
		return shard, realm, num, checksum, nil
	default:
		return 0, 0, 0, "", errs.New(errs.KindParse, fmt.Sprintf("expecting <shard>.<realm>.<num> (ex. `0.0.1001`), got %q", s))
	}
}

func parseEntityNum(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.KindParse, fmt.Sprintf("entity id component %q is not a non-negative integer", s), err)
	}
	return n, nil
}

// AccountIDFromNum returns the account id 0.0.num.
func AccountIDFromNum(num uint64) AccountID { return AccountID{Num: num} }

// ParseAccountID parses an account id from its text form.
func ParseAccountID(s string) (AccountID, error) {
	shard, realm, num, checksum, err := parseEntity(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Shard: shard, Realm: realm, Num: num, Checksum: checksum}, nil
}

func (a AccountID) String() string { return formatEntity(a.Shard, a.Realm, a.Num) }

// Bare returns the account id stripped of any parse-attached checksum,
// suitable for structural comparison and map keys.
func (a AccountID) Bare() AccountID { return AccountID{Shard: a.Shard, Realm: a.Realm, Num: a.Num} }

// ValidateChecksum verifies the parse-attached checksum, if any, against the
// given ledger id. An id without a checksum always validates.
func (a AccountID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(a.String(), a.Checksum, ledgerID)
}

// ParseTokenID parses a token id from its text form.
func ParseTokenID(s string) (TokenID, error) {
	shard, realm, num, checksum, err := parseEntity(s)
	if err != nil {
		return TokenID{}, err
	}
	return TokenID{Shard: shard, Realm: realm, Num: num, Checksum: checksum}, nil
}

func (t TokenID) String() string { return formatEntity(t.Shard, t.Realm, t.Num) }

func (t TokenID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(t.String(), t.Checksum, ledgerID)
}

// ParseContractID parses a contract id from its text form.
func ParseContractID(s string) (ContractID, error) {
	shard, realm, num, checksum, err := parseEntity(s)
	if err != nil {
		return ContractID{}, err
	}
	return ContractID{Shard: shard, Realm: realm, Num: num, Checksum: checksum}, nil
}

func (c ContractID) String() string { return formatEntity(c.Shard, c.Realm, c.Num) }

func (c ContractID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(c.String(), c.Checksum, ledgerID)
}

// ParseTopicID parses a topic id from its text form.
func ParseTopicID(s string) (TopicID, error) {
	shard, realm, num, checksum, err := parseEntity(s)
	if err != nil {
		return TopicID{}, err
	}
	return TopicID{Shard: shard, Realm: realm, Num: num, Checksum: checksum}, nil
}

func (t TopicID) String() string { return formatEntity(t.Shard, t.Realm, t.Num) }

func (t TopicID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(t.String(), t.Checksum, ledgerID)
}

// EvmAddress is the 20-byte address form of an entity id:
// 4 bytes of shard, 8 bytes of realm, 8 bytes of num, all big-endian.
type EvmAddress [20]byte

// ParseEvmAddress parses a 40-hex-digit address, with or without a 0x prefix.
func ParseEvmAddress(s string) (EvmAddress, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return EvmAddress{}, errs.Wrap(errs.KindParse, "malformed EVM address", err)
	}
	if len(b) != 20 {
		return EvmAddress{}, errs.New(errs.KindParse, fmt.Sprintf("EVM address must be 20 bytes, got %d", len(b)))
	}
	var a EvmAddress
	copy(a[:], b)
	return a, nil
}

func (a EvmAddress) String() string { return "0x" + hex.EncodeToString(a[:]) }

// AccountID converts the address back into an account id. Never fails: every
// address encodes a valid (shard, realm, num) triple.
func (a EvmAddress) AccountID() AccountID {
	return AccountID{
		Shard: uint64(beUint32(a[0:4])),
		Realm: beUint64(a[4:12]),
		Num:   beUint64(a[12:20]),
	}
}

// ToEvmAddress converts the account id into its 20-byte address form. The
// address reserves only 4 bytes for the shard, so ids with a shard above
// math.MaxUint32 cannot be represented and the conversion fails explicitly.
func (a AccountID) ToEvmAddress() (EvmAddress, error) {
	if a.Shard > math.MaxUint32 {
		return EvmAddress{}, errs.New(errs.KindParse,
			fmt.Sprintf("shard %d does not fit in the EVM address form", a.Shard))
	}
	var out EvmAddress
	putBeUint32(out[0:4], uint32(a.Shard))
	putBeUint64(out[4:12], a.Realm)
	putBeUint64(out[12:20], a.Num)
	return out, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBeUint32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

func putBeUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
