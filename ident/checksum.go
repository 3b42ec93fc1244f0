package ident

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"hashnet.dev/sdk/errs"
)

// LedgerID identifies a ledger (network) for checksum validation.
type LedgerID []byte

var (
	LedgerMainnet    = LedgerID{0x00}
	LedgerTestnet    = LedgerID{0x01}
	LedgerPreviewnet = LedgerID{0x02}
)

func (l LedgerID) String() string { return hex.EncodeToString(l) }

func (l LedgerID) Equal(other LedgerID) bool { return bytes.Equal(l, other) }

// entityChecksum computes the five-letter checksum for an entity id's text
// form against a ledger id.
//
// The sum runs over the decimal digits of the address (with '.' mapped to 10)
// and over the ledger id bytes extended by six zero bytes, folding both into
// a base-26 residue that is then scrambled by a large prime multiplier.
func entityChecksum(addr string, ledgerID LedgerID) string {
	const (
		p3 = 26 * 26 * 26
		p5 = 26 * 26 * 26 * 26 * 26
		m  = 1_000_003 // min prime > 26^4
		w  = 31        // fold weight
	)

	h := make([]int, 0, len(ledgerID)+6)
	for _, b := range ledgerID {
		h = append(h, int(b))
	}
	for i := 0; i < 6; i++ {
		h = append(h, 0)
	}

	d := make([]int, 0, len(addr))
	for _, c := range addr {
		if c == '.' {
			d = append(d, 10)
		} else {
			d = append(d, int(c-'0'))
		}
	}

	var s, s0, s1 int
	for i, v := range d {
		s = (w*s + v) % p3
		if i%2 == 0 {
			s0 = (s0 + v) % 11
		} else {
			s1 = (s1 + v) % 11
		}
	}

	var sh int
	for _, v := range h {
		sh = (w*sh + v) % p5
	}

	c := ((((len(d)%5)*11+s0)*11+s1)*p3 + s + sh) % p5
	c = (c * m) % p5

	out := make([]byte, 5)
	for i := 4; i >= 0; i-- {
		out[i] = byte('a' + c%26)
		c /= 26
	}
	return string(out)
}

func validateEntityChecksum(addr, checksum string, ledgerID LedgerID) error {
	if checksum == "" {
		return nil
	}
	if expected := entityChecksum(addr, ledgerID); checksum != expected {
		return errs.New(errs.KindParse,
			fmt.Sprintf("checksum %q for %s does not match ledger %s (expected %q)",
				checksum, addr, ledgerID, expected))
	}
	return nil
}

// ChecksumFor returns the checksum for addr on the given ledger. Exposed so
// callers can render ids in the checksummed display form.
func ChecksumFor(addr string, ledgerID LedgerID) string {
	return entityChecksum(addr, ledgerID)
}
