// Package wire defines the canonical byte encoding of ledger operations and
// the gRPC surface they travel over.
//
// Every byte sequence that is signed, hashed, or compared MUST be produced by
// this package's Encoder. The encoding is deterministic by construction:
// fields are written in a fixed order, unsigned integers as minimal uvarints,
// signed integers zigzag-encoded, and byte strings length-prefixed. Decoders
// reject non-minimal varints so that a given message has exactly one
// canonical byte form.
//
// RPC envelopes use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain; the canonical bytes ride inside a
// BytesValue.
package wire

import (
	"bytes"
	"fmt"

	"hashnet.dev/sdk/errs"
)

// Encoder writes the canonical encoding.
type Encoder struct {
	buf bytes.Buffer
}

func (e *Encoder) Uint(v uint64) {
	var tmp [10]byte
	n := 0
	for v >= 0x80 {
		tmp[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	tmp[n] = byte(v)
	e.buf.Write(tmp[:n+1])
}

// Int writes a signed integer, zigzag-encoded.
func (e *Encoder) Int(v int64) {
	e.Uint(uint64(v<<1) ^ uint64(v>>63))
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.Uint(1)
	} else {
		e.Uint(0)
	}
}

func (e *Encoder) Bytes(b []byte) {
	e.Uint(uint64(len(b)))
	e.buf.Write(b)
}

func (e *Encoder) String(s string) {
	e.Uint(uint64(len(s)))
	e.buf.WriteString(s)
}

// Finish returns the accumulated canonical bytes.
func (e *Encoder) Finish() []byte {
	return append([]byte(nil), e.buf.Bytes()...)
}

// Decoder reads the canonical encoding. The first failure latches; callers
// check Err once after reading all fields.
type Decoder struct {
	b   []byte
	off int
	err error
}

func NewDecoder(b []byte) *Decoder { return &Decoder{b: b} }

func (d *Decoder) fail(msg string) {
	if d.err == nil {
		d.err = errs.New(errs.KindParse, msg)
	}
}

func (d *Decoder) Uint() uint64 {
	if d.err != nil {
		return 0
	}
	var v uint64
	var shift uint
	start := d.off
	for {
		if d.off >= len(d.b) {
			d.fail("truncated varint")
			return 0
		}
		c := d.b[d.off]
		d.off++
		if shift == 63 && c > 1 {
			d.fail("varint overflows uint64")
			return 0
		}
		v |= uint64(c&0x7f) << shift
		if c < 0x80 {
			// Minimal encoding: the final byte of a multi-byte varint
			// must be non-zero.
			if c == 0 && d.off-start > 1 {
				d.fail("non-minimal varint")
				return 0
			}
			return v
		}
		shift += 7
	}
}

func (d *Decoder) Int() int64 {
	v := d.Uint()
	return int64(v>>1) ^ -int64(v&1)
}

func (d *Decoder) Bool() bool {
	switch v := d.Uint(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail(fmt.Sprintf("boolean must be 0 or 1, got %d", v))
		return false
	}
}

func (d *Decoder) Bytes() []byte {
	n := d.Uint()
	if d.err != nil {
		return nil
	}
	if n > uint64(len(d.b)-d.off) {
		d.fail("byte string length exceeds remaining input")
		return nil
	}
	out := append([]byte(nil), d.b[d.off:d.off+int(n)]...)
	d.off += int(n)
	return out
}

func (d *Decoder) String() string {
	return string(d.Bytes())
}

// Err returns the first decode failure, if any.
func (d *Decoder) Err() error { return d.err }

// Finish errors unless the input was consumed exactly.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.b) {
		return errs.New(errs.KindParse,
			fmt.Sprintf("%d trailing bytes after message", len(d.b)-d.off))
	}
	return nil
}
