// Package txn implements the transaction assembly pipeline: a mutable
// builder that freezes into an immutable, signable, possibly chunked
// operation ready for dispatch.
package txn

import (
	"fmt"
	"time"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

const (
	// DefaultValidDuration is how long a transaction stays valid once frozen.
	DefaultValidDuration = 120 * time.Second

	// MaxMemoLength bounds the human memo, in bytes.
	MaxMemoLength = 100

	// MaxDataBytes bounds a single body's payload. Payload types that do not
	// support chunking must fit; chunk-capable types split themselves.
	MaxDataBytes = 4096
)

// Data is the capability every transaction payload type implements.
type Data interface {
	// BodyData returns the payload kind and its canonical bytes. Must be
	// pure: deterministic, no I/O.
	BodyData() (wire.DataKind, []byte, error)

	// Method names the RPC that executes this payload.
	Method() string

	// ValidateChecksums checks every entity id the payload embeds against
	// the expected ledger id.
	ValidateChecksums(ledgerID ident.LedgerID) error
}

// ChunkableData is implemented by payload types whose body may exceed
// MaxDataBytes and split into an ordered chunk sequence.
type ChunkableData interface {
	Data

	// SplitChunks returns one Data per chunk, in order. A payload that fits
	// in a single chunk returns exactly one element.
	SplitChunks() ([]Data, error)
}

// Transaction is the builder common to all transaction types. It is mutable
// until frozen; freezing assigns the transaction id and snapshots the node
// list, after which only signing is permitted.
type Transaction struct {
	data Data

	nodeAccountIDs []ident.AccountID
	validDuration  time.Duration
	maxFee         uint64
	memo           string
	payer          ident.AccountID
	payerSet       bool
	txID           ident.TransactionID
	txIDSet        bool

	frozen   bool
	executed bool
	err      error

	chunks []*chunk
}

// chunk is one frozen sub-operation: its id, its canonical per-node body
// bytes, and the signatures collected over them.
type chunk struct {
	data   Data
	txID   ident.TransactionID
	bodies map[ident.AccountID][]byte
	sigs   map[ident.AccountID][]wire.SignaturePair
}

func (t *Transaction) init(data Data) {
	t.data = data
	t.validDuration = DefaultValidDuration
}

// latch records the first eager validation failure; it surfaces from Freeze.
func (t *Transaction) latch(err error) {
	if t.err == nil {
		t.err = err
	}
}

func (t *Transaction) requireNotFrozen() {
	if t.frozen {
		t.latch(errs.New(errs.KindConstruction, "transaction is frozen; builder mutation is no longer allowed"))
	}
}

// Err returns the first latched builder error, if any.
func (t *Transaction) Err() error { return t.err }

// SetNodeAccountIDs restricts the transaction to the given candidate nodes.
// Defaults to the full node set configured on the client at freeze time.
func (t *Transaction) SetNodeAccountIDs(ids []ident.AccountID) *Transaction {
	t.requireNotFrozen()
	t.nodeAccountIDs = make([]ident.AccountID, len(ids))
	for i, id := range ids {
		t.nodeAccountIDs[i] = id.Bare()
	}
	return t
}

// SetValidDuration sets how long the transaction is valid once frozen.
// Defaults to 120 seconds.
func (t *Transaction) SetValidDuration(d time.Duration) *Transaction {
	t.requireNotFrozen()
	if d <= 0 {
		t.latch(errs.New(errs.KindConstruction, "valid duration must be positive"))
		return t
	}
	t.validDuration = d
	return t
}

// SetMaxFee sets the most the payer is willing to pay, in tiny-units.
func (t *Transaction) SetMaxFee(fee uint64) *Transaction {
	t.requireNotFrozen()
	t.maxFee = fee
	return t
}

// SetMemo attaches a note recorded with the transaction (at most 100 bytes).
func (t *Transaction) SetMemo(memo string) *Transaction {
	t.requireNotFrozen()
	if len(memo) > MaxMemoLength {
		t.latch(errs.New(errs.KindConstruction,
			fmt.Sprintf("memo is %d bytes; the maximum is %d", len(memo), MaxMemoLength)))
		return t
	}
	t.memo = memo
	return t
}

// SetPayer sets an explicit payer, overriding the client operator.
func (t *Transaction) SetPayer(payer ident.AccountID) *Transaction {
	t.requireNotFrozen()
	t.payer = payer.Bare()
	t.payerSet = true
	return t
}

// SetTransactionID sets an explicit transaction id, overriding both the
// payer set here and the client operator.
func (t *Transaction) SetTransactionID(id ident.TransactionID) *Transaction {
	t.requireNotFrozen()
	t.txID = id
	t.txIDSet = true
	return t
}

// TransactionID returns the assigned id once set or frozen.
func (t *Transaction) TransactionID() (ident.TransactionID, bool) {
	return t.txID, t.txIDSet
}

// NodeAccountIDs returns the node list (fixed after freeze).
func (t *Transaction) NodeAccountIDs() []ident.AccountID {
	return append([]ident.AccountID(nil), t.nodeAccountIDs...)
}

// Freeze finalizes the transaction without a client. The payer (or an
// explicit transaction id) and the node list must already be set.
func (t *Transaction) Freeze() error {
	return t.FreezeWith(nil)
}

// FreezeWith finalizes the transaction: assigns the transaction id if unset,
// snapshots the node list, and expands the payload into chunks. Freezing is
// idempotent.
func (t *Transaction) FreezeWith(c *client.Client) error {
	if t.err != nil {
		return t.err
	}
	if t.frozen {
		return nil
	}
	if t.data == nil {
		return errs.New(errs.KindInternal, "transaction has no payload")
	}

	if !t.txIDSet {
		switch {
		case t.payerSet:
			now := time.Now()
			if c != nil {
				now = c.Now()
			}
			t.txID = ident.GenerateTransactionID(t.payer, now)
		case c != nil && c.Operator() != nil:
			id, err := c.OperatorTransactionID()
			if err != nil {
				return err
			}
			t.txID = id
		default:
			return errs.New(errs.KindConstruction,
				"no payer: transaction has no explicit payer or id and the client has no operator")
		}
		t.txIDSet = true
	}

	if len(t.nodeAccountIDs) == 0 {
		if c == nil {
			return errs.New(errs.KindConstruction,
				"no node list: transaction has no explicit nodes and no client was provided")
		}
		// Snapshot, not a live reference: reconfiguring the client later
		// must not change an in-flight transaction.
		t.nodeAccountIDs = c.NodeAccountIDs()
	}
	if len(t.nodeAccountIDs) == 0 {
		return errs.New(errs.KindConstruction, "no node list: the client has no nodes configured")
	}

	datas := []Data{t.data}
	if cd, ok := t.data.(ChunkableData); ok {
		var err error
		datas, err = cd.SplitChunks()
		if err != nil {
			return err
		}
		if len(datas) == 0 {
			return errs.New(errs.KindInternal, "chunk split produced no chunks")
		}
	}

	for i, d := range datas {
		kind, payload, err := d.BodyData()
		if err != nil {
			return err
		}
		if len(payload) > MaxDataBytes {
			if _, chunkable := t.data.(ChunkableData); !chunkable {
				return errs.New(errs.KindConstruction,
					fmt.Sprintf("body is %d bytes, exceeds the %d-byte limit, and %T does not support chunking",
						len(payload), MaxDataBytes, t.data))
			}
			return errs.New(errs.KindInternal,
				fmt.Sprintf("chunk %d is %d bytes after splitting", i, len(payload)))
		}
		if i > 0 {
			if _, chunkable := t.data.(ChunkableData); !chunkable {
				return errs.New(errs.KindInternal,
					fmt.Sprintf("%T expanded into %d chunks but does not support chunking", t.data, len(datas)))
			}
		}

		// Chunks share the base id's payer and nonce; the valid-start is
		// nudged per index so the network never sees two chunks as
		// duplicates of each other.
		id := t.txID
		id.ValidStart = id.ValidStart.Add(time.Duration(i) * time.Nanosecond)

		bodies := make(map[ident.AccountID][]byte, len(t.nodeAccountIDs))
		for _, node := range t.nodeAccountIDs {
			body := wire.TransactionBody{
				TransactionID: id,
				NodeAccountID: node,
				ValidDuration: t.validDuration,
				MaxFee:        t.maxFee,
				Memo:          t.memo,
				DataKind:      kind,
				Data:          payload,
			}
			bodies[node] = body.Marshal()
		}
		t.chunks = append(t.chunks, &chunk{
			data:   d,
			txID:   id,
			bodies: bodies,
			sigs:   make(map[ident.AccountID][]wire.SignaturePair, len(t.nodeAccountIDs)),
		})
	}

	t.frozen = true
	return nil
}

// Sign signs every chunk's body bytes for every node in the frozen node
// list. Signing twice with the same key is a no-op per (key, node) pair.
func (t *Transaction) Sign(signer keys.Signer) error {
	if !t.frozen {
		return errs.New(errs.KindConstruction, "transaction must be frozen before signing")
	}
	if t.executed {
		return errs.New(errs.KindConstruction, "transaction was already executed; additional signatures are meaningless")
	}

	pub := signer.PublicKey()
	for _, ch := range t.chunks {
		for _, node := range t.nodeAccountIDs {
			if hasSignature(ch.sigs[node], pub) {
				continue
			}
			sig, err := signer.Sign(ch.bodies[node])
			if err != nil {
				return err
			}
			ch.sigs[node] = append(ch.sigs[node], wire.SignaturePair{
				Algorithm: string(pub.Algorithm()),
				PublicKey: pub.Bytes(),
				Signature: sig,
			})
		}
	}
	return nil
}

func hasSignature(sigs []wire.SignaturePair, pub keys.PublicKey) bool {
	raw := pub.Bytes()
	for _, s := range sigs {
		if s.Algorithm != string(pub.Algorithm()) || len(s.PublicKey) != len(raw) {
			continue
		}
		match := true
		for i := range raw {
			if s.PublicKey[i] != raw[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// SignedBytesFor returns the marshaled submit-ready form of chunk 0 aimed at
// node. Used where a signed transaction is embedded rather than dispatched,
// such as query payments.
func (t *Transaction) SignedBytesFor(node ident.AccountID) ([]byte, error) {
	if !t.frozen {
		return nil, errs.New(errs.KindConstruction, "transaction must be frozen first")
	}
	return t.chunks[0].signedBytes(node.Bare())
}

func (ch *chunk) signedBytes(node ident.AccountID) ([]byte, error) {
	body, ok := ch.bodies[node]
	if !ok {
		return nil, errs.New(errs.KindConstruction,
			fmt.Sprintf("node %s is not in the frozen node list", node))
	}
	signed := wire.SignedTransaction{
		BodyBytes:  body,
		Signatures: ch.sigs[node],
	}
	return signed.Marshal(), nil
}

// ChunkCount returns the number of chunks the frozen transaction expanded
// into (always 1 for single-chunk payload types).
func (t *Transaction) ChunkCount() int { return len(t.chunks) }

// ChunkTransactionIDs returns the id of every frozen chunk, in order.
func (t *Transaction) ChunkTransactionIDs() []ident.TransactionID {
	out := make([]ident.TransactionID, len(t.chunks))
	for i, ch := range t.chunks {
		out[i] = ch.txID
	}
	return out
}
