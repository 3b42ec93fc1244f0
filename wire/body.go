package wire

import (
	"fmt"
	"time"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
)

// DataKind tags the operation payload carried inside a body.
type DataKind uint64

const (
	DataKindTransfer       DataKind = 1
	DataKindTokenPause     DataKind = 2
	DataKindContractUpdate DataKind = 3
	DataKindMessageSubmit  DataKind = 4

	DataKindAccountBalanceQuery DataKind = 100
)

const bodyVersion = 1

// TransactionBody is the canonical, signable form of one transaction aimed at
// one node. The node account id is part of the signed bytes, so a signature
// is valid for exactly one target node.
type TransactionBody struct {
	TransactionID ident.TransactionID
	NodeAccountID ident.AccountID
	ValidDuration time.Duration
	MaxFee        uint64
	Memo          string
	DataKind      DataKind
	Data          []byte
}

// Marshal returns the canonical bytes. This is the exact byte sequence
// covered by signatures.
func (b *TransactionBody) Marshal() []byte {
	var e Encoder
	e.Uint(bodyVersion)
	e.Uint(b.TransactionID.Payer.Shard)
	e.Uint(b.TransactionID.Payer.Realm)
	e.Uint(b.TransactionID.Payer.Num)
	e.Int(b.TransactionID.ValidStart.Unix())
	e.Uint(uint64(b.TransactionID.ValidStart.Nanosecond()))
	e.Bool(b.TransactionID.Scheduled)
	e.Int(int64(b.TransactionID.Nonce))
	e.Uint(b.NodeAccountID.Shard)
	e.Uint(b.NodeAccountID.Realm)
	e.Uint(b.NodeAccountID.Num)
	e.Uint(uint64(b.ValidDuration / time.Second))
	e.Uint(b.MaxFee)
	e.String(b.Memo)
	e.Uint(uint64(b.DataKind))
	e.Bytes(b.Data)
	return e.Finish()
}

// UnmarshalTransactionBody decodes canonical body bytes.
func UnmarshalTransactionBody(raw []byte) (*TransactionBody, error) {
	d := NewDecoder(raw)
	if v := d.Uint(); d.Err() == nil && v != bodyVersion {
		return nil, errs.New(errs.KindParse, fmt.Sprintf("unsupported body version %d", v))
	}
	var b TransactionBody
	b.TransactionID.Payer.Shard = d.Uint()
	b.TransactionID.Payer.Realm = d.Uint()
	b.TransactionID.Payer.Num = d.Uint()
	secs := d.Int()
	nanos := d.Uint()
	if d.Err() == nil && nanos > 999_999_999 {
		return nil, errs.New(errs.KindParse, "valid-start nanos out of range")
	}
	b.TransactionID.ValidStart = time.Unix(secs, int64(nanos)).UTC()
	b.TransactionID.Scheduled = d.Bool()
	b.TransactionID.Nonce = int32(d.Int())
	b.NodeAccountID.Shard = d.Uint()
	b.NodeAccountID.Realm = d.Uint()
	b.NodeAccountID.Num = d.Uint()
	b.ValidDuration = time.Duration(d.Uint()) * time.Second
	b.MaxFee = d.Uint()
	b.Memo = d.String()
	b.DataKind = DataKind(d.Uint())
	b.Data = d.Bytes()
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return &b, nil
}

// SignaturePair binds one signature to the public key that produced it.
type SignaturePair struct {
	Algorithm string
	PublicKey []byte
	Signature []byte
}

// SignedTransaction is the submit-ready form: the canonical body bytes plus
// every signature collected over them.
type SignedTransaction struct {
	BodyBytes  []byte
	Signatures []SignaturePair
}

func (s *SignedTransaction) Marshal() []byte {
	var e Encoder
	e.Bytes(s.BodyBytes)
	e.Uint(uint64(len(s.Signatures)))
	for _, p := range s.Signatures {
		e.String(p.Algorithm)
		e.Bytes(p.PublicKey)
		e.Bytes(p.Signature)
	}
	return e.Finish()
}

func UnmarshalSignedTransaction(raw []byte) (*SignedTransaction, error) {
	d := NewDecoder(raw)
	var s SignedTransaction
	s.BodyBytes = d.Bytes()
	n := d.Uint()
	if d.Err() != nil {
		return nil, d.Err()
	}
	if n > uint64(len(raw)) {
		return nil, errs.New(errs.KindParse, "signature count exceeds message size")
	}
	for i := uint64(0); i < n; i++ {
		s.Signatures = append(s.Signatures, SignaturePair{
			Algorithm: d.String(),
			PublicKey: d.Bytes(),
			Signature: d.Bytes(),
		})
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return &s, nil
}
