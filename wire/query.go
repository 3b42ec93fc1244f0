package wire

import (
	"fmt"

	"hashnet.dev/sdk/errs"
)

// ResponseType selects what a query answer should contain.
type ResponseType uint32

const (
	// ResponseTypeAnswer requests the full answer payload.
	ResponseTypeAnswer ResponseType = 0

	// ResponseTypeCostAnswer requests only the cost of answering; the node
	// does not execute the query and no payment is required.
	ResponseTypeCostAnswer ResponseType = 1
)

// QueryHeader precedes every query payload.
type QueryHeader struct {
	ResponseType ResponseType

	// Payment is a marshaled SignedTransaction transferring the query fee to
	// the answering node. Empty for free queries and cost-answer queries.
	Payment []byte
}

// QueryBody is the canonical form of one query aimed at one node.
type QueryBody struct {
	Header QueryHeader
	Kind   DataKind
	Data   []byte
}

func (q *QueryBody) Marshal() []byte {
	var e Encoder
	e.Uint(uint64(q.Header.ResponseType))
	e.Bytes(q.Header.Payment)
	e.Uint(uint64(q.Kind))
	e.Bytes(q.Data)
	return e.Finish()
}

func UnmarshalQueryBody(raw []byte) (*QueryBody, error) {
	d := NewDecoder(raw)
	var q QueryBody
	rt := d.Uint()
	if d.Err() == nil && rt > uint64(ResponseTypeCostAnswer) {
		return nil, errs.New(errs.KindParse, fmt.Sprintf("unknown response type %d", rt))
	}
	q.Header.ResponseType = ResponseType(rt)
	q.Header.Payment = d.Bytes()
	q.Kind = DataKind(d.Uint())
	q.Data = d.Bytes()
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return &q, nil
}
