// Package query implements the paid query pipeline: cost discovery, per-node
// payment assembly, and dispatch. Payments are signed before the first
// attempt; the retry loop never touches a signer.
package query

import (
	"context"
	"fmt"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/dispatch"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/txn"
	"hashnet.dev/sdk/wire"
)

// payload is the capability every query type implements.
type payload interface {
	// QueryData returns the query kind and its canonical bytes. Must be
	// pure: deterministic, no I/O.
	QueryData() (wire.DataKind, []byte, error)

	// Method names the RPC that answers this query.
	Method() string

	// ValidateChecksums checks every entity id the payload embeds against
	// the expected ledger id.
	ValidateChecksums(ledgerID ident.LedgerID) error
}

// Query is the builder common to all query types.
type Query struct {
	data payload

	nodeAccountIDs []ident.AccountID
	maxPayment     uint64
	paymentAmount  *uint64
	err            error
}

func (q *Query) init(data payload) { q.data = data }

func (q *Query) latch(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first latched builder error, if any.
func (q *Query) Err() error { return q.err }

// SetNodeAccountIDs restricts the query to the given candidate nodes.
// Defaults to the full node set configured on the client.
func (q *Query) SetNodeAccountIDs(ids []ident.AccountID) *Query {
	q.nodeAccountIDs = make([]ident.AccountID, len(ids))
	for i, id := range ids {
		q.nodeAccountIDs[i] = id.Bare()
	}
	return q
}

// SetMaxPayment caps what this query may auto-pay from a cost estimate,
// overriding the client's ceiling.
func (q *Query) SetMaxPayment(amount uint64) *Query {
	q.maxPayment = amount
	return q
}

// SetPaymentAmount fixes the payment, skipping cost discovery and the
// auto-payment ceiling.
func (q *Query) SetPaymentAmount(amount uint64) *Query {
	q.paymentAmount = &amount
	return q
}

// GetCost asks the network what answering this query would cost, in
// tiny-units. Cost answers are free and carry no payment.
func (q *Query) GetCost(ctx context.Context, c *client.Client) (uint64, error) {
	if q.err != nil {
		return 0, q.err
	}
	kind, data, err := q.data.QueryData()
	if err != nil {
		return 0, err
	}
	body := wire.QueryBody{
		Header: wire.QueryHeader{ResponseType: wire.ResponseTypeCostAnswer},
		Kind:   kind,
		Data:   data,
	}
	raw := body.Marshal()

	op := &operation[uint64]{
		nodes:  q.nodeAccountIDs,
		method: q.data.Method(),
		checks: q.data.ValidateChecksums,
		request: func(ident.AccountID) ([]byte, error) {
			return raw, nil
		},
		shape: func(env *wire.Envelope, _ ident.AccountID) (uint64, error) {
			return env.Cost, nil
		},
	}
	return dispatch.Execute[uint64](ctx, c, op)
}

// answer runs the full paid flow and returns the accepted envelope. The
// concrete query type decodes the answer payload.
func (q *Query) answer(ctx context.Context, c *client.Client) (*wire.Envelope, ident.AccountID, error) {
	if q.err != nil {
		return nil, ident.AccountID{}, q.err
	}

	nodes := q.nodeAccountIDs
	if len(nodes) == 0 {
		nodes = c.NodeAccountIDs()
	}
	if len(nodes) == 0 {
		return nil, ident.AccountID{}, errs.New(errs.KindConstruction,
			"no candidate nodes: query and client both have an empty node set")
	}

	amount, err := q.resolvePayment(ctx, c)
	if err != nil {
		return nil, ident.AccountID{}, err
	}

	kind, data, err := q.data.QueryData()
	if err != nil {
		return nil, ident.AccountID{}, err
	}

	var (
		txID     ident.TransactionID
		hasTxID  bool
		payments map[ident.AccountID][]byte
	)
	if amount > 0 {
		txID, payments, err = buildPayments(c, nodes, amount)
		if err != nil {
			return nil, ident.AccountID{}, err
		}
		hasTxID = true
	}

	op := &operation[accepted]{
		nodes:   nodes,
		txID:    txID,
		hasTxID: hasTxID,
		method:  q.data.Method(),
		checks:  q.data.ValidateChecksums,
		request: func(node ident.AccountID) ([]byte, error) {
			body := wire.QueryBody{
				Header: wire.QueryHeader{
					ResponseType: wire.ResponseTypeAnswer,
					Payment:      payments[node],
				},
				Kind: kind,
				Data: data,
			}
			return body.Marshal(), nil
		},
		shape: func(env *wire.Envelope, node ident.AccountID) (accepted, error) {
			return accepted{env: env, node: node}, nil
		},
	}
	a, err := dispatch.Execute[accepted](ctx, c, op)
	if err != nil {
		return nil, ident.AccountID{}, err
	}
	return a.env, a.node, nil
}

// resolvePayment returns the payment amount: explicit if fixed, otherwise
// discovered from the network and checked against the auto-payment ceiling.
func (q *Query) resolvePayment(ctx context.Context, c *client.Client) (uint64, error) {
	if q.paymentAmount != nil {
		return *q.paymentAmount, nil
	}
	cost, err := q.GetCost(ctx, c)
	if err != nil {
		return 0, err
	}
	ceiling := q.maxPayment
	if ceiling == 0 {
		ceiling = c.MaxQueryPayment()
	}
	if cost > ceiling {
		return 0, errs.New(errs.KindConstruction,
			fmt.Sprintf("query cost %d exceeds the maximum payment %d", cost, ceiling))
	}
	return cost, nil
}

// buildPayments assembles one signed payment per candidate node. Every
// payment shares a single transaction id; the receiving node differs, so the
// signed bytes differ per node.
func buildPayments(c *client.Client, nodes []ident.AccountID, amount uint64) (ident.TransactionID, map[ident.AccountID][]byte, error) {
	op := c.Operator()
	if op == nil {
		return ident.TransactionID{}, nil, errs.New(errs.KindConstruction,
			"paid query requires a client operator to fund the payment")
	}
	txID, err := c.OperatorTransactionID()
	if err != nil {
		return ident.TransactionID{}, nil, err
	}

	payments := make(map[ident.AccountID][]byte, len(nodes))
	for _, node := range nodes {
		node = node.Bare()
		payment := txn.NewTransferTransaction().
			AddTransfer(op.AccountID, -int64(amount)).
			AddTransfer(node, int64(amount))
		payment.SetTransactionID(txID)
		payment.SetNodeAccountIDs([]ident.AccountID{node})
		if err := payment.Freeze(); err != nil {
			return ident.TransactionID{}, nil, err
		}
		if err := payment.Sign(op.Signer); err != nil {
			return ident.TransactionID{}, nil, err
		}
		raw, err := payment.SignedBytesFor(node)
		if err != nil {
			return ident.TransactionID{}, nil, err
		}
		payments[node] = raw
	}
	return txID, payments, nil
}

// accepted pairs the accepted envelope with the node that answered.
type accepted struct {
	env  *wire.Envelope
	node ident.AccountID
}

// operation adapts a prepared query to the dispatcher's capability contract.
type operation[R any] struct {
	nodes   []ident.AccountID
	txID    ident.TransactionID
	hasTxID bool
	method  string
	checks  func(ident.LedgerID) error
	request func(node ident.AccountID) ([]byte, error)
	shape   func(env *wire.Envelope, node ident.AccountID) (R, error)
}

func (o *operation[R]) NodeAccountIDs() []ident.AccountID { return o.nodes }

func (o *operation[R]) TransactionID() (ident.TransactionID, bool) {
	return o.txID, o.hasTxID
}

func (o *operation[R]) RequiresTransactionID() bool { return false }

func (o *operation[R]) ValidateChecksums(ledgerID ident.LedgerID) error {
	return o.checks(ledgerID)
}

func (o *operation[R]) Method() string { return o.method }

func (o *operation[R]) MakeRequest(node ident.AccountID) ([]byte, error) {
	return o.request(node)
}

func (o *operation[R]) MakeResponse(env *wire.Envelope, node ident.AccountID) (R, error) {
	return o.shape(env, node)
}
