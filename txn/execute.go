package txn

import (
	"context"

	"hashnet.dev/sdk/cidutil"
	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/dispatch"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

// Response is what a successful submission returns. The network has accepted
// the transaction for consensus; it has not necessarily executed yet.
type Response struct {
	// NodeAccountID is the node that accepted the submission.
	NodeAccountID ident.AccountID

	// TransactionID identifies the accepted (chunk's) transaction.
	TransactionID ident.TransactionID

	// PayloadCID is the content id of the exact signed bytes submitted,
	// for correlating with records observed elsewhere.
	PayloadCID string
}

// Execute freezes (if needed), signs with the client operator, and dispatches
// the transaction. For chunked payloads every chunk is submitted in order and
// the final chunk's response is returned.
func (t *Transaction) Execute(ctx context.Context, c *client.Client) (Response, error) {
	responses, err := t.ExecuteAll(ctx, c)
	if err != nil {
		return Response{}, err
	}
	return responses[len(responses)-1], nil
}

// ExecuteAll is Execute returning one response per chunk.
func (t *Transaction) ExecuteAll(ctx context.Context, c *client.Client) ([]Response, error) {
	if t.err != nil {
		return nil, t.err
	}
	if err := t.FreezeWith(c); err != nil {
		return nil, err
	}
	if !t.executed {
		// The operator co-signs by default; Sign is idempotent so an
		// explicit earlier signature with the same key is not duplicated.
		if op := c.Operator(); op != nil {
			if err := t.Sign(op.Signer); err != nil {
				return nil, err
			}
		}
		t.executed = true
	}

	responses := make([]Response, 0, len(t.chunks))
	for _, ch := range t.chunks {
		resp, err := dispatch.Execute[Response](ctx, c, &chunkOperation{t: t, ch: ch})
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// chunkOperation adapts one frozen chunk to the dispatcher's capability
// contract.
type chunkOperation struct {
	t  *Transaction
	ch *chunk
}

func (o *chunkOperation) NodeAccountIDs() []ident.AccountID {
	return o.t.nodeAccountIDs
}

func (o *chunkOperation) TransactionID() (ident.TransactionID, bool) {
	return o.ch.txID, true
}

func (o *chunkOperation) RequiresTransactionID() bool { return true }

func (o *chunkOperation) ValidateChecksums(ledgerID ident.LedgerID) error {
	if err := o.ch.txID.Payer.ValidateChecksum(ledgerID); err != nil {
		return err
	}
	return o.ch.data.ValidateChecksums(ledgerID)
}

func (o *chunkOperation) Method() string { return o.ch.data.Method() }

func (o *chunkOperation) MakeRequest(node ident.AccountID) ([]byte, error) {
	return o.ch.signedBytes(node)
}

func (o *chunkOperation) MakeResponse(env *wire.Envelope, node ident.AccountID) (Response, error) {
	submitted, err := o.ch.signedBytes(node)
	if err != nil {
		return Response{}, err
	}
	return Response{
		NodeAccountID: node,
		TransactionID: o.ch.txID,
		PayloadCID:    cidutil.PayloadCIDString(submitted),
	}, nil
}
