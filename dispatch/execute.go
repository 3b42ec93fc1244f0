// Package dispatch implements the generic execution engine: it turns one
// frozen operation into one or more network attempts against candidate
// nodes, classifies each attempt's outcome, and decides whether to retry,
// switch nodes, back off, or terminate.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

// Operation is the capability contract between the dispatcher and a concrete
// operation kind (transaction, query, cost query). Request construction must
// be pure: MakeRequest performs no I/O and may be re-invoked per node and per
// attempt. MakeResponse only shapes the final value; it cannot trigger a
// retry.
type Operation[R any] interface {
	// NodeAccountIDs returns the operation's explicit node restriction, or
	// nil to use the client's full node set.
	NodeAccountIDs() []ident.AccountID

	// TransactionID returns the operation's id, if it has one.
	TransactionID() (ident.TransactionID, bool)

	// RequiresTransactionID reports whether dispatch must refuse to proceed
	// without an id. Cost queries do not require one.
	RequiresTransactionID() bool

	// ValidateChecksums checks every entity id the payload embeds against
	// the network's ledger id. Invoked once, before the first attempt.
	ValidateChecksums(ledgerID ident.LedgerID) error

	// Method names the RPC to invoke on the node channel.
	Method() string

	// MakeRequest builds the node-specific wire payload.
	MakeRequest(node ident.AccountID) ([]byte, error)

	// MakeResponse shapes the decoded envelope into the typed result.
	MakeResponse(env *wire.Envelope, node ident.AccountID) (R, error)
}

// Execute dispatches op with the default status policy.
func Execute[R any](ctx context.Context, c *client.Client, op Operation[R]) (R, error) {
	return ExecuteWith(ctx, c, op, DefaultStatusPolicy())
}

// ExecuteWith attempts op against the network until it is accepted,
// permanently rejected, or the retry budget is spent.
func ExecuteWith[R any](ctx context.Context, c *client.Client, op Operation[R], policy StatusPolicy) (R, error) {
	var zero R

	if ledgerID := c.LedgerID(); len(ledgerID) > 0 {
		if err := op.ValidateChecksums(ledgerID); err != nil {
			return zero, err
		}
	}
	if op.RequiresTransactionID() {
		if _, ok := op.TransactionID(); !ok {
			return zero, errs.New(errs.KindConstruction, "operation requires a transaction id and none is set")
		}
	}

	nodes := op.NodeAccountIDs()
	if len(nodes) == 0 {
		nodes = c.NodeAccountIDs()
	}
	if len(nodes) == 0 {
		return zero, errs.New(errs.KindConstruction, "no candidate nodes: operation and client both have an empty node set")
	}
	ring := newNodeRing(nodes)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.MinBackoff()
	bo.MaxInterval = c.MaxBackoff()
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	logger := c.Logger()

	var lastErr error
	for attempt := 0; attempt < c.MaxAttempts(); attempt++ {
		// Deadline is checked before starting an attempt; an attempt already
		// in flight is allowed to complete.
		if err := ctx.Err(); err != nil {
			return zero, errs.Wrap(errs.KindDeadline, "deadline expired before the operation was accepted", err)
		}

		node := ring.next()

		payload, err := op.MakeRequest(node)
		if err != nil {
			return zero, err
		}
		conn, err := c.Conn(node)
		if err != nil {
			ring.penalize(node)
			lastErr = err
			logger.Debug("node channel unavailable", "node", node.String(), "attempt", attempt, "err", err)
			continue
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if t := c.RequestTimeout(); t > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, t)
		}
		reply := new(wrapperspb.BytesValue)
		err = conn.Invoke(attemptCtx, op.Method(), wrapperspb.Bytes(payload), reply)
		cancel()

		if err != nil {
			// Transport failure: fail over to the next node without
			// consuming a backoff delay.
			ring.penalize(node)
			lastErr = errs.Wrap(errs.KindTransport, fmt.Sprintf("node %s unreachable", node), err)
			logger.Debug("transport failure", "node", node.String(), "attempt", attempt, "err", err)
			continue
		}

		raw := reply.GetValue()
		status, _, err := wire.DecodeEnvelopeHeader(raw)
		if err != nil {
			return zero, err
		}

		switch policy.Classify(status) {
		case ClassAccepted:
			env, err := wire.UnmarshalEnvelope(raw)
			if err != nil {
				return zero, err
			}
			logger.Debug("operation accepted", "node", node.String(), "attempt", attempt)
			return op.MakeResponse(env, node)

		case ClassRetryable:
			lastErr = errs.Wrap(errs.KindPrecheck,
				fmt.Sprintf("node %s returned retryable status", node),
				&wire.StatusError{Status: status})
			delay := bo.NextBackOff()
			if delay == backoff.Stop {
				delay = c.MaxBackoff()
			}
			logger.Debug("retryable status", "node", node.String(), "status", status.String(), "backoff", delay)
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
				return zero, errs.Wrap(errs.KindDeadline,
					"deadline expires before the next backoff completes", lastErr)
			}
			select {
			case <-ctx.Done():
				return zero, errs.Wrap(errs.KindDeadline, "deadline expired during backoff", ctx.Err())
			case <-time.After(delay):
			}

		case ClassPermanent:
			return zero, errs.Wrap(errs.KindPrecheck,
				fmt.Sprintf("operation rejected by node %s", node),
				&wire.StatusError{Status: status})
		}
	}

	return zero, errs.Wrap(errs.KindMaxAttempts,
		fmt.Sprintf("retry budget exhausted after %d attempts", c.MaxAttempts()), lastErr)
}

// StatusOf extracts the precheck status carried by err, if any.
func StatusOf(err error) (wire.Status, bool) {
	var se *wire.StatusError
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Status, true
}
