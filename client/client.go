// Package client holds the network configuration an operation executes
// against: the candidate node set, the operator identity that pays for and
// signs operations by default, and the retry/backoff defaults.
package client

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
)

// Node is one candidate endpoint capable of receiving operations.
type Node struct {
	AccountID ident.AccountID
	Address   string
}

// Operator is the default payer and signing identity for operations built
// against this client.
type Operator struct {
	AccountID ident.AccountID
	Signer    keys.Signer
}

// Options configures a Client. The zero value of every field has a usable
// default except Nodes, which must name at least one node before dispatch.
type Options struct {
	Nodes    []Node
	Operator *Operator
	LedgerID ident.LedgerID

	// MaxAttempts caps the number of network attempts per dispatch.
	MaxAttempts int

	// MinBackoff and MaxBackoff bound the exponential delay applied after a
	// retryable precheck status.
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// RequestTimeout applies per RPC attempt.
	RequestTimeout time.Duration

	// MaxQueryPayment caps what a paid query may auto-pay from a cost
	// estimate, in tiny-units.
	MaxQueryPayment uint64

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	Logger log.Logger

	// Now supplies network-meaningful time for valid-start timestamps.
	Now func() time.Time
}

const (
	defaultMaxAttempts     = 10
	defaultMinBackoff      = 250 * time.Millisecond
	defaultMaxBackoff      = 8 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxQueryPayment = 100_000_000
)

// Client holds node channels and dispatch defaults. Channels are a shared,
// read-only resource; dispatch never mutates the client.
type Client struct {
	opts Options

	mu    sync.Mutex
	conns map[ident.AccountID]grpc.ClientConnInterface
	owned []*grpc.ClientConn
}

// New returns a client with defaults applied.
func New(opts Options) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.MaxQueryPayment == 0 {
		opts.MaxQueryPayment = defaultMaxQueryPayment
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	nodes := make([]Node, len(opts.Nodes))
	for i, n := range opts.Nodes {
		nodes[i] = Node{AccountID: n.AccountID.Bare(), Address: n.Address}
	}
	opts.Nodes = nodes
	return &Client{
		opts:  opts,
		conns: make(map[ident.AccountID]grpc.ClientConnInterface),
	}
}

// Nodes returns a copy of the configured node set.
func (c *Client) Nodes() []Node {
	return append([]Node(nil), c.opts.Nodes...)
}

// NodeAccountIDs returns the account ids of the configured node set.
func (c *Client) NodeAccountIDs() []ident.AccountID {
	out := make([]ident.AccountID, len(c.opts.Nodes))
	for i, n := range c.opts.Nodes {
		out[i] = n.AccountID
	}
	return out
}

// Conn returns the channel for a node, dialing it on first use.
func (c *Client) Conn(node ident.AccountID) (grpc.ClientConnInterface, error) {
	node = node.Bare()

	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[node]; ok {
		return conn, nil
	}

	var address string
	for _, n := range c.opts.Nodes {
		if n.AccountID == node {
			address = n.Address
			break
		}
	}
	if address == "" {
		return nil, errs.New(errs.KindInternal, fmt.Sprintf("node %s is not in the client's node set", node))
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if c.opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(c.opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(c.opts.MaxMsgBytes),
			),
		)
	}

	cc, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransport, fmt.Sprintf("dialing node %s at %s", node, address), err)
	}
	c.conns[node] = cc
	c.owned = append(c.owned, cc)
	return cc, nil
}

// SetConn injects a pre-established channel for a node. Used by tests and by
// callers that manage their own connections; injected channels are not closed
// by Close.
func (c *Client) SetConn(node ident.AccountID, conn grpc.ClientConnInterface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[node.Bare()] = conn
}

// Close closes every channel the client dialed itself.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for _, cc := range c.owned {
		if err := cc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.owned = nil
	c.conns = make(map[ident.AccountID]grpc.ClientConnInterface)
	return firstErr
}

// Operator returns the configured operator, or nil.
func (c *Client) Operator() *Operator { return c.opts.Operator }

// OperatorTransactionID derives a fresh transaction id paid by the operator.
func (c *Client) OperatorTransactionID() (ident.TransactionID, error) {
	if c.opts.Operator == nil {
		return ident.TransactionID{}, errs.New(errs.KindConstruction,
			"no payer: transaction has no explicit payer and the client has no operator")
	}
	return ident.GenerateTransactionID(c.opts.Operator.AccountID, c.opts.Now()), nil
}

func (c *Client) LedgerID() ident.LedgerID      { return c.opts.LedgerID }
func (c *Client) MaxAttempts() int              { return c.opts.MaxAttempts }
func (c *Client) MinBackoff() time.Duration     { return c.opts.MinBackoff }
func (c *Client) MaxBackoff() time.Duration     { return c.opts.MaxBackoff }
func (c *Client) RequestTimeout() time.Duration { return c.opts.RequestTimeout }
func (c *Client) MaxQueryPayment() uint64       { return c.opts.MaxQueryPayment }
func (c *Client) Logger() log.Logger            { return c.opts.Logger }
func (c *Client) Now() time.Time                { return c.opts.Now() }
