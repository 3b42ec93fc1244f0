package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

// balanceConn answers balance queries the way a node would: cost answers are
// free, full answers demand a verifiable payment.
type balanceConn struct {
	cost     uint64
	balance  uint64
	payerPub keys.PublicKey

	mu          sync.Mutex
	costCalls   int
	answerCalls int
	lastPayment *wire.SignedTransaction
}

func (f *balanceConn) Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error {
	q, err := wire.UnmarshalQueryBody(args.(*wrapperspb.BytesValue).GetValue())
	if err != nil {
		return err
	}

	var env wire.Envelope
	switch q.Header.ResponseType {
	case wire.ResponseTypeCostAnswer:
		f.mu.Lock()
		f.costCalls++
		f.mu.Unlock()
		env = wire.Envelope{Status: wire.StatusOK, Cost: f.cost}

	case wire.ResponseTypeAnswer:
		f.mu.Lock()
		f.answerCalls++
		f.mu.Unlock()
		env = wire.Envelope{Status: wire.StatusInsufficientTransactionFee}
		if payment, err := wire.UnmarshalSignedTransaction(q.Header.Payment); err == nil {
			for _, pair := range payment.Signatures {
				if f.payerPub.Verify(payment.BodyBytes, pair.Signature) {
					f.mu.Lock()
					f.lastPayment = payment
					f.mu.Unlock()

					var e wire.Encoder
					d := wire.NewDecoder(q.Data)
					shard, realm, num := d.Uint(), d.Uint(), d.Uint()
					e.Uint(shard)
					e.Uint(realm)
					e.Uint(num)
					e.Uint(f.balance)
					env = wire.Envelope{Status: wire.StatusOK, Payload: e.Finish()}
				}
			}
		}
	}

	reply.(*wrapperspb.BytesValue).Value = env.Marshal()
	return nil
}

func (f *balanceConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streams are not used")
}

var (
	testOperator = ident.AccountIDFromNum(1001)
	testNode     = ident.AccountIDFromNum(3)
)

func newQueryClient(t *testing.T, conn *balanceConn, opts client.Options) *client.Client {
	t.Helper()
	operatorKey, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)
	conn.payerPub = operatorKey.PublicKey()

	opts.Nodes = []client.Node{{AccountID: testNode, Address: "unused:0"}}
	opts.Operator = &client.Operator{AccountID: testOperator, Signer: operatorKey}
	c := client.New(opts)
	c.SetConn(testNode, conn)
	return c
}

func TestAccountBalanceQuery(t *testing.T) {
	conn := &balanceConn{cost: 25, balance: 5_000}
	c := newQueryClient(t, conn, client.Options{})
	defer c.Close()

	got, err := NewAccountBalanceQuery().
		SetAccountID(ident.AccountIDFromNum(2002)).
		Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, ident.AccountIDFromNum(2002), got.AccountID)
	require.Equal(t, uint64(5_000), got.Balance)

	// Auto-payment runs a cost round first, then the paid answer round.
	require.Equal(t, 1, conn.costCalls)
	require.Equal(t, 1, conn.answerCalls)

	// The payment the node saw transfers the discovered cost from the
	// operator to the node.
	require.NotNil(t, conn.lastPayment)
	body, err := wire.UnmarshalTransactionBody(conn.lastPayment.BodyBytes)
	require.NoError(t, err)
	require.Equal(t, testOperator, body.TransactionID.Payer)
	require.Equal(t, testNode, body.NodeAccountID)
	require.Equal(t, wire.DataKindTransfer, body.DataKind)

	d := wire.NewDecoder(body.Data)
	require.Equal(t, uint64(2), d.Uint())
	require.Equal(t, testOperator.Shard, d.Uint())
	require.Equal(t, testOperator.Realm, d.Uint())
	require.Equal(t, testOperator.Num, d.Uint())
	require.Equal(t, int64(-25), d.Int())
}

func TestGetCost(t *testing.T) {
	conn := &balanceConn{cost: 42}
	c := newQueryClient(t, conn, client.Options{})
	defer c.Close()

	cost, err := NewAccountBalanceQuery().
		SetAccountID(ident.AccountIDFromNum(2002)).
		GetCost(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cost)
	require.Equal(t, 0, conn.answerCalls)
}

func TestCostAboveCeilingFails(t *testing.T) {
	conn := &balanceConn{cost: 200}
	c := newQueryClient(t, conn, client.Options{MaxQueryPayment: 100})
	defer c.Close()

	_, err := NewAccountBalanceQuery().
		SetAccountID(ident.AccountIDFromNum(2002)).
		Execute(context.Background(), c)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
	require.Contains(t, err.Error(), "exceeds the maximum payment")
	require.Equal(t, 0, conn.answerCalls)
}

func TestQueryMaxPaymentOverridesClientCeiling(t *testing.T) {
	conn := &balanceConn{cost: 200, balance: 1}
	c := newQueryClient(t, conn, client.Options{MaxQueryPayment: 100})
	defer c.Close()

	q := NewAccountBalanceQuery().SetAccountID(ident.AccountIDFromNum(2002))
	q.SetMaxPayment(300)
	_, err := q.Execute(context.Background(), c)
	require.NoError(t, err)
}

func TestExplicitPaymentSkipsCostDiscovery(t *testing.T) {
	conn := &balanceConn{cost: 9999, balance: 1}
	c := newQueryClient(t, conn, client.Options{})
	defer c.Close()

	q := NewAccountBalanceQuery().SetAccountID(ident.AccountIDFromNum(2002))
	q.SetPaymentAmount(50)
	_, err := q.Execute(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, 0, conn.costCalls)
	require.Equal(t, 1, conn.answerCalls)
}

func TestPaidQueryRequiresOperator(t *testing.T) {
	conn := &balanceConn{}
	c := client.New(client.Options{
		Nodes: []client.Node{{AccountID: testNode, Address: "unused:0"}},
	})
	c.SetConn(testNode, conn)
	defer c.Close()

	q := NewAccountBalanceQuery().SetAccountID(ident.AccountIDFromNum(2002))
	q.SetPaymentAmount(10)
	_, err := q.Execute(context.Background(), c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "operator")
}

func TestQueryRequiresAccountID(t *testing.T) {
	conn := &balanceConn{}
	c := newQueryClient(t, conn, client.Options{})
	defer c.Close()

	_, err := NewAccountBalanceQuery().Execute(context.Background(), c)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
}
