package txn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

// acceptingConn accepts every submission whose operator signature checks out
// and records what it saw.
type acceptingConn struct {
	pub keys.PublicKey

	mu       sync.Mutex
	received [][]byte
	methods  []string
}

func (f *acceptingConn) Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error {
	raw := args.(*wrapperspb.BytesValue).GetValue()

	signed, err := wire.UnmarshalSignedTransaction(raw)
	if err != nil {
		return err
	}
	status := wire.StatusInvalidSignature
	for _, pair := range signed.Signatures {
		if f.pub.Verify(signed.BodyBytes, pair.Signature) {
			status = wire.StatusOK
		}
	}

	f.mu.Lock()
	f.received = append(f.received, raw)
	f.methods = append(f.methods, method)
	f.mu.Unlock()

	env := wire.Envelope{Status: status}
	reply.(*wrapperspb.BytesValue).Value = env.Marshal()
	return nil
}

func (f *acceptingConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streams are not used")
}

func newExecClient(t *testing.T, conn *acceptingConn) (*client.Client, keys.PrivateKey) {
	t.Helper()
	operatorKey, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)
	conn.pub = operatorKey.PublicKey()

	node := ident.AccountIDFromNum(3)
	c := client.New(client.Options{
		Nodes:    []client.Node{{AccountID: node, Address: "unused:0"}},
		Operator: &client.Operator{AccountID: testPayer, Signer: operatorKey},
	})
	c.SetConn(node, conn)
	return c, operatorKey
}

func TestExecuteSignsWithOperator(t *testing.T) {
	conn := &acceptingConn{}
	c, _ := newExecClient(t, conn)
	defer c.Close()

	tx := NewTransferTransaction().
		AddTransfer(testPayer, -10).
		AddTransfer(ident.AccountIDFromNum(2002), 10)
	resp, err := tx.Execute(context.Background(), c)
	require.NoError(t, err)

	require.Equal(t, ident.AccountIDFromNum(3), resp.NodeAccountID)
	require.Equal(t, testPayer, resp.TransactionID.Payer)
	require.NotEmpty(t, resp.PayloadCID)
	require.Equal(t, []string{wire.MethodTransfer}, conn.methods)

	// The payload CID is the handle to the exact bytes the node received.
	require.Len(t, conn.received, 1)
}

func TestExecuteRejectsFurtherSigning(t *testing.T) {
	conn := &acceptingConn{}
	c, operatorKey := newExecClient(t, conn)
	defer c.Close()

	tx := NewTransferTransaction().
		AddTransfer(testPayer, -1).
		AddTransfer(ident.AccountIDFromNum(2002), 1)
	_, err := tx.Execute(context.Background(), c)
	require.NoError(t, err)

	err = tx.Sign(operatorKey)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
}

func TestExecuteAllSubmitsEveryChunk(t *testing.T) {
	conn := &acceptingConn{}
	c, _ := newExecClient(t, conn)
	defer c.Close()

	tx := NewMessageSubmitTransaction().
		SetTopicID(testTopic).
		SetMessage([]byte("abcdefghijklmnopqrstuvwxyz")).
		SetChunkSize(10)
	responses, err := tx.ExecuteAll(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	require.Len(t, conn.received, 3)

	for i, resp := range responses {
		require.Equal(t, testPayer, resp.TransactionID.Payer)
		if i > 0 {
			require.Equal(t,
				responses[0].TransactionID.ValidStart.Add(time.Duration(i)*time.Nanosecond),
				resp.TransactionID.ValidStart)
		}
	}
}

func TestExecuteWithoutOperatorOrPayer(t *testing.T) {
	node := ident.AccountIDFromNum(3)
	c := client.New(client.Options{
		Nodes: []client.Node{{AccountID: node, Address: "unused:0"}},
	})
	defer c.Close()

	tx := NewTransferTransaction().
		AddTransfer(testPayer, -1).
		AddTransfer(ident.AccountIDFromNum(2002), 1)
	_, err := tx.Execute(context.Background(), c)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
	require.Contains(t, err.Error(), "no payer")
}
