package txn

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

var (
	testPayer = ident.AccountIDFromNum(1001)
	testNodes = []ident.AccountID{
		ident.AccountIDFromNum(3),
		ident.AccountIDFromNum(4),
	}
)

// balancedTransfer returns a freezable transfer with payer and nodes set.
func balancedTransfer() *TransferTransaction {
	t := NewTransferTransaction().
		AddTransfer(testPayer, -10).
		AddTransfer(ident.AccountIDFromNum(2002), 10)
	t.SetPayer(testPayer)
	t.SetNodeAccountIDs(testNodes)
	return t
}

func TestFreezeAssignsTransactionID(t *testing.T) {
	tx := balancedTransfer()
	_, ok := tx.TransactionID()
	require.False(t, ok)

	require.NoError(t, tx.Freeze())
	id, ok := tx.TransactionID()
	require.True(t, ok)
	require.Equal(t, testPayer, id.Payer)
	require.False(t, id.ValidStart.IsZero())
	require.Equal(t, 1, tx.ChunkCount())
}

func TestFreezeIsIdempotent(t *testing.T) {
	tx := balancedTransfer()
	require.NoError(t, tx.Freeze())
	id1, _ := tx.TransactionID()
	bodies1 := tx.chunks[0].bodies[testNodes[0]]

	require.NoError(t, tx.Freeze())
	id2, _ := tx.TransactionID()
	require.Equal(t, id1, id2)
	require.Equal(t, bodies1, tx.chunks[0].bodies[testNodes[0]])
	require.Equal(t, 1, tx.ChunkCount())
}

func TestFreezeRequiresPayer(t *testing.T) {
	tx := NewTransferTransaction().
		AddTransfer(testPayer, -1).
		AddTransfer(ident.AccountIDFromNum(2002), 1)
	tx.SetNodeAccountIDs(testNodes)
	err := tx.Freeze()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
	require.Contains(t, err.Error(), "no payer")
}

func TestFreezeRequiresNodes(t *testing.T) {
	tx := NewTransferTransaction().
		AddTransfer(testPayer, -1).
		AddTransfer(ident.AccountIDFromNum(2002), 1)
	tx.SetPayer(testPayer)
	err := tx.Freeze()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no node list")
}

func TestMutationAfterFreezeLatches(t *testing.T) {
	tx := balancedTransfer()
	require.NoError(t, tx.Freeze())

	tx.SetMemo("too late")
	require.Error(t, tx.Err())
	require.True(t, errs.IsKind(tx.Err(), errs.KindConstruction))
}

func TestMemoTooLongSurfacesAtFreeze(t *testing.T) {
	tx := balancedTransfer()
	tx.SetMemo(strings.Repeat("m", MaxMemoLength+1))
	err := tx.Freeze()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
}

func TestExplicitTransactionID(t *testing.T) {
	want := ident.TransactionID{
		Payer:      testPayer,
		ValidStart: time.Unix(1_700_000_000, 42).UTC(),
	}
	tx := balancedTransfer()
	tx.SetTransactionID(want)
	require.NoError(t, tx.Freeze())
	got, ok := tx.TransactionID()
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestSignedBytesBindNode(t *testing.T) {
	tx := balancedTransfer()
	require.NoError(t, tx.Freeze())

	a, err := tx.SignedBytesFor(testNodes[0])
	require.NoError(t, err)
	b, err := tx.SignedBytesFor(testNodes[1])
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = tx.SignedBytesFor(ident.AccountIDFromNum(99))
	require.Error(t, err)
}

func TestSignIsIdempotentPerKey(t *testing.T) {
	key1, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)
	key2, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)

	tx := balancedTransfer()
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(key1))
	require.NoError(t, tx.Sign(key1))

	raw, err := tx.SignedBytesFor(testNodes[0])
	require.NoError(t, err)
	signed, err := wire.UnmarshalSignedTransaction(raw)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)

	require.NoError(t, tx.Sign(key2))
	raw, err = tx.SignedBytesFor(testNodes[0])
	require.NoError(t, err)
	signed, err = wire.UnmarshalSignedTransaction(raw)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 2)
}

func TestSignatureCoversBodyBytes(t *testing.T) {
	key, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)

	tx := balancedTransfer()
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(key))

	raw, err := tx.SignedBytesFor(testNodes[1])
	require.NoError(t, err)
	signed, err := wire.UnmarshalSignedTransaction(raw)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)
	require.True(t, key.PublicKey().Verify(signed.BodyBytes, signed.Signatures[0].Signature))

	// The signed body names the node it was aimed at.
	body, err := wire.UnmarshalTransactionBody(signed.BodyBytes)
	require.NoError(t, err)
	require.Equal(t, testNodes[1], body.NodeAccountID)
}

func TestSignRequiresFreeze(t *testing.T) {
	key, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)
	err = balancedTransfer().Sign(key)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
}
