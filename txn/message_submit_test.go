package txn

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

var testTopic = ident.TopicID{Num: 7777}

func newSubmit(message []byte, chunkSize int) *MessageSubmitTransaction {
	tx := NewMessageSubmitTransaction().
		SetTopicID(testTopic).
		SetMessage(message).
		SetChunkSize(chunkSize)
	tx.SetTransactionID(ident.TransactionID{
		Payer:      testPayer,
		ValidStart: time.Unix(1_700_000_000, 0).UTC(),
	})
	tx.SetNodeAccountIDs(testNodes[:1])
	return tx
}

// decodeChunk pulls the fragment and its position back out of a frozen
// chunk's body bytes.
func decodeChunk(t *testing.T, bodyBytes []byte) (fragment []byte, index, total uint64) {
	t.Helper()
	body, err := wire.UnmarshalTransactionBody(bodyBytes)
	require.NoError(t, err)
	require.Equal(t, wire.DataKindMessageSubmit, body.DataKind)

	d := wire.NewDecoder(body.Data)
	require.Equal(t, testTopic.Shard, d.Uint())
	require.Equal(t, testTopic.Realm, d.Uint())
	require.Equal(t, testTopic.Num, d.Uint())
	index = d.Uint()
	total = d.Uint()
	fragment = d.Bytes()
	require.NoError(t, d.Finish())
	return fragment, index, total
}

func TestMessageSplitsIntoChunks(t *testing.T) {
	message := bytes.Repeat([]byte("abcdefghij"), 3) // exactly 3 chunks of 10
	tx := newSubmit(message, 10)
	require.NoError(t, tx.Freeze())
	require.Equal(t, 3, tx.ChunkCount())

	ids := tx.ChunkTransactionIDs()
	base, _ := tx.TransactionID()
	var reassembled []byte
	for i, id := range ids {
		// Chunks share the payer and nonce; the valid-start advances one
		// nanosecond per chunk.
		require.Equal(t, base.Payer, id.Payer)
		require.Equal(t, base.Nonce, id.Nonce)
		require.Equal(t,
			base.ValidStart.Add(time.Duration(i)*time.Nanosecond), id.ValidStart)

		fragment, index, total := decodeChunk(t, tx.chunks[i].bodies[testNodes[0]])
		require.Equal(t, uint64(i), index)
		require.Equal(t, uint64(3), total)
		reassembled = append(reassembled, fragment...)
	}
	require.Equal(t, message, reassembled)
}

func TestMessageSingleChunk(t *testing.T) {
	tx := newSubmit([]byte("short"), 1024)
	require.NoError(t, tx.Freeze())
	require.Equal(t, 1, tx.ChunkCount())

	fragment, index, total := decodeChunk(t, tx.chunks[0].bodies[testNodes[0]])
	require.Equal(t, []byte("short"), fragment)
	require.Equal(t, uint64(0), index)
	require.Equal(t, uint64(1), total)
}

func TestMessageUnevenFinalChunk(t *testing.T) {
	tx := newSubmit([]byte("abcdefghijk"), 4) // 4 + 4 + 3
	require.NoError(t, tx.Freeze())
	require.Equal(t, 3, tx.ChunkCount())

	fragment, _, _ := decodeChunk(t, tx.chunks[2].bodies[testNodes[0]])
	require.Equal(t, []byte("ijk"), fragment)
}

func TestMessageChunkLimit(t *testing.T) {
	tx := newSubmit(bytes.Repeat([]byte{'x'}, (MaxChunks+1)*10), 10)
	err := tx.Freeze()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
	require.Contains(t, err.Error(), "chunks")
}

func TestMessageRequiresTopic(t *testing.T) {
	tx := NewMessageSubmitTransaction().SetMessage([]byte("m"))
	tx.SetPayer(testPayer)
	tx.SetNodeAccountIDs(testNodes)
	err := tx.Freeze()
	require.Error(t, err)
	require.Contains(t, err.Error(), "topic")
}

func TestMessageRequiresMessage(t *testing.T) {
	tx := NewMessageSubmitTransaction().SetTopicID(testTopic)
	tx.SetPayer(testPayer)
	tx.SetNodeAccountIDs(testNodes)
	require.Error(t, tx.Freeze())
}

func TestChunkSizeValidation(t *testing.T) {
	tx := NewMessageSubmitTransaction().SetChunkSize(0)
	require.Error(t, tx.Err())

	tx = NewMessageSubmitTransaction().SetChunkSize(MaxDataBytes)
	require.Error(t, tx.Err())
}
