package txn

import (
	"fmt"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

const (
	// DefaultChunkSize is the message fragment size per chunk.
	DefaultChunkSize = 1024

	// MaxChunks caps how many chunks one message may expand into.
	MaxChunks = 20

	// maxChunkSize leaves room inside MaxDataBytes for the topic id and
	// chunk position fields that accompany each fragment.
	maxChunkSize = MaxDataBytes - 64
)

// MessageSubmitTransaction appends a message to a topic. Messages larger
// than the chunk size expand into an ordered chunk sequence sharing the base
// transaction id's payer and nonce; each chunk is signed and dispatched
// independently.
type MessageSubmitTransaction struct {
	Transaction
	data messageSubmitData
}

type messageSubmitData struct {
	topicID    ident.TopicID
	topicIDSet bool
	message    []byte
	chunkSize  int
}

func NewMessageSubmitTransaction() *MessageSubmitTransaction {
	t := &MessageSubmitTransaction{}
	t.data.chunkSize = DefaultChunkSize
	t.Transaction.init(&t.data)
	return t
}

// TopicID returns the topic the message is appended to.
func (t *MessageSubmitTransaction) TopicID() (ident.TopicID, bool) {
	return t.data.topicID, t.data.topicIDSet
}

// SetTopicID sets the topic the message is appended to.
func (t *MessageSubmitTransaction) SetTopicID(id ident.TopicID) *MessageSubmitTransaction {
	t.requireNotFrozen()
	t.data.topicID = id
	t.data.topicIDSet = true
	return t
}

// SetMessage sets the message bytes.
func (t *MessageSubmitTransaction) SetMessage(message []byte) *MessageSubmitTransaction {
	t.requireNotFrozen()
	t.data.message = append([]byte(nil), message...)
	return t
}

// SetChunkSize overrides the fragment size per chunk.
func (t *MessageSubmitTransaction) SetChunkSize(size int) *MessageSubmitTransaction {
	t.requireNotFrozen()
	if size <= 0 || size > maxChunkSize {
		t.latch(errs.New(errs.KindConstruction,
			fmt.Sprintf("chunk size must be in 1..%d, got %d", maxChunkSize, size)))
		return t
	}
	t.data.chunkSize = size
	return t
}

// messageChunkData is one fragment of a split message. The chunk index and
// total are part of the canonical bytes so the network can reassemble the
// sequence.
type messageChunkData struct {
	topicID  ident.TopicID
	fragment []byte
	index    int
	total    int
}

func (d *messageSubmitData) SplitChunks() ([]Data, error) {
	if !d.topicIDSet {
		return nil, errs.New(errs.KindConstruction, "message submit requires a topic id")
	}
	if len(d.message) == 0 {
		return nil, errs.New(errs.KindConstruction, "message submit requires a non-empty message")
	}

	total := (len(d.message) + d.chunkSize - 1) / d.chunkSize
	if total > MaxChunks {
		return nil, errs.New(errs.KindConstruction,
			fmt.Sprintf("message of %d bytes needs %d chunks; the maximum is %d",
				len(d.message), total, MaxChunks))
	}

	chunks := make([]Data, 0, total)
	for i := 0; i < total; i++ {
		start := i * d.chunkSize
		end := start + d.chunkSize
		if end > len(d.message) {
			end = len(d.message)
		}
		chunks = append(chunks, &messageChunkData{
			topicID:  d.topicID,
			fragment: d.message[start:end],
			index:    i,
			total:    total,
		})
	}
	return chunks, nil
}

// BodyData on the unsplit payload exists to satisfy the Data contract; the
// pipeline always goes through SplitChunks for chunk-capable types.
func (d *messageSubmitData) BodyData() (wire.DataKind, []byte, error) {
	chunk := messageChunkData{topicID: d.topicID, fragment: d.message, index: 0, total: 1}
	return chunk.BodyData()
}

func (d *messageSubmitData) Method() string { return wire.MethodSubmitMessage }

func (d *messageSubmitData) ValidateChecksums(ledgerID ident.LedgerID) error {
	if !d.topicIDSet {
		return nil
	}
	return d.topicID.ValidateChecksum(ledgerID)
}

func (d *messageChunkData) BodyData() (wire.DataKind, []byte, error) {
	var e wire.Encoder
	e.Uint(d.topicID.Shard)
	e.Uint(d.topicID.Realm)
	e.Uint(d.topicID.Num)
	e.Uint(uint64(d.index))
	e.Uint(uint64(d.total))
	e.Bytes(d.fragment)
	return wire.DataKindMessageSubmit, e.Finish(), nil
}

func (d *messageChunkData) Method() string { return wire.MethodSubmitMessage }

func (d *messageChunkData) ValidateChecksums(ledgerID ident.LedgerID) error {
	return d.topicID.ValidateChecksum(ledgerID)
}
