package txn

import (
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

// TokenPauseTransaction pauses a token from being involved in any kind of
// transaction until it is unpaused. Must be signed with the token's pause
// key. Pausing an already-paused token is a network-side no-op.
type TokenPauseTransaction struct {
	Transaction
	data tokenPauseData
}

type tokenPauseData struct {
	tokenID    ident.TokenID
	tokenIDSet bool
}

func NewTokenPauseTransaction() *TokenPauseTransaction {
	t := &TokenPauseTransaction{}
	t.Transaction.init(&t.data)
	return t
}

// TokenID returns the token to be paused.
func (t *TokenPauseTransaction) TokenID() (ident.TokenID, bool) {
	return t.data.tokenID, t.data.tokenIDSet
}

// SetTokenID sets the token to be paused.
func (t *TokenPauseTransaction) SetTokenID(tokenID ident.TokenID) *TokenPauseTransaction {
	t.requireNotFrozen()
	t.data.tokenID = tokenID
	t.data.tokenIDSet = true
	return t
}

func (d *tokenPauseData) BodyData() (wire.DataKind, []byte, error) {
	if !d.tokenIDSet {
		return 0, nil, errs.New(errs.KindConstruction, "token pause requires a token id")
	}
	var e wire.Encoder
	e.Uint(d.tokenID.Shard)
	e.Uint(d.tokenID.Realm)
	e.Uint(d.tokenID.Num)
	return wire.DataKindTokenPause, e.Finish(), nil
}

func (d *tokenPauseData) Method() string { return wire.MethodPauseToken }

func (d *tokenPauseData) ValidateChecksums(ledgerID ident.LedgerID) error {
	if !d.tokenIDSet {
		return nil
	}
	return d.tokenID.ValidateChecksum(ledgerID)
}
