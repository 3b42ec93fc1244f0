package query

import (
	"context"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

// AccountBalance is the answer to an AccountBalanceQuery.
type AccountBalance struct {
	AccountID ident.AccountID

	// Balance is the account's currency balance, in tiny-units.
	Balance uint64
}

// AccountBalanceQuery asks for the current balance of one account.
type AccountBalanceQuery struct {
	Query
	data accountBalanceData
}

type accountBalanceData struct {
	accountID    ident.AccountID
	accountIDSet bool
}

func NewAccountBalanceQuery() *AccountBalanceQuery {
	q := &AccountBalanceQuery{}
	q.Query.init(&q.data)
	return q
}

// AccountID returns the account whose balance is requested.
func (q *AccountBalanceQuery) AccountID() (ident.AccountID, bool) {
	return q.data.accountID, q.data.accountIDSet
}

// SetAccountID sets the account whose balance is requested.
func (q *AccountBalanceQuery) SetAccountID(id ident.AccountID) *AccountBalanceQuery {
	q.data.accountID = id
	q.data.accountIDSet = true
	return q
}

// Execute pays for and runs the query, returning the decoded balance.
func (q *AccountBalanceQuery) Execute(ctx context.Context, c *client.Client) (AccountBalance, error) {
	env, _, err := q.answer(ctx, c)
	if err != nil {
		return AccountBalance{}, err
	}
	return decodeAccountBalance(env.Payload)
}

func (d *accountBalanceData) QueryData() (wire.DataKind, []byte, error) {
	if !d.accountIDSet {
		return 0, nil, errs.New(errs.KindConstruction, "account balance query requires an account id")
	}
	var e wire.Encoder
	e.Uint(d.accountID.Shard)
	e.Uint(d.accountID.Realm)
	e.Uint(d.accountID.Num)
	return wire.DataKindAccountBalanceQuery, e.Finish(), nil
}

func (d *accountBalanceData) Method() string { return wire.MethodGetAccountBalance }

func (d *accountBalanceData) ValidateChecksums(ledgerID ident.LedgerID) error {
	if !d.accountIDSet {
		return nil
	}
	return d.accountID.ValidateChecksum(ledgerID)
}

func decodeAccountBalance(raw []byte) (AccountBalance, error) {
	d := wire.NewDecoder(raw)
	var b AccountBalance
	b.AccountID.Shard = d.Uint()
	b.AccountID.Realm = d.Uint()
	b.AccountID.Num = d.Uint()
	b.Balance = d.Uint()
	if err := d.Finish(); err != nil {
		return AccountBalance{}, err
	}
	return b, nil
}
