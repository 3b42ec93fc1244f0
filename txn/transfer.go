package txn

import (
	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/wire"
)

// TransferTransaction moves currency among two or more accounts by adjusting
// their balances. Each negative amount is withdrawn from the corresponding
// account (a sender) and each positive one added (a receiver); the currency
// amounts must sum to zero. Token adjustments balance per token.
type TransferTransaction struct {
	Transaction
	data transferData
}

type transferData struct {
	transfers      []transfer
	tokenTransfers []tokenTransfer
}

type transfer struct {
	accountID  ident.AccountID
	amount     int64
	isApproval bool
}

type tokenTransfer struct {
	tokenID   ident.TokenID
	transfers []transfer
}

func NewTransferTransaction() *TransferTransaction {
	t := &TransferTransaction{}
	t.Transaction.init(&t.data)
	return t
}

func (t *TransferTransaction) addTransfer(accountID ident.AccountID, amount int64, approved bool) *TransferTransaction {
	t.requireNotFrozen()
	t.data.transfers = append(t.data.transfers, transfer{
		accountID:  accountID,
		amount:     amount,
		isApproval: approved,
	})
	return t
}

// AddTransfer adds a currency adjustment, in tiny-units.
func (t *TransferTransaction) AddTransfer(accountID ident.AccountID, amount int64) *TransferTransaction {
	return t.addTransfer(accountID, amount, false)
}

// AddApprovedTransfer adds a currency adjustment spending an approved
// allowance.
func (t *TransferTransaction) AddApprovedTransfer(accountID ident.AccountID, amount int64) *TransferTransaction {
	return t.addTransfer(accountID, amount, true)
}

func (t *TransferTransaction) addTokenTransfer(tokenID ident.TokenID, accountID ident.AccountID, amount int64, approved bool) *TransferTransaction {
	t.requireNotFrozen()
	adj := transfer{accountID: accountID, amount: amount, isApproval: approved}
	for i := range t.data.tokenTransfers {
		if t.data.tokenTransfers[i].tokenID == tokenID {
			t.data.tokenTransfers[i].transfers = append(t.data.tokenTransfers[i].transfers, adj)
			return t
		}
	}
	t.data.tokenTransfers = append(t.data.tokenTransfers, tokenTransfer{
		tokenID:   tokenID,
		transfers: []transfer{adj},
	})
	return t
}

// AddTokenTransfer adds a token adjustment in the token's smallest unit.
func (t *TransferTransaction) AddTokenTransfer(tokenID ident.TokenID, accountID ident.AccountID, amount int64) *TransferTransaction {
	return t.addTokenTransfer(tokenID, accountID, amount, false)
}

// AddApprovedTokenTransfer adds a token adjustment spending an approved
// allowance.
func (t *TransferTransaction) AddApprovedTokenTransfer(tokenID ident.TokenID, accountID ident.AccountID, amount int64) *TransferTransaction {
	return t.addTokenTransfer(tokenID, accountID, amount, true)
}

func (d *transferData) BodyData() (wire.DataKind, []byte, error) {
	var currencySum int64
	for _, tr := range d.transfers {
		currencySum += tr.amount
	}
	if currencySum != 0 {
		return 0, nil, errs.New(errs.KindConstruction, "currency transfer amounts must sum to zero")
	}
	for _, tt := range d.tokenTransfers {
		var sum int64
		for _, tr := range tt.transfers {
			sum += tr.amount
		}
		if sum != 0 {
			return 0, nil, errs.New(errs.KindConstruction,
				"token transfer amounts must sum to zero for token "+tt.tokenID.String())
		}
	}

	var e wire.Encoder
	e.Uint(uint64(len(d.transfers)))
	for _, tr := range d.transfers {
		encodeTransfer(&e, tr)
	}
	e.Uint(uint64(len(d.tokenTransfers)))
	for _, tt := range d.tokenTransfers {
		e.Uint(tt.tokenID.Shard)
		e.Uint(tt.tokenID.Realm)
		e.Uint(tt.tokenID.Num)
		e.Uint(uint64(len(tt.transfers)))
		for _, tr := range tt.transfers {
			encodeTransfer(&e, tr)
		}
	}
	return wire.DataKindTransfer, e.Finish(), nil
}

func encodeTransfer(e *wire.Encoder, tr transfer) {
	e.Uint(tr.accountID.Shard)
	e.Uint(tr.accountID.Realm)
	e.Uint(tr.accountID.Num)
	e.Int(tr.amount)
	e.Bool(tr.isApproval)
}

func (d *transferData) Method() string { return wire.MethodTransfer }

func (d *transferData) ValidateChecksums(ledgerID ident.LedgerID) error {
	for _, tr := range d.transfers {
		if err := tr.accountID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
	}
	for _, tt := range d.tokenTransfers {
		if err := tt.tokenID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
		for _, tr := range tt.transfers {
			if err := tr.accountID.ValidateChecksum(ledgerID); err != nil {
				return err
			}
		}
	}
	return nil
}
