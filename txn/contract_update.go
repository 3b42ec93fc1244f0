package txn

import (
	"time"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

// ContractUpdateTransaction updates the fields of a smart contract to the
// given values. Unset fields are left unchanged on the network.
type ContractUpdateTransaction struct {
	Transaction
	data contractUpdateData
}

type contractUpdateData struct {
	contractID    ident.ContractID
	contractIDSet bool

	adminKey           *keys.PublicKey
	expirationTime     *time.Time
	autoRenewPeriod    *time.Duration
	autoRenewAccountID *ident.AccountID
	contractMemo       *string
}

func NewContractUpdateTransaction() *ContractUpdateTransaction {
	t := &ContractUpdateTransaction{}
	t.Transaction.init(&t.data)
	return t
}

// ContractID returns the contract to be updated.
func (t *ContractUpdateTransaction) ContractID() (ident.ContractID, bool) {
	return t.data.contractID, t.data.contractIDSet
}

// SetContractID sets the contract to be updated.
func (t *ContractUpdateTransaction) SetContractID(id ident.ContractID) *ContractUpdateTransaction {
	t.requireNotFrozen()
	t.data.contractID = id
	t.data.contractIDSet = true
	return t
}

// SetAdminKey sets the new admin key.
func (t *ContractUpdateTransaction) SetAdminKey(key keys.PublicKey) *ContractUpdateTransaction {
	t.requireNotFrozen()
	t.data.adminKey = &key
	return t
}

// SetExpirationTime sets the new expiration time to extend to (ignored by
// the network if equal to or before the current one).
func (t *ContractUpdateTransaction) SetExpirationTime(at time.Time) *ContractUpdateTransaction {
	t.requireNotFrozen()
	at = at.UTC()
	t.data.expirationTime = &at
	return t
}

// SetAutoRenewPeriod sets the auto renew period for the contract.
func (t *ContractUpdateTransaction) SetAutoRenewPeriod(d time.Duration) *ContractUpdateTransaction {
	t.requireNotFrozen()
	if d <= 0 {
		t.latch(errs.New(errs.KindConstruction, "auto renew period must be positive"))
		return t
	}
	t.data.autoRenewPeriod = &d
	return t
}

// SetAutoRenewAccountID sets the account charged to extend the contract's
// expiration.
func (t *ContractUpdateTransaction) SetAutoRenewAccountID(id ident.AccountID) *ContractUpdateTransaction {
	t.requireNotFrozen()
	t.data.autoRenewAccountID = &id
	return t
}

// SetContractMemo sets the new contract memo.
func (t *ContractUpdateTransaction) SetContractMemo(memo string) *ContractUpdateTransaction {
	t.requireNotFrozen()
	if len(memo) > MaxMemoLength {
		t.latch(errs.New(errs.KindConstruction, "contract memo exceeds the maximum length"))
		return t
	}
	t.data.contractMemo = &memo
	return t
}

func (d *contractUpdateData) BodyData() (wire.DataKind, []byte, error) {
	if !d.contractIDSet {
		return 0, nil, errs.New(errs.KindConstruction, "contract update requires a contract id")
	}

	var e wire.Encoder
	e.Uint(d.contractID.Shard)
	e.Uint(d.contractID.Realm)
	e.Uint(d.contractID.Num)

	e.Bool(d.adminKey != nil)
	if d.adminKey != nil {
		e.String(string(d.adminKey.Algorithm()))
		e.Bytes(d.adminKey.Bytes())
	}

	e.Bool(d.expirationTime != nil)
	if d.expirationTime != nil {
		e.Int(d.expirationTime.Unix())
		e.Uint(uint64(d.expirationTime.Nanosecond()))
	}

	e.Bool(d.autoRenewPeriod != nil)
	if d.autoRenewPeriod != nil {
		e.Uint(uint64(*d.autoRenewPeriod / time.Second))
	}

	e.Bool(d.autoRenewAccountID != nil)
	if d.autoRenewAccountID != nil {
		e.Uint(d.autoRenewAccountID.Shard)
		e.Uint(d.autoRenewAccountID.Realm)
		e.Uint(d.autoRenewAccountID.Num)
	}

	e.Bool(d.contractMemo != nil)
	if d.contractMemo != nil {
		e.String(*d.contractMemo)
	}

	return wire.DataKindContractUpdate, e.Finish(), nil
}

func (d *contractUpdateData) Method() string { return wire.MethodUpdateContract }

func (d *contractUpdateData) ValidateChecksums(ledgerID ident.LedgerID) error {
	if d.contractIDSet {
		if err := d.contractID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
	}
	if d.autoRenewAccountID != nil {
		return d.autoRenewAccountID.ValidateChecksum(ledgerID)
	}
	return nil
}
